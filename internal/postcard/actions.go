package postcard

// Action is a user event dispatched to a Card
type Action interface {
	name() string
}

// ToggleLike likes or unlikes the post. Gated.
type ToggleLike struct{}

// ToggleComments shows or hides the comment panel. Gated.
type ToggleComments struct{}

// StartReply makes CommentID the active reply target. Gated.
type StartReply struct {
	CommentID int64
}

// CancelReply clears the active reply target
type CancelReply struct{}

// SubmitComment posts Text as the current user; a non-nil ParentID makes it a reply
type SubmitComment struct {
	Text     string
	ParentID *int64
}

// Share shares the post
type Share struct{}

func (ToggleLike) name() string     { return "toggle_like" }
func (ToggleComments) name() string { return "toggle_comments" }
func (StartReply) name() string     { return "start_reply" }
func (CancelReply) name() string    { return "cancel_reply" }
func (SubmitComment) name() string  { return "submit_comment" }
func (Share) name() string          { return "share" }
