package postcard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kodik/postcard/internal/models"
	"github.com/kodik/postcard/pkg/logging"
	"github.com/kodik/postcard/pkg/telemetry"
)

// ErrDuplicateComment means the store returned an id already in the local list
var ErrDuplicateComment = errors.New("store returned a comment id already present locally")

// CommentSync keeps a card's local comment list. The list starts as the
// store's list at mount time and then only grows by the comments submitted
// through it; comments added elsewhere during the mount are not picked up.
type CommentSync struct {
	store      Store
	gate       *Gate
	postID     int64
	comments   []models.Comment
	replyingTo *int64
}

// NewCommentSync creates a comment list for postID seeded with initial
func NewCommentSync(store Store, gate *Gate, postID int64, initial []models.Comment) *CommentSync {
	comments := make([]models.Comment, len(initial))
	copy(comments, initial)

	return &CommentSync{
		store:    store,
		gate:     gate,
		postID:   postID,
		comments: comments,
	}
}

// Submit appends a comment written by the current user. A nil parentID posts
// a top-level comment. Without a current user it prompts a login and returns
// (nil, nil). On store failure the local list and reply target are unchanged.
func (s *CommentSync) Submit(ctx context.Context, text string, parentID *int64) (*models.Comment, error) {
	user, ok := s.gate.RequireUser(ctx)
	if !ok {
		return nil, nil
	}

	draft := models.Comment{
		PostID:    s.postID,
		ParentID:  parentID,
		UserName:  user.DisplayName(),
		UserEmail: user.Email,
		Text:      text,
	}

	created, err := s.store.AppendComment(ctx, s.postID, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}

	if s.indexOf(created.ID) >= 0 {
		return nil, fmt.Errorf("comment %d: %w", created.ID, ErrDuplicateComment)
	}

	s.comments = append(s.comments, *created)
	s.replyingTo = nil

	logging.FromContext(ctx, "comment-sync").Debug("Comment appended",
		zap.Int64("post_id", s.postID),
		zap.Int64("comment_id", created.ID),
		zap.Bool("reply", created.ParentID != nil))
	telemetry.Count(ctx, "postcard.comments_appended")

	return created, nil
}

// StartReply sets the active reply target
func (s *CommentSync) StartReply(commentID int64) {
	s.replyingTo = &commentID
}

// CancelReply clears the active reply target
func (s *CommentSync) CancelReply() {
	s.replyingTo = nil
}

// ReplyingTo returns the active reply target, or nil
func (s *CommentSync) ReplyingTo() *int64 {
	if s.replyingTo == nil {
		return nil
	}
	id := *s.replyingTo
	return &id
}

// Count is the number of comments in the local list
func (s *CommentSync) Count() int {
	return len(s.comments)
}

// Comments returns a copy of the local list in insertion order
func (s *CommentSync) Comments() []models.Comment {
	out := make([]models.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// TopLevel returns the comments that are not replies
func (s *CommentSync) TopLevel() []models.Comment {
	var out []models.Comment
	for _, c := range s.comments {
		if c.IsTopLevel() {
			out = append(out, c)
		}
	}
	return out
}

func (s *CommentSync) indexOf(id int64) int {
	for i := range s.comments {
		if s.comments[i].ID == id {
			return i
		}
	}
	return -1
}

// RepliesTo returns the direct replies to parentID in list order
func RepliesTo(comments []models.Comment, parentID int64) []models.Comment {
	var out []models.Comment
	for _, c := range comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out
}
