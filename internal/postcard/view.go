package postcard

import (
	"context"

	"github.com/kodik/postcard/internal/models"
)

// Empty comment panel copy
const (
	EmptyCommentsTitle = "Belum ada komentar."
	EmptyCommentsHint  = "Jadilah yang pertama berkomentar!"
)

// SellerView is the card header
type SellerView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MediaView is the optional post attachment
type MediaView struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// CommentsView is what the external comment renderer receives. TopLevel are
// rendered as threads; All resolves their replies (see RepliesTo).
type CommentsView struct {
	Visible    bool             `json:"visible"`
	Count      int              `json:"count"`
	TopLevel   []models.Comment `json:"topLevel"`
	All        []models.Comment `json:"all"`
	ReplyingTo *int64           `json:"replyingTo"`
	// CanComment offers the top-level comment form.
	CanComment bool   `json:"canComment"`
	EmptyTitle string `json:"emptyTitle,omitempty"`
	EmptyHint  string `json:"emptyHint,omitempty"`
}

// View is a render-ready snapshot of a card
type View struct {
	PostID   int64        `json:"postId"`
	Seller   SellerView   `json:"seller"`
	Age      string       `json:"age"`
	Content  string       `json:"content"`
	Media    *MediaView   `json:"media,omitempty"`
	Likes    int64        `json:"likes"`
	Liked    bool         `json:"liked"`
	Comments CommentsView `json:"comments"`
}

// View snapshots the card for the caller in ctx
func (c *Card) View(ctx context.Context) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		PostID: c.post.ID,
		Seller: SellerView{
			ID:       c.seller.ID,
			Name:     c.seller.Name,
			ImageURL: c.seller.ImageURL,
		},
		Age:     FormatAge(c.now().Sub(c.post.Timestamp)),
		Content: c.post.Content,
		Likes:   c.engagement.Likes(),
		Liked:   c.engagement.Liked(),
		Comments: CommentsView{
			Visible:    c.showComments,
			Count:      c.comments.Count(),
			TopLevel:   c.comments.TopLevel(),
			All:        c.comments.Comments(),
			ReplyingTo: c.comments.ReplyingTo(),
			CanComment: c.auth.IsAuthenticated(ctx),
		},
	}

	if c.post.HasMedia() {
		mediaType := c.post.MediaType
		if mediaType != models.MediaVideo {
			mediaType = models.MediaImage
		}
		v.Media = &MediaView{URL: c.post.MediaURL, Type: mediaType}
	}

	if len(v.Comments.TopLevel) == 0 {
		v.Comments.EmptyTitle = EmptyCommentsTitle
		v.Comments.EmptyHint = EmptyCommentsHint
	}

	return v
}
