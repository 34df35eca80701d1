package postcard

import "github.com/kodik/postcard/internal/models"

// Engagement owns the like flag of a mounted card and the optimistic like
// counter on its working copy of the post. Counts are never written back, so
// they may drift from the store for the lifetime of the mount.
type Engagement struct {
	post  *models.Post
	liked bool
}

// NewEngagement starts unliked with the post's current counter
func NewEngagement(post *models.Post) *Engagement {
	return &Engagement{post: post}
}

// Toggle flips the like flag and moves the counter by one in the same direction
func (e *Engagement) Toggle() {
	if e.liked {
		e.post.Likes--
	} else {
		e.post.Likes++
	}
	e.liked = !e.liked
}

// Liked reports the like flag
func (e *Engagement) Liked() bool {
	return e.liked
}

// Likes returns the working like counter
func (e *Engagement) Likes() int64 {
	return e.post.Likes
}
