package db

import (
	"context"
	"slices"
	"sync"

	"github.com/kodik/postcard/internal/models"
)

// MemoryStore is an in-process Authoritative Store. Writes are serialized and
// ids are assigned from per-store sequences.
type MemoryStore struct {
	mu            sync.RWMutex
	posts         map[int64]*models.Post
	sellers       []models.Seller
	nextCommentID int64
}

// NewMemoryStore creates a store holding copies of the given sellers and posts
func NewMemoryStore(sellers []models.Seller, posts []models.Post) *MemoryStore {
	s := &MemoryStore{
		posts:   make(map[int64]*models.Post, len(posts)),
		sellers: slices.Clone(sellers),
	}

	for i := range posts {
		post := clonePost(&posts[i])
		s.posts[post.ID] = post
		for _, c := range post.Comments {
			s.nextCommentID = max(s.nextCommentID, c.ID)
		}
	}

	return s
}

// FindPostByID returns a copy of the post and its comments, or nil
func (s *MemoryStore) FindPostByID(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(post), nil
}

// AppendComment assigns the next id and appends the comment to the post's list
func (s *MemoryStore) AppendComment(_ context.Context, postID int64, comment models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}

	s.nextCommentID++
	comment.ID = s.nextCommentID
	comment.PostID = postID
	if comment.ParentID != nil {
		parentID := *comment.ParentID
		comment.ParentID = &parentID
	}

	post.Comments = append(post.Comments, comment)

	created := comment
	return &created, nil
}

// ListComments returns a copy of the post's comments
func (s *MemoryStore) ListComments(_ context.Context, postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	return cloneComments(post.Comments), nil
}

// ListSellers returns a copy of the seller list
func (s *MemoryStore) ListSellers(_ context.Context) ([]models.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.sellers), nil
}

// Health always succeeds
func (s *MemoryStore) Health(_ context.Context) error {
	return nil
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Comments = cloneComments(p.Comments)
	return &cp
}

func cloneComments(comments []models.Comment) []models.Comment {
	out := make([]models.Comment, len(comments))
	for i, c := range comments {
		if c.ParentID != nil {
			parentID := *c.ParentID
			c.ParentID = &parentID
		}
		out[i] = c
	}
	return out
}
