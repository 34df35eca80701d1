package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kodik/postcard/internal/models"
)

// ErrPostNotFound is returned when a comment targets a post the store does not hold
var ErrPostNotFound = errors.New("post not found")

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post with its comments in insertion order
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create inserts the comment; the database assigns its id
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByPostID lists a post's comments in insertion order
func (r *CommentRepository) ListByPostID(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// SellerRepository provides seller-related database operations
type SellerRepository struct {
	*Repository
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(repo *Repository) *SellerRepository {
	return &SellerRepository{Repository: repo}
}

// List retrieves all sellers
func (r *SellerRepository) List(ctx context.Context) ([]models.Seller, error) {
	var sellers []models.Seller
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Create creates a new seller
func (r *SellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

// Store is the postgres-backed Authoritative Store
type Store struct {
	db       *gorm.DB
	posts    *PostRepository
	comments *CommentRepository
	sellers  *SellerRepository
}

// NewStore creates a store over the given connection
func NewStore(db *gorm.DB) *Store {
	repo := NewRepository(db)
	return &Store{
		db:       db,
		posts:    NewPostRepository(repo),
		comments: NewCommentRepository(repo),
		sellers:  NewSellerRepository(repo),
	}
}

// FindPostByID returns the post and its canonical comment list, or nil
func (s *Store) FindPostByID(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post %d: %w", id, err)
	}
	return post, nil
}

// AppendComment stores the comment under postID and returns the created record.
// Any id set on comment is ignored.
func (s *Store) AppendComment(ctx context.Context, postID int64, comment models.Comment) (*models.Comment, error) {
	comment.ID = 0
	comment.PostID = postID

	if err := s.comments.Create(ctx, &comment); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to append comment to post %d: %w", postID, err)
	}
	return &comment, nil
}

// ListComments returns the canonical comment list of a post
func (s *Store) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments, err := s.comments.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of post %d: %w", postID, err)
	}
	return comments, nil
}

// ListSellers returns every known seller
func (s *Store) ListSellers(ctx context.Context) ([]models.Seller, error) {
	sellers, err := s.sellers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	return sellers, nil
}

// Health pings the underlying connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
