package postcard

import (
	"context"

	"github.com/kodik/postcard/internal/auth"
	"github.com/kodik/postcard/internal/models"
)

// Store is the Authoritative Store: the canonical owner of posts and comments.
type Store interface {
	// FindPostByID returns the post with its comments, or nil when absent.
	FindPostByID(ctx context.Context, id int64) (*models.Post, error)
	// AppendComment assigns the comment an id, appends it to the post's
	// canonical list and returns the created record.
	AppendComment(ctx context.Context, postID int64, comment models.Comment) (*models.Comment, error)
}

// SellerLookup lists the sellers posts refer to.
type SellerLookup interface {
	ListSellers(ctx context.Context) ([]models.Seller, error)
}

// AuthContext exposes the caller's identity.
type AuthContext interface {
	CurrentUser(ctx context.Context) *auth.User
	IsAuthenticated(ctx context.Context) bool
}

// Severity of a notification
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// NotificationAction is the call-to-action attached to a notification
type NotificationAction struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Notification is a banner shown to the user
type Notification struct {
	Title    string              `json:"title"`
	Body     string              `json:"body"`
	Severity Severity            `json:"severity"`
	Action   *NotificationAction `json:"action,omitempty"`
}

// Notifier dispatches notifications to the user
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
