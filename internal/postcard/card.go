package postcard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kodik/postcard/internal/models"
	"github.com/kodik/postcard/pkg/telemetry"
)

var (
	// ErrPostNotFound is returned when mounting a post the store does not hold
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentsHidden is returned for comment submissions while the
	// comment panel is closed
	ErrCommentsHidden = errors.New("comment panel is closed")
)

// Deps are the collaborators of a mounted card
type Deps struct {
	Store    Store
	Sellers  SellerLookup
	Auth     AuthContext
	Notifier Notifier
	// Native may be nil when the host has no share sheet.
	Native   NativeSharer
	Fallback SharePresenter

	AppName      string
	ShareBaseURL string
	LoginPath    string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Card is one mounted post with its session-local interaction state
type Card struct {
	mu sync.Mutex

	post   models.Post
	seller models.Seller

	auth       AuthContext
	gate       *Gate
	engagement *Engagement
	comments   *CommentSync
	share      *ShareCoordinator
	now        func() time.Time

	showComments bool
}

// Mount loads postID and builds its card. A post whose seller cannot be
// resolved has no card: Mount returns (nil, nil).
func Mount(ctx context.Context, deps Deps, postID int64) (*Card, error) {
	post, err := deps.Store.FindPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	sellers, err := deps.Sellers.ListSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}

	seller := models.FindSeller(sellers, post.SellerID)
	if seller == nil {
		return nil, nil
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	card := &Card{
		post:   *post,
		seller: *seller,
		auth:   deps.Auth,
		gate:   NewGate(deps.Auth, deps.Notifier, deps.LoginPath),
		share:  NewShareCoordinator(deps.Native, deps.Fallback, deps.AppName, deps.ShareBaseURL),
		now:    now,
	}
	card.post.Comments = nil
	card.engagement = NewEngagement(&card.post)
	card.comments = NewCommentSync(deps.Store, card.gate, post.ID, post.Comments)

	return card, nil
}

// PostID returns the id of the mounted post
func (c *Card) PostID() int64 {
	return c.post.ID
}

// Result describes what a dispatched action did
type Result struct {
	// Performed is false when the action was turned into a login prompt.
	Performed bool `json:"performed"`
	// Comment is the canonical record of a submitted comment.
	Comment *models.Comment `json:"comment,omitempty"`
	// Share is set for Share actions.
	Share ShareOutcome `json:"share,omitempty"`
}

// Dispatch applies one user action to the card. Gated actions from
// unauthenticated callers only produce a login prompt.
func (c *Card) Dispatch(ctx context.Context, action Action) (res Result, err error) {
	if action == nil {
		return res, errors.New("nil action")
	}

	ctx, span := telemetry.StartSpan(ctx, "postcard.dispatch", trace.WithAttributes(
		attribute.Int64("post_id", c.post.ID),
		attribute.String("action", action.name()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Bool("performed", res.Performed))
		span.End()
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	switch a := action.(type) {
	case ToggleLike:
		res.Performed = c.gate.Guard(ctx, c.engagement.Toggle)
	case ToggleComments:
		res.Performed = c.gate.Guard(ctx, func() { c.showComments = !c.showComments })
	case StartReply:
		res.Performed = c.gate.Guard(ctx, func() { c.comments.StartReply(a.CommentID) })
	case CancelReply:
		c.comments.CancelReply()
		res.Performed = true
	case SubmitComment:
		// The comment form only exists inside the open panel
		if !c.showComments {
			if c.gate.Guard(ctx, func() {}) {
				err = ErrCommentsHidden
			}
			break
		}
		res.Comment, err = c.comments.Submit(ctx, a.Text, a.ParentID)
		res.Performed = res.Comment != nil
	case Share:
		res.Share = c.share.Share(ctx, &c.seller)
		res.Performed = res.Share != ShareSkipped
	}

	return res, err
}
