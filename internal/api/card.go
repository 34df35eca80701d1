package api

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kodik/postcard/internal/auth"
	"github.com/kodik/postcard/internal/models"
	"github.com/kodik/postcard/internal/postcard"
	"github.com/kodik/postcard/pkg/config"
)

// Store is the Authoritative Store as the API uses it
type Store interface {
	postcard.Store
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
}

// CardAPI provides the postcard.* methods
type CardAPI struct {
	registry *postcard.Registry
	store    Store
	sellers  postcard.SellerLookup
	now      func() time.Time
	deps     postcard.Deps
}

// NewCardAPI creates the card API. now may be nil.
func NewCardAPI(registry *postcard.Registry, store Store, sellers postcard.SellerLookup, cfg *config.CardConfig, now func() time.Time) *CardAPI {
	if now == nil {
		now = time.Now
	}
	return &CardAPI{
		registry: registry,
		store:    store,
		sellers:  sellers,
		now:      now,
		deps: postcard.Deps{
			Store:        store,
			Sellers:      sellers,
			Auth:         auth.ContextAuth{},
			Notifier:     outboxNotifier{},
			Native:       clientSharer{},
			Fallback:     outboxPresenter{},
			AppName:      cfg.AppName,
			ShareBaseURL: cfg.ShareBaseURL,
			LoginPath:    cfg.LoginPath,
			Now:          now,
		},
	}
}

type mountParams struct {
	PostID int64 `json:"postId"`
}

type cardParams struct {
	MountID string `json:"mountId"`
}

type startReplyParams struct {
	MountID   string `json:"mountId"`
	CommentID int64  `json:"commentId"`
}

type submitCommentParams struct {
	MountID  string `json:"mountId"`
	Text     string `json:"text"`
	ParentID *int64 `json:"parentId"`
}

type formatAgeParams struct {
	Timestamp string `json:"timestamp"`
}

type shareParams struct {
	MountID string             `json:"mountId"`
	Native  *NativeShareReport `json:"native"`
}

// MountResult is returned by postcard.mount. A post whose seller is unknown
// is not mounted.
type MountResult struct {
	Mounted bool           `json:"mounted"`
	MountID string         `json:"mountId,omitempty"`
	View    *postcard.View `json:"view,omitempty"`
}

// ActionResult is returned by every card action
type ActionResult struct {
	View    postcard.View   `json:"view"`
	Result  postcard.Result `json:"result"`
	Effects Effects         `json:"effects"`
}

func decodeParams(params json.RawMessage, dst interface{}) error {
	if len(params) == 0 {
		return invalidParams("missing parameters")
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return invalidParams("invalid parameters format: %v", err)
	}
	return nil
}

func (a *CardAPI) card(mountID string) (*postcard.Card, error) {
	if mountID == "" {
		return nil, invalidParams("missing required parameter: mountId")
	}
	return a.registry.Get(mountID)
}

func (a *CardAPI) dispatch(c *gin.Context, mountID string, action postcard.Action, report *NativeShareReport) (interface{}, error) {
	card, err := a.card(mountID)
	if err != nil {
		return nil, err
	}

	ctx, ob := withOutbox(c.Request.Context())
	if report != nil {
		ctx = withShareReport(ctx, report)
	}

	res, err := card.Dispatch(ctx, action)
	if err != nil {
		return nil, err
	}

	return ActionResult{
		View:    card.View(ctx),
		Result:  res,
		Effects: ob.Effects(),
	}, nil
}

// Mount handles postcard.mount
func (a *CardAPI) Mount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p mountParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.PostID <= 0 {
		return nil, invalidParams("missing required parameter: postId")
	}

	ctx := c.Request.Context()
	card, err := postcard.Mount(ctx, a.deps, p.PostID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return MountResult{}, nil
	}

	view := card.View(ctx)
	return MountResult{
		Mounted: true,
		MountID: a.registry.Add(card),
		View:    &view,
	}, nil
}

// View handles postcard.view
func (a *CardAPI) View(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p cardParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	card, err := a.card(p.MountID)
	if err != nil {
		return nil, err
	}
	return card.View(c.Request.Context()), nil
}

// ToggleLike handles postcard.toggle_like
func (a *CardAPI) ToggleLike(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p cardParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return a.dispatch(c, p.MountID, postcard.ToggleLike{}, nil)
}

// ToggleComments handles postcard.toggle_comments
func (a *CardAPI) ToggleComments(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p cardParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return a.dispatch(c, p.MountID, postcard.ToggleComments{}, nil)
}

// StartReply handles postcard.start_reply
func (a *CardAPI) StartReply(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p startReplyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.CommentID <= 0 {
		return nil, invalidParams("missing required parameter: commentId")
	}
	return a.dispatch(c, p.MountID, postcard.StartReply{CommentID: p.CommentID}, nil)
}

// CancelReply handles postcard.cancel_reply
func (a *CardAPI) CancelReply(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p cardParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return a.dispatch(c, p.MountID, postcard.CancelReply{}, nil)
}

// SubmitComment handles postcard.submit_comment
func (a *CardAPI) SubmitComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p submitCommentParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, invalidParams("comment text is empty")
	}
	return a.dispatch(c, p.MountID, postcard.SubmitComment{Text: p.Text, ParentID: p.ParentID}, nil)
}

// Share handles postcard.share
func (a *CardAPI) Share(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p shareParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.Native.validate(); err != nil {
		return nil, err
	}
	return a.dispatch(c, p.MountID, postcard.Share{}, p.Native)
}

// Unmount handles postcard.unmount
func (a *CardAPI) Unmount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p cardParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.MountID == "" {
		return nil, invalidParams("missing required parameter: mountId")
	}
	return gin.H{"unmounted": a.registry.Remove(p.MountID)}, nil
}

// Sellers handles postcard.sellers
func (a *CardAPI) Sellers(c *gin.Context, _ json.RawMessage) (interface{}, error) {
	return a.sellers.ListSellers(c.Request.Context())
}

// Comments handles postcard.comments. It returns the store's current list,
// which may hold comments that mounted cards have not picked up.
func (a *CardAPI) Comments(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p mountParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.PostID <= 0 {
		return nil, invalidParams("missing required parameter: postId")
	}
	return a.store.ListComments(c.Request.Context(), p.PostID)
}

// FormatAge handles postcard.format_age
func (a *CardAPI) FormatAge(_ *gin.Context, params json.RawMessage) (interface{}, error) {
	var p formatAgeParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return gin.H{"age": postcard.TimeAgo(p.Timestamp, a.now())}, nil
}
