package postcard

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/kodik/postcard/internal/models"
	"github.com/kodik/postcard/pkg/logging"
	"github.com/kodik/postcard/pkg/telemetry"
)

// feedFragment is appended to the share URL; shares point at the feed, not the post
const feedFragment = "/feed"

// ErrShareCancelled is returned by a NativeSharer when the user dismissed the share sheet
var ErrShareCancelled = errors.New("share cancelled by user")

// ShareData is the payload handed to either share surface
type ShareData struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// NativeSharer is the host platform's share sheet
type NativeSharer interface {
	Available(ctx context.Context) bool
	Share(ctx context.Context, data ShareData) error
}

// SharePresenter shows the in-app share dialog
type SharePresenter interface {
	PresentShareFallback(ctx context.Context, data ShareData)
}

// ShareOutcome is the terminal state of a share attempt
type ShareOutcome string

const (
	ShareSkipped   ShareOutcome = "skipped"
	ShareNative    ShareOutcome = "native"
	ShareCancelled ShareOutcome = "cancelled"
	ShareFallback  ShareOutcome = "fallback"
)

// ShareCoordinator shares posts through the native sheet when there is one and
// the in-app dialog otherwise.
type ShareCoordinator struct {
	native   NativeSharer
	fallback SharePresenter
	appName  string
	feedURL  string
}

// NewShareCoordinator creates a coordinator. native may be nil.
func NewShareCoordinator(native NativeSharer, fallback SharePresenter, appName, baseURL string) *ShareCoordinator {
	return &ShareCoordinator{
		native:   native,
		fallback: fallback,
		appName:  appName,
		feedURL:  FeedURL(baseURL),
	}
}

// FeedURL replaces the query and fragment of baseURL with the feed fragment
func FeedURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "#" + feedFragment
	}
	u.RawQuery = ""
	u.Fragment = feedFragment
	u.RawFragment = ""
	return u.String()
}

// Payload builds the share payload for a post by seller
func (s *ShareCoordinator) Payload(seller *models.Seller) ShareData {
	return ShareData{
		Title: fmt.Sprintf("Postingan dari %s di %s", seller.Name, s.appName),
		Text:  fmt.Sprintf("Cek postingan menarik dari %s di %s Feed!", seller.Name, s.appName),
		URL:   s.feedURL,
	}
}

// Share runs one share attempt. Cancellation of the native sheet ends the
// attempt quietly; any other native failure is logged and falls back to the
// in-app dialog.
func (s *ShareCoordinator) Share(ctx context.Context, seller *models.Seller) ShareOutcome {
	if seller == nil {
		return ShareSkipped
	}

	data := s.Payload(seller)

	if s.native != nil && s.native.Available(ctx) {
		err := s.native.Share(ctx, data)
		switch {
		case err == nil:
			return ShareNative
		case errors.Is(err, ErrShareCancelled):
			return ShareCancelled
		default:
			logging.FromContext(ctx, "share").Warn("Native share failed, using fallback", zap.Error(err))
		}
	}

	telemetry.Count(ctx, "postcard.share_fallbacks")
	s.fallback.PresentShareFallback(ctx, data)

	return ShareFallback
}
