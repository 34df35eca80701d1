package api

import (
	"context"
	"sync"

	"github.com/kodik/postcard/internal/postcard"
	"github.com/kodik/postcard/pkg/logging"
)

// Effects are the UI side effects a call produced. The client shows the
// notifications and, when set, the in-app share dialog.
type Effects struct {
	Notifications []postcard.Notification `json:"notifications"`
	ShareFallback *postcard.ShareData      `json:"shareFallback,omitempty"`
}

type outboxKey struct{}

// outbox collects the effects of one request
type outbox struct {
	mu      sync.Mutex
	effects Effects
}

func withOutbox(ctx context.Context) (context.Context, *outbox) {
	o := &outbox{}
	return context.WithValue(ctx, outboxKey{}, o), o
}

func outboxFrom(ctx context.Context) *outbox {
	o, _ := ctx.Value(outboxKey{}).(*outbox)
	return o
}

// Effects returns a copy of the collected effects
func (o *outbox) Effects() Effects {
	o.mu.Lock()
	defer o.mu.Unlock()

	effects := Effects{
		Notifications: make([]postcard.Notification, len(o.effects.Notifications)),
	}
	copy(effects.Notifications, o.effects.Notifications)
	if o.effects.ShareFallback != nil {
		data := *o.effects.ShareFallback
		effects.ShareFallback = &data
	}
	return effects
}

// outboxNotifier delivers notifications to the outbox of the current request.
// Cards outlive requests, so the notifier cannot hold an outbox itself.
type outboxNotifier struct{}

func (outboxNotifier) Notify(ctx context.Context, n postcard.Notification) {
	o := outboxFrom(ctx)
	if o == nil {
		logging.FromContext(ctx, "outbox").Warn("Dropping notification outside a request")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.effects.Notifications = append(o.effects.Notifications, n)
}

// outboxPresenter hands the share fallback payload to the client
type outboxPresenter struct{}

func (outboxPresenter) PresentShareFallback(ctx context.Context, data postcard.ShareData) {
	o := outboxFrom(ctx)
	if o == nil {
		logging.FromContext(ctx, "outbox").Warn("Dropping share fallback outside a request")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.effects.ShareFallback = &data
}
