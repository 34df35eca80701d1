package postcard_test

import (
	"context"
	"errors"

	"github.com/kodik/postcard/internal/auth"
	"github.com/kodik/postcard/internal/models"
	"github.com/kodik/postcard/internal/postcard"
)

type fakeAuth struct {
	user          *auth.User
	authenticated bool
}

func signedIn(email string) *fakeAuth {
	return &fakeAuth{user: &auth.User{Email: email}, authenticated: true}
}

func anonymous() *fakeAuth {
	return &fakeAuth{}
}

func (a *fakeAuth) CurrentUser(context.Context) *auth.User { return a.user }
func (a *fakeAuth) IsAuthenticated(context.Context) bool   { return a.authenticated }

type recordingNotifier struct {
	notifications []postcard.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note postcard.Notification) {
	n.notifications = append(n.notifications, note)
}

type fakeNative struct {
	available bool
	err       error
	shared    []postcard.ShareData
}

func (f *fakeNative) Available(context.Context) bool { return f.available }

func (f *fakeNative) Share(_ context.Context, data postcard.ShareData) error {
	f.shared = append(f.shared, data)
	return f.err
}

type recordingPresenter struct {
	shown []postcard.ShareData
}

func (p *recordingPresenter) PresentShareFallback(_ context.Context, data postcard.ShareData) {
	p.shown = append(p.shown, data)
}

var errStoreDown = errors.New("store down")

// failingStore fails every append
type failingStore struct {
	postcard.Store
}

func (failingStore) AppendComment(context.Context, int64, models.Comment) (*models.Comment, error) {
	return nil, errStoreDown
}

func int64Ptr(v int64) *int64 {
	return &v
}
