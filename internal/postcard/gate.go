package postcard

import (
	"context"

	"go.uber.org/zap"

	"github.com/kodik/postcard/internal/auth"
	"github.com/kodik/postcard/pkg/logging"
	"github.com/kodik/postcard/pkg/telemetry"
)

// Login prompt copy
const (
	LoginPromptTitle  = "Login Diperlukan"
	LoginPromptBody   = "Anda harus masuk untuk menyukai atau mengomentari postingan."
	LoginPromptAction = "Masuk Sekarang"
)

// LoginPrompt builds the notification shown when an action needs a login
func LoginPrompt(loginPath string) Notification {
	return Notification{
		Title:    LoginPromptTitle,
		Body:     LoginPromptBody,
		Severity: SeverityError,
		Action: &NotificationAction{
			Label: LoginPromptAction,
			Path:  loginPath,
		},
	}
}

// Gate runs actions only for authenticated callers and prompts everyone else
// to log in.
type Gate struct {
	auth      AuthContext
	notifier  Notifier
	loginPath string
}

// NewGate creates a gate
func NewGate(authCtx AuthContext, notifier Notifier, loginPath string) *Gate {
	return &Gate{
		auth:      authCtx,
		notifier:  notifier,
		loginPath: loginPath,
	}
}

// Guard invokes action when the caller is authenticated. Otherwise it sends
// exactly one login prompt and leaves all state untouched. It reports whether
// action ran.
func (g *Gate) Guard(ctx context.Context, action func()) bool {
	if !g.auth.IsAuthenticated(ctx) {
		g.PromptLogin(ctx)
		return false
	}

	action()
	return true
}

// RequireUser returns the caller's identity, prompting a login when there is none
func (g *Gate) RequireUser(ctx context.Context) (*auth.User, bool) {
	user := g.auth.CurrentUser(ctx)
	if user == nil {
		g.PromptLogin(ctx)
		return nil, false
	}
	return user, true
}

// PromptLogin dispatches the login prompt
func (g *Gate) PromptLogin(ctx context.Context) {
	logging.FromContext(ctx, "gate").Debug("Action needs login", zap.String("login_path", g.loginPath))
	telemetry.Count(ctx, "postcard.login_prompts")

	g.notifier.Notify(ctx, LoginPrompt(g.loginPath))
}
