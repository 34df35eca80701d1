package api

import (
	"context"
	"fmt"

	"github.com/kodik/postcard/internal/postcard"
)

// Native share outcomes reported by the client
const (
	NativeShared    = "shared"
	NativeCancelled = "cancelled"
	NativeFailed    = "failed"
)

// NativeShareReport is the client's account of its share sheet. Outcome is
// required when Available is set.
type NativeShareReport struct {
	Available bool   `json:"available"`
	Outcome   string `json:"outcome,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (r *NativeShareReport) validate() error {
	if r == nil || !r.Available {
		return nil
	}
	switch r.Outcome {
	case NativeShared, NativeCancelled, NativeFailed:
		return nil
	default:
		return invalidParams("native.outcome must be one of %s, %s, %s", NativeShared, NativeCancelled, NativeFailed)
	}
}

type shareReportKey struct{}

func withShareReport(ctx context.Context, report *NativeShareReport) context.Context {
	return context.WithValue(ctx, shareReportKey{}, report)
}

func shareReportFrom(ctx context.Context) *NativeShareReport {
	r, _ := ctx.Value(shareReportKey{}).(*NativeShareReport)
	return r
}

// clientSharer replays the share sheet result the client reported with the
// current request
type clientSharer struct{}

func (clientSharer) Available(ctx context.Context) bool {
	r := shareReportFrom(ctx)
	return r != nil && r.Available
}

func (clientSharer) Share(ctx context.Context, _ postcard.ShareData) error {
	r := shareReportFrom(ctx)
	if r == nil {
		return fmt.Errorf("no native share report")
	}

	switch r.Outcome {
	case NativeShared:
		return nil
	case NativeCancelled:
		return postcard.ErrShareCancelled
	default:
		if r.Message == "" {
			return fmt.Errorf("native share failed")
		}
		return fmt.Errorf("native share failed: %s", r.Message)
	}
}
