package services

import (
	"context"
	"log/slog"

	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/middleware"
)

// enricher runs best-effort enrichment steps after a primary transaction has
// committed. Each step is fault-isolated: a failure is logged to the request
// logger and swallowed, never propagated to the caller. Primary mutations must
// never run through this.
type enricher struct{}

func newEnricher() *enricher {
	return &enricher{}
}

// Run executes one enrichment step and reports whether it succeeded.
func (e *enricher) Run(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := fn(ctx); err != nil {
		logger.Error("Enrichment step failed",
			slog.String("enrichment", name),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// slogNotifier is the default Notifier: it records the notification on the
// request logger. Real delivery (SMS, email) lives outside this core.
type slogNotifier struct{}

// NewSlogNotifier creates a Notifier that logs instead of delivering.
func NewSlogNotifier() portssvc.Notifier {
	return &slogNotifier{}
}

func (n *slogNotifier) Notify(ctx context.Context, stakeholderID string, subject string, message string) {
	middleware.GetLoggerFromCtx(ctx).Info("Stakeholder notification",
		slog.String("stakeholder_id", stakeholderID),
		slog.String("subject", subject),
		slog.String("message", message),
	)
}
