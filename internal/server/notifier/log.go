package notifier

import (
	"context"

	"github.com/fashionguide/chat-backend/internal/logging"
)

// LogNotifier is used when SMTP is not configured. It records that delivery
// was skipped without logging the code itself.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notifier")}
}

func (n *LogNotifier) Send(ctx context.Context, email, code string) error {
	n.logger.Warn(ctx, "email delivery not configured, verification code not sent", "email", email)
	return nil
}
