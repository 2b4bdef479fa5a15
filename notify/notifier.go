// Package notify delivers outbound user notifications. Delivery is best effort:
// callers log failures and carry on.
package notify

import (
	"context"
	"fmt"

	"github.com/dcode-github/property_listing_api/models"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

func Welcome(u *models.User) Message {
	return Message{
		To:      u.Email,
		Subject: "Welcome to Property Listing",
		Text: fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now log in with %s.\n",
			u.FirstName, u.Email),
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your account has been created. You can now log in with <b>%s</b>.</p>",
			u.FirstName, u.Email),
	}
}

// LogNotifier writes messages to the log. Used when no SMTP host is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info("notification", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
