package auth

import (
	"context"
	"log/slog"
)

// CodeSender delivers a one-time code to a phone.
type CodeSender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of texting them. Meant for local
// development; never enable it where logs are shared.
type LogSender struct{}

// Send implements CodeSender.
func (LogSender) Send(_ context.Context, phone, code string) error {
	slog.Info("Sign-in code issued", "phone", phone, "code", code)
	return nil
}
