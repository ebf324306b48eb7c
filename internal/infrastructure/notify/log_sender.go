// Package notify holds the delivery backends for password reset messages.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender records reset deliveries in the service log instead of sending
// mail. It is the only backend the gateway ships with.
type LogSender struct {
	log     zerolog.Logger
	baseURL string
}

func NewLogSender(log zerolog.Logger, baseURL string) *LogSender {
	return &LogSender{log: log, baseURL: baseURL}
}

func (s *LogSender) SendReset(_ context.Context, email string) error {
	s.log.Info().
		Str("email", email).
		Str("reset_url", s.baseURL+"/reset-password").
		Msg("password reset link sent")
	return nil
}
