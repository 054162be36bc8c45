package notify

import "errors"

// Sentinel errors for WebSocket notification handling.
var (
	// ErrMissingTicket is returned when the upgrade request carries no ticket.
	ErrMissingTicket = errors.New("notify: ticket query parameter is required")

	// ErrInvalidTicket is returned when a ticket fails verification.
	ErrInvalidTicket = errors.New("notify: invalid or expired ticket")
)
