package notify

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TicketVerifier checks WebSocket subscriber tickets.
//
// Tickets are short-lived HS256 JWTs minted by the CRUD layer; the gateway
// shares only the verification secret and trusts the subject claim as the
// subscriber's user ID.
type TicketVerifier struct {
	secret []byte
}

// NewTicketVerifier creates a verifier with the shared HS256 secret.
func NewTicketVerifier(secret string) *TicketVerifier {
	return &TicketVerifier{secret: []byte(secret)}
}

// Verify validates the ticket and returns its subject.
//
// Returns:
//   - string: The subject claim (user ID)
//   - error: ErrInvalidTicket (wrapped) on any verification failure
func (v *TicketVerifier) Verify(ticket string) (string, error) {
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTicket, err)
	}
	if !token.Valid {
		return "", ErrInvalidTicket
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidTicket)
	}

	return subject, nil
}
