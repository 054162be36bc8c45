package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// mintTicket signs a test ticket with the given secret and claims.
func mintTicket(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test ticket: %v", err)
	}
	return signed
}

func TestTicketVerifier_Valid(t *testing.T) {
	v := NewTicketVerifier(testSecret)

	ticket := mintTicket(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	subject, err := v.Verify(ticket)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if subject != "user-42" {
		t.Errorf("Verify() subject = %q, want user-42", subject)
	}
}

func TestTicketVerifier_Rejections(t *testing.T) {
	v := NewTicketVerifier(testSecret)

	tests := []struct {
		name   string
		ticket string
	}{
		{
			name: "wrong secret",
			ticket: mintTicket(t, "another-secret-entirely-32-chars", jwt.MapClaims{
				"sub": "user-42",
				"exp": time.Now().Add(time.Minute).Unix(),
			}),
		},
		{
			name: "expired",
			ticket: mintTicket(t, testSecret, jwt.MapClaims{
				"sub": "user-42",
				"exp": time.Now().Add(-time.Minute).Unix(),
			}),
		},
		{
			name: "missing subject",
			ticket: mintTicket(t, testSecret, jwt.MapClaims{
				"exp": time.Now().Add(time.Minute).Unix(),
			}),
		},
		{
			name:   "not a jwt",
			ticket: "definitely.not.valid",
		},
		{
			name:   "empty",
			ticket: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.ticket)
			if !errors.Is(err, ErrInvalidTicket) {
				t.Errorf("Verify() error = %v, want ErrInvalidTicket", err)
			}
		})
	}
}

func TestTicketVerifier_RejectsUnsignedAlgorithm(t *testing.T) {
	v := NewTicketVerifier(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned ticket: %v", err)
	}

	if _, err := v.Verify(unsigned); !errors.Is(err, ErrInvalidTicket) {
		t.Errorf("Verify() error = %v, want ErrInvalidTicket for alg=none", err)
	}
}
