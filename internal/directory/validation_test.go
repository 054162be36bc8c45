package directory

import (
	"errors"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{
			name:    "canonical uuid",
			key:     "7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a6b",
			wantErr: false,
		},
		{
			name:    "uppercase hex accepted",
			key:     "7F3DE8A1-0B52-4D6E-9F00-1C2D3E4F5A6B",
			wantErr: false,
		},
		{
			name:    "empty",
			key:     "",
			wantErr: true,
		},
		{
			name:    "too short",
			key:     "7f3de8a1-0b52-4d6e-9f00",
			wantErr: true,
		},
		{
			name:    "braced form rejected",
			key:     "{7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5a}",
			wantErr: true,
		},
		{
			name:    "right length wrong characters",
			key:     "7f3de8a1-0b52-4d6e-9f00-1c2d3e4f5zzz",
			wantErr: true,
		},
		{
			name:    "hyphens in wrong positions",
			key:     "7f3de8a10-b52-4d6e-9f00-1c2d3e4f5a6b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{name: "valid pair", min: 10.0, max: 90.0, wantErr: false},
		{name: "boundary values", min: 0.0, max: 999.99, wantErr: false},
		{name: "min equals max", min: 50.0, max: 50.0, wantErr: true},
		{name: "min above max", min: 90.0, max: 10.0, wantErr: true},
		{name: "negative min", min: -1.0, max: 50.0, wantErr: true},
		{name: "max above ceiling", min: 10.0, max: 1000.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThresholds(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThresholds(%v, %v) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}
