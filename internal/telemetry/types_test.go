package telemetry

import (
	"errors"
	"testing"
)

func TestParsePumpStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PumpStatus
		wantErr bool
	}{
		{name: "on", input: "ON", want: PumpOn},
		{name: "off", input: "OFF", want: PumpOff},
		{name: "unknown", input: "UNKNOWN", want: PumpUnknown},
		{name: "lowercase on", input: "on", want: PumpOn},
		{name: "mixed case off", input: "Off", want: PumpOff},
		{name: "lowercase unknown", input: "unknown", want: PumpUnknown},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "garbage rejected", input: "RUNNING", wantErr: true},
		{name: "whitespace not trimmed", input: " ON", wantErr: true},
		{name: "partial match rejected", input: "ONN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePumpStatus(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPumpStatus) {
					t.Errorf("ParsePumpStatus(%q) error = %v, want ErrInvalidPumpStatus", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePumpStatus(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePumpStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
