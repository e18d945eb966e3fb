package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "0b3c6f4e-6a0e-4b8e-9d57-3f0f6c1f1a2b", false},
		{"name with dot", "doses.v2", false},
		{"underscore", "crs_q1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"leading dash", "-x", true},
		{"slash", "a/b", true},
		{"space", "a b", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier("diagram id", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateChoice(t *testing.T) {
	if err := ValidateChoice(ErrCodeInvalidFormat, "format", "svg", "svg", "png"); err != nil {
		t.Errorf("valid choice: %v", err)
	}
	err := ValidateChoice(ErrCodeInvalidFormat, "format", "gif", "svg", "png")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("error = %v, want %v", err, ErrCodeInvalidFormat)
	}
	if want := `invalid format: "gif" (must be one of: svg, png)`; UserMessage(err) != want {
		t.Errorf("message = %q, want %q", UserMessage(err), want)
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"default", 800, 600, false},
		{"tiny", 0.5, 0.5, false},
		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"nan", math.NaN(), 600, true},
		{"inf", 800, math.Inf(1), true},
		{"huge", 1e6, 600, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "out.svg", false},
		{"nested", "diagrams/doses.svg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret", true},
		{"backslash", "a\\b", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
