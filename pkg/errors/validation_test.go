package errors

import (
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid design name", "03-des-diagram", false},
		{"valid with underscore", "simple_web_api", false},
		{"valid with dot", "diagram.v2", false},
		{"valid with spaces", "my diagram", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "out/diagram", true},
		{"absolute", "/tmp/diagram", true},
		{"backslash", "out\\diagram", true},
		{"traversal", "..", true},
		{"embedded traversal", "a..b", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFilename) {
				t.Errorf("ValidateFilename(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFilename)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "Cosmos DB", false},
		{"multiline", "Application\nInsights", false},
		{"unicode", "Région: swedencentral", false},

		{"tab", "a\tb", true},
		{"carriage return", "a\rb", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
