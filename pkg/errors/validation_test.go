package errors

import (
	"strings"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "split-chunks-report.html", false},
		{"nested relative", "reports/chunks.svg", false},
		{"absolute", "/tmp/report.html", false},
		{"parent dir", "../report.html", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 2000), true},
		{"null byte", "report\x00.html", true},
		{"newline", "report\n.html", true},
		{"directory", "reports/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateOutputPath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"stats file", "dist/stats.json", false},
		{"glob", "packages/**/stats.json", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "stats\x00.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
