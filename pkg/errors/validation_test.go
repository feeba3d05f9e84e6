package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid qubit", "q0", false},
		{"valid coupler", "c12", false},
		{"valid with punctuation", "Q_3.a-b", false},

		{"empty", "", true},
		{"too long", strings.Repeat("q", MaxNodeIDLength+1), true},
		{"space", "q 0", true},
		{"tab", "q\t0", true},
		{"null byte", "q\x000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPattern) {
				t.Errorf("ValidateNodeID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateDegrees(t *testing.T) {
	tests := []struct {
		name           string
		qubit, coupler int
		wantErr        bool
	}{
		{"minimal", 1, 2, false},
		{"typical", 4, 2, false},
		{"coupler holds one", 4, 1, true},
		{"qubit holds none", 0, 3, true},
		{"negative", -1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDegrees(tt.qubit, tt.coupler)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDegrees(%d, %d) error = %v, wantErr %v", tt.qubit, tt.coupler, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateDegrees returned wrong error code: %v", err)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("SVG", "svg", "dot", "json"); err != nil {
		t.Errorf("ValidateFormat(SVG) = %v, want nil", err)
	}
	err := ValidateFormat("png", "svg", "dot")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(png) = %v, want %s", err, ErrCodeInvalidFormat)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "src/main.go", false},
		{"valid nested", "pkg/internal/util/helpers.go", false},
		{"valid filename only", "README.md", false},
		{"valid with dots", "v1.2.3/package.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeInvalidTopology,
		ErrCodeInvalidPattern,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeInfeasible,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
