package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data.json", false},
		{"absolute", "/srv/family/data.json", false},
		{"nested", "testdata/tree.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "data\x00.json", true},
		{"newline", "data\n.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.com/data.json", false},
		{"http://localhost:8080/data.json", false},
		{"", true},
		{"ftp://example.com/data.json", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"people", false},
		{"family_tree", false},
		{"Tree2", false},
		{"_hidden", false},

		{"", true},
		{"2trees", true},
		{"people; DROP TABLE people", true},
		{"a-b", true},
		{"naïve", true},
	}

	for _, tt := range tests {
		err := ValidateIdentifier(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidSource) {
			t.Errorf("ValidateIdentifier(%q) code = %s, want %s", tt.input, GetCode(err), ErrCodeInvalidSource)
		}
	}
}
