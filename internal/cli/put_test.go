package cli

import "testing"

func TestIsUnsafePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{".", true},
		{"..", true},
		{"./", true},
		{"./.", true},
		{"./..", true},
		{"../..", true},
		{"./../../foo/../..", true},
		{"/", true},
		{"//", true},
		{"//foo", true},
		{"/foo", false},
		{"foo", false},
		{"foo/bar", false},
		{"./foo", false},
		{"../foo", false},
		{"..foo", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := isUnsafePath(tt.path)
			if err != nil {
				t.Fatalf("isUnsafePath(%q) error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("isUnsafePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
