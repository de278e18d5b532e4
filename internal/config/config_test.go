package config

import "testing"

func TestSizeValidation(t *testing.T) {
	tests := []struct {
		size  string
		valid bool
	}{
		{"", true},
		{"0KB", true},
		{"10MB", true},
		{"2gb", true}, // case-insensitive
		{"1TB", true},
		{"GARBAGE", false},
		{"12XY", false},
		{"-5MB", false},
		{"hello world", false},
		{"10 MB", false},
	}

	initParser()
	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Filter.Exclude.Size.Max = tt.size

			err := validate.Struct(cfg)
			if tt.valid && err != nil {
				t.Errorf("size %q rejected: %v", tt.size, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("size %q accepted", tt.size)
			}
		})
	}
}
