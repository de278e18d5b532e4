package store

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/suteru/suteru/internal/trash/core"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantErr  error
	}{
		{
			name:     "valid record",
			input:    "[Trash Info]\nPath=/data/report.txt\nDeletionDate=2024-03-01T10:30:00\n",
			wantPath: "/data/report.txt",
		},
		{
			name:     "percent-encoded spaces",
			input:    "[Trash Info]\nPath=/data/annual%20report.txt\nDeletionDate=2024-03-01T10:30:00\n",
			wantPath: "/data/annual report.txt",
		},
		{
			name:     "relative path",
			input:    "[Trash Info]\nPath=docs/notes.md\nDeletionDate=2024-03-01T10:30:00\n",
			wantPath: "docs/notes.md",
		},
		{
			name:    "empty record is pending",
			input:   "",
			wantErr: io.EOF,
		},
		{
			name:    "missing header",
			input:   "Path=/data/report.txt\nDeletionDate=2024-03-01T10:30:00\n",
			wantErr: core.ErrCorruptRecord,
		},
		{
			name:    "missing path",
			input:   "[Trash Info]\nDeletionDate=2024-03-01T10:30:00\n",
			wantErr: core.ErrCorruptRecord,
		},
		{
			name:    "missing deletion date",
			input:   "[Trash Info]\nPath=/data/report.txt\n",
			wantErr: core.ErrCorruptRecord,
		},
		{
			name:    "bad date format",
			input:   "[Trash Info]\nPath=/data/report.txt\nDeletionDate=yesterday\n",
			wantErr: core.ErrCorruptRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRecord() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecord() unexpected error: %v", err)
			}
			if rec.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", rec.Path, tt.wantPath)
			}
			if rec.DeletedAt.IsZero() {
				t.Error("DeletedAt is zero")
			}
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	deletedAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	rec := &Record{
		Path:      "/data/annual report (final).txt",
		DeletedAt: deletedAt,
	}

	parsed, err := ParseRecord(strings.NewReader(rec.Encode()))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}
	if parsed.Path != rec.Path {
		t.Errorf("Path = %q, want %q", parsed.Path, rec.Path)
	}
	if !parsed.DeletedAt.Equal(deletedAt) {
		t.Errorf("DeletedAt = %v, want %v", parsed.DeletedAt, deletedAt)
	}
}

func TestEncodePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/data/report.txt", "/data/report.txt"},
		{"/data/annual report.txt", "/data/annual%20report.txt"},
		{"/data/a&b.txt", "/data/a%26b.txt"},
		{"docs/notes.md", "docs/notes.md"},
	}

	for _, tt := range tests {
		if got := encodePath(tt.in); got != tt.want {
			t.Errorf("encodePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		abs       string
		mountRoot string
		want      string
	}{
		{"/mnt/usb/docs/a.txt", "/mnt/usb", "docs/a.txt"},
		{"/home/user/a.txt", "", "/home/user/a.txt"},
		{"/elsewhere/a.txt", "/mnt/usb", "/elsewhere/a.txt"},
	}

	for _, tt := range tests {
		if got := relativePath(tt.abs, tt.mountRoot); got != tt.want {
			t.Errorf("relativePath(%q, %q) = %q, want %q", tt.abs, tt.mountRoot, got, tt.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		recorded  string
		mountRoot string
		want      string
	}{
		{"docs/a.txt", "/mnt/usb", "/mnt/usb/docs/a.txt"},
		{"/home/user/a.txt", "/mnt/usb", "/home/user/a.txt"},
		{"/home/user/a.txt", "", "/home/user/a.txt"},
	}

	for _, tt := range tests {
		if got := resolvePath(tt.recorded, tt.mountRoot); got != tt.want {
			t.Errorf("resolvePath(%q, %q) = %q, want %q", tt.recorded, tt.mountRoot, got, tt.want)
		}
	}
}
