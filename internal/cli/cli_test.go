package cli

import (
	"testing"
	"time"

	"github.com/suteru/suteru/internal/config"
)

func TestFilterOptionsMergesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Filter.Exclude.Size.Min = "1KB"
	cfg.Filter.Exclude.Size.Max = "5GB"
	cfg.Filter.Include.Period = 30

	t.Run("config bounds apply without flags", func(t *testing.T) {
		c := CLI{config: cfg}
		opts, err := c.filterOptions()
		if err != nil {
			t.Fatalf("filterOptions() error: %v", err)
		}
		if opts.SizeMin != "1KB" {
			t.Errorf("SizeMin = %q, want 1KB", opts.SizeMin)
		}
		if opts.SizeMax != "5GB" {
			t.Errorf("SizeMax = %q, want 5GB", opts.SizeMax)
		}
		if want := 30 * 24 * time.Hour; opts.NewerThan != want {
			t.Errorf("NewerThan = %v, want %v", opts.NewerThan, want)
		}
	})

	t.Run("flags override config bounds", func(t *testing.T) {
		c := CLI{config: cfg}
		c.option.Filter.SizeMin = "10MB"
		c.option.Filter.SizeMax = "1GB"
		c.option.Filter.Newer = "7d"

		opts, err := c.filterOptions()
		if err != nil {
			t.Fatalf("filterOptions() error: %v", err)
		}
		if opts.SizeMin != "10MB" {
			t.Errorf("SizeMin = %q, want 10MB", opts.SizeMin)
		}
		if opts.SizeMax != "1GB" {
			t.Errorf("SizeMax = %q, want 1GB", opts.SizeMax)
		}
		if want := 7 * 24 * time.Hour; opts.NewerThan != want {
			t.Errorf("NewerThan = %v, want %v", opts.NewerThan, want)
		}
	})

	t.Run("exclude rules always carried", func(t *testing.T) {
		c := CLI{config: cfg}
		opts, err := c.filterOptions()
		if err != nil {
			t.Fatalf("filterOptions() error: %v", err)
		}
		if len(opts.ExcludeFiles) == 0 || opts.ExcludeFiles[0] != ".DS_Store" {
			t.Errorf("ExcludeFiles = %v, want default excludes", opts.ExcludeFiles)
		}
	})
}
