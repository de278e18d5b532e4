package config

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() Config {
	return Config{
		Core: Core{
			HomeFallback: true,
			CrossDevice:  "copy",
			Put: Put{
				Verbose: false,
			},
			Restore: Restore{
				Verbose: true,
				Confirm: true,
			},
			Logging: Logging{
				Enabled: true,
				Level:   "debug",
			},
		},
		Filter: Filter{
			Include: IncludeConfig{
				Period: 365,
			},
			Exclude: ExcludeConfig{
				// .DS_Store stores macOS folder view metadata and is
				// recreated at will; surfacing it in listings is noise.
				Files:    []string{".DS_Store"},
				Patterns: []string{},
				Globs:    []string{},
				Size: SizeConfig{
					Min: "0KB",
					Max: "10GB",
				},
			},
		},
	}
}
