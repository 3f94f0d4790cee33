package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories and
	// merges it into a single Site.
	Load(ctx context.Context, paths ...string) (*Site, error)
}
