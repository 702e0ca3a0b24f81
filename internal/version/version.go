// Package version holds build metadata injected via ldflags.
package version

import "go.uber.org/zap"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Fields returns the build metadata as log fields for startup lines.
func Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", Version),
		zap.String("commit", Commit),
		zap.String("build_date", Date),
	}
}
