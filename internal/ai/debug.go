package ai

import "sync/atomic"

// debugLoggingEnabled gates per-decision debug logs so the hot path skips
// building log attributes when nobody reads them.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging switches decision logging on or off.
// cmd/shire calls it once after parsing config.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether decision logging is on.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
