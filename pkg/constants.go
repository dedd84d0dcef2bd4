package dupfind

import "strings"

// Fingerprint read schedule
const (
	ChunkSize         = 4096 // Bytes read (and hashed) per step
	InitialSeekStride = 1    // Bytes skipped after the first chunk; halved after every chunk
)

// Output format constants
const (
	FormatHuman  = "human"
	FormatJSON   = "json"
	FormatFdupes = "fdupes"
)

// Colour mode constants
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Debug flag names understood by IsDebugEnabled
const (
	DebugWalk  = "walk"
	DebugHash  = "hash"
	DebugGroup = "group"
)

// Worker limits
const (
	MinHashWorkers = 1
	MaxHashWorkers = 256
)

// SupportedFormats returns the output format names in display order
func SupportedFormats() []string {
	return []string{FormatHuman, FormatJSON, FormatFdupes}
}

// FormatFromName returns the canonical format name (case-insensitive)
func FormatFromName(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatHuman:
		return FormatHuman, true
	case FormatJSON:
		return FormatJSON, true
	case FormatFdupes:
		return FormatFdupes, true
	default:
		return "", false
	}
}

// ColorModeFromName returns the canonical colour mode (case-insensitive)
func ColorModeFromName(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ColorAuto, "":
		return ColorAuto, true
	case ColorAlways:
		return ColorAlways, true
	case ColorNever:
		return ColorNever, true
	default:
		return "", false
	}
}
