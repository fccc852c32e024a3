package domain

import "fmt"

// SessionFilter restricts which trading sessions contribute bars.
type SessionFilter string

const (
	SessionRegular  SessionFilter = "REG" // regular trading hours only
	SessionExtended SessionFilter = "ALL" // include extended/after-hours
)

// ParseSessionFilter converts a string into a SessionFilter.
func ParseSessionFilter(s string) (SessionFilter, error) {
	switch SessionFilter(s) {
	case SessionRegular, SessionExtended:
		return SessionFilter(s), nil
	}
	return "", fmt.Errorf("unknown session filter %q", s)
}

// ViewMode selects between showing the full series and the causal,
// playhead-gated slice.
type ViewMode string

const (
	ModeViewer ViewMode = "viewer"
	ModeReplay ViewMode = "replay"
)

// ParseViewMode converts a string into a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ModeViewer, ModeReplay:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Speeds are the supported playback cadences, in seconds of wall clock
// per step.
var Speeds = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}

// DefaultSpeed is the cadence used when none is configured.
const DefaultSpeed = 1.0

// ValidSpeed reports whether s is one of the supported cadences.
func ValidSpeed(s float64) bool {
	for _, v := range Speeds {
		if v == s {
			return true
		}
	}
	return false
}
