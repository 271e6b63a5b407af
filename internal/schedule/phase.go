package schedule

import "time"

// Phase is the lifecycle state of a session at a given instant.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseLive     Phase = "live"
	PhasePast     Phase = "past"
)

// defaultSessionSeconds is assumed when a session carries neither an end time
// nor a duration.
const defaultSessionSeconds = 3600

// EffectiveEnd returns the end timestamp used for phase resolution. When the
// source did not supply an end time it is synthesized from the duration, or
// from a one hour default as a last resort.
func EffectiveEnd(start, end, duration int64) int64 {
	if end != 0 {
		return end
	}
	if duration > 0 {
		return start + duration
	}
	return start + defaultSessionSeconds
}

// ResolvePhase classifies a session at the given instant. It is total: every
// input maps to exactly one phase. A missing start time counts as upcoming.
func ResolvePhase(now time.Time, start, end, duration int64) Phase {
	ts := now.Unix()
	if start == 0 || ts < start {
		return PhaseUpcoming
	}
	if ts <= EffectiveEnd(start, end, duration) {
		return PhaseLive
	}
	return PhasePast
}
