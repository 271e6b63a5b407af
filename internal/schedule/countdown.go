package schedule

import (
	"fmt"
	"strings"
	"time"

	"liveclass-service/internal/model"
)

// Countdown is the display state of a session's timer at a given instant.
type Countdown struct {
	Phase Phase  `json:"phase"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

const (
	labelStartsIn = "starts in"
	labelLive     = "live"
	labelFinished = "finished"
)

// FormatDuration renders a duration as "Nd NNh NNm". Days appear only when
// non-zero, hours whenever days or hours are non-zero, minutes always.
// Negative durations clamp to zero.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}

	days := total / 86400
	total -= days * 86400
	hours := total / 3600
	total -= hours * 3600
	minutes := total / 60

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%02dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%02dm", minutes))

	return strings.Join(parts, " ")
}

// BuildCountdown derives the countdown view for a session. It is a pure
// function of the instant and the session's timing fields, so re-evaluating it
// on every tick with the same inputs yields the same output.
func BuildCountdown(now time.Time, s model.Session) Countdown {
	phase := ResolvePhase(now, s.StartTime, s.EndTime, s.Duration)

	switch phase {
	case PhaseUpcoming:
		remaining := time.Duration(s.StartTime-now.Unix()) * time.Second
		if s.StartTime == 0 {
			remaining = 0
		}
		return Countdown{Phase: phase, Label: labelStartsIn, Text: FormatDuration(remaining)}
	case PhaseLive:
		end := EffectiveEnd(s.StartTime, s.EndTime, s.Duration)
		remaining := time.Duration(end-now.Unix()) * time.Second
		return Countdown{Phase: phase, Label: labelLive, Text: FormatDuration(remaining)}
	default:
		return Countdown{Phase: phase, Label: labelFinished, Text: formatDate(s.StartTime)}
	}
}

func formatDate(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("02 Jan 2006")
}
