package catalog

import (
	"time"

	"github.com/google/uuid"
)

// fallbackSessions builds the static demo catalogue served while no provider
// integration is configured. Records are raw maps on purpose: they follow the
// same normalization path as provider data.
func fallbackSessions(now time.Time) []map[string]any {
	twoDaysAgo := now.Add(-48 * time.Hour).Unix()

	return []map[string]any{
		{
			"id":         "101",
			"name":       "Class 01: Introduction to Algorithms",
			"summary":    "Meet the building blocks behind every algorithm and how to structure them.",
			"starttime":  nextWeekday(now, time.Tuesday, 19, 0).Unix(),
			"endtime":    nextWeekday(now, time.Tuesday, 20, 30).Unix(),
			"location":   "Virtual room 1",
			"instructor": map[string]any{"name": "Ana Souza"},
			"tags":       []string{"Foundations"},
			"imageurl":   PlaceholderImage,
			"isenrolled": false,
			"launchurl":  "",
		},
		{
			"id":         "102",
			"name":       "Class 02: Loops and Iteration",
			"summary":    "Build the techniques to master conditional loops and counters with hands-on examples.",
			"starttime":  nextWeekday(now, time.Thursday, 18, 30).Unix(),
			"endtime":    nextWeekday(now, time.Thursday, 20, 0).Unix(),
			"location":   "Virtual room 2",
			"instructor": map[string]any{"name": "Carlos Lima"},
			"tags":       []string{"Foundations"},
			"imageurl":   PlaceholderImage,
			"isenrolled": true,
			"launchurl":  "#",
		},
		{
			"id":         "103",
			"name":       "Class 03: Data Structures",
			"summary":    "Learn how lists, queues and stacks solve real problems and speed up algorithms.",
			"starttime":  twoDaysAgo,
			"endtime":    twoDaysAgo + 5400,
			"location":   "Virtual room 3",
			"instructor": map[string]any{"name": "Helena Prado"},
			"tags":       []string{"Practice"},
			"imageurl":   PlaceholderImage,
			"isenrolled": false,
			"launchurl":  "#",
		},
	}
}

// fallbackSessionsWithState overlays the in-memory enrolment registry onto
// the demo catalogue for the requesting user.
func (s *Service) fallbackSessionsWithState(userID uuid.UUID) []map[string]any {
	sessions := fallbackSessions(s.now())
	for _, session := range sessions {
		id, _ := session["id"].(string)
		if s.registry.Has(userID, id) {
			session["isenrolled"] = true
		}
	}
	return sessions
}

func (s *Service) findFallbackSession(sessionID string) map[string]any {
	for _, session := range fallbackSessions(s.now()) {
		if id, _ := session["id"].(string); id == sessionID {
			return session
		}
	}
	return nil
}

// nextWeekday returns the next occurrence of the given weekday at hh:mm,
// always strictly in the future relative to now.
func nextWeekday(now time.Time, day time.Weekday, hour, minute int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	days := (int(day) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}
