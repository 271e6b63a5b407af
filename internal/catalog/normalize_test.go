package catalog_test

import (
	"encoding/json"
	"testing"
	"time"

	"liveclass-service/internal/catalog"
	"liveclass-service/internal/model"

	"github.com/stretchr/testify/require"
)

func TestNormalize_CanonicalRecord(t *testing.T) {
	raw := map[string]any{
		"id":         "101",
		"name":       "Class 01",
		"summary":    "Intro",
		"starttime":  int64(1767200400),
		"endtime":    int64(1767205800),
		"location":   "Virtual room 1",
		"instructor": map[string]any{"name": "Ana Souza", "avatar": "/a.png"},
		"tags":       []string{"Foundations"},
		"imageurl":   "/banner.png",
		"launchurl":  "https://meet.example/101",
		"isenrolled": true,
	}

	s := catalog.Normalize(raw)
	require.Equal(t, "101", s.ID)
	require.Equal(t, "Class 01", s.Name)
	require.Equal(t, int64(1767200400), s.StartTime)
	require.Equal(t, int64(1767205800), s.EndTime)
	require.Equal(t, int64(5400), s.Duration)
	require.Equal(t, "Ana Souza", s.Instructor.Name)
	require.Equal(t, "/a.png", s.Instructor.Avatar)
	require.Equal(t, []string{"Foundations"}, s.Tags)
	require.True(t, s.IsEnrolled)
}

func TestNormalize_AliasKeys(t *testing.T) {
	raw := map[string]any{
		"id":          104,
		"title":       "Recursion workshop",
		"description": "Divide and conquer",
		"start_time":  "2026-04-01T19:00:00Z",
		"end_time":    "2026-04-01T20:30:00Z",
		"room":        "Lab 2",
		"joinurl":     "https://meet.example/104",
		"banner":      "/banner-104.png",
		"enrolled":    1,
	}

	s := catalog.Normalize(raw)
	require.Equal(t, "104", s.ID)
	require.Equal(t, "Recursion workshop", s.Name)
	require.Equal(t, "Divide and conquer", s.Summary)

	wantStart := time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC).Unix()
	require.Equal(t, wantStart, s.StartTime)
	require.Equal(t, wantStart+5400, s.EndTime)
	require.Equal(t, "Lab 2", s.Location)
	require.Equal(t, "https://meet.example/104", s.LaunchURL)
	require.Equal(t, "/banner-104.png", s.ImageURL)
	require.True(t, s.IsEnrolled)
}

func TestNormalize_Defaults(t *testing.T) {
	s := catalog.Normalize(map[string]any{"id": "105"})
	require.Equal(t, "105", s.ID)
	require.Equal(t, int64(0), s.StartTime)
	require.Equal(t, catalog.PlaceholderImage, s.ImageURL)
	require.NotNil(t, s.Tags)
	require.Empty(t, s.Tags)
	require.False(t, s.IsEnrolled)
}

func TestNormalize_RegistrationTimeImpliesEnrolled(t *testing.T) {
	s := catalog.Normalize(map[string]any{
		"id":               "106",
		"registrationtime": int64(1767200400),
	})
	require.True(t, s.IsEnrolled)
	require.Equal(t, int64(1767200400), s.RegistrationTime)
}

func TestNormalize_TrackPromotedToTag(t *testing.T) {
	s := catalog.Normalize(map[string]any{"id": "107", "track": "Practice"})
	require.Equal(t, []string{"Practice"}, s.Tags)
}

func TestNormalize_InstructorString(t *testing.T) {
	s := catalog.Normalize(map[string]any{"id": "108", "instructor": "Carlos Lima"})
	require.Equal(t, "Carlos Lima", s.Instructor.Name)
	require.Empty(t, s.Instructor.Avatar)
}

func TestNormalize_NumericStringTimestamps(t *testing.T) {
	s := catalog.Normalize(map[string]any{"id": "109", "starttime": "1767200400"})
	require.Equal(t, int64(1767200400), s.StartTime)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]any{
		"id":         "110",
		"name":       "Class 10",
		"starttime":  int64(1767200400),
		"endtime":    int64(1767204000),
		"instructor": map[string]any{"name": "Helena Prado"},
		"tags":       []string{"Practice"},
		"isenrolled": true,
	}

	first := catalog.Normalize(raw)

	// round-trip through JSON the way an already-normalized record would
	// arrive from a remote provider
	b, err := json.Marshal(first)
	require.NoError(t, err)
	var roundTripped map[string]any
	require.NoError(t, json.Unmarshal(b, &roundTripped))

	second := catalog.Normalize(roundTripped)
	require.Equal(t, first, second)
}

func TestSortSessions_StableAscending(t *testing.T) {
	sessions := []model.Session{
		{ID: "c", StartTime: 300},
		{ID: "a1", StartTime: 100},
		{ID: "a2", StartTime: 100},
		{ID: "b", StartTime: 200},
	}

	catalog.SortSessions(sessions)

	require.Equal(t, "a1", sessions[0].ID)
	require.Equal(t, "a2", sessions[1].ID)
	require.Equal(t, "b", sessions[2].ID)
	require.Equal(t, "c", sessions[3].ID)
}
