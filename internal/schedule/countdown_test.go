package schedule_test

import (
	"testing"
	"time"

	"liveclass-service/internal/model"
	"liveclass-service/internal/schedule"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00m"},
		{59 * time.Second, "00m"},
		{61 * time.Second, "01m"},
		{45 * time.Minute, "45m"},
		{time.Hour + time.Minute, "01h 01m"},
		{3 * time.Hour, "03h 00m"},
		{25 * time.Hour, "1d 01h 00m"},
		{49*time.Hour + 5*time.Minute, "2d 01h 05m"},
		{-time.Minute, "00m"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, schedule.FormatDuration(tc.in), "FormatDuration(%v)", tc.in)
	}
}

func TestBuildCountdown_Upcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := model.Session{ID: "101", StartTime: now.Add(90 * time.Minute).Unix(), Duration: 3600}

	c := schedule.BuildCountdown(now, s)
	require.Equal(t, schedule.PhaseUpcoming, c.Phase)
	require.Equal(t, "starts in", c.Label)
	require.Equal(t, "01h 30m", c.Text)
}

func TestBuildCountdown_Live(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := model.Session{ID: "101", StartTime: now.Add(-10 * time.Minute).Unix(), Duration: 3600}

	c := schedule.BuildCountdown(now, s)
	require.Equal(t, schedule.PhaseLive, c.Phase)
	require.Equal(t, "live", c.Label)
	require.Equal(t, "50m", c.Text)
}

func TestBuildCountdown_Past(t *testing.T) {
	now := time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	s := model.Session{ID: "103", StartTime: start.Unix(), EndTime: start.Add(90 * time.Minute).Unix()}

	c := schedule.BuildCountdown(now, s)
	require.Equal(t, schedule.PhasePast, c.Phase)
	require.Equal(t, "finished", c.Label)
	require.Equal(t, "10 Mar 2026", c.Text)
}

func TestBuildCountdown_SameInputSameOutput(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := model.Session{ID: "101", StartTime: now.Add(time.Hour).Unix(), Duration: 1800}

	first := schedule.BuildCountdown(now, s)
	second := schedule.BuildCountdown(now, s)
	require.Equal(t, first, second)
}
