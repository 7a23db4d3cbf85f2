package activity

import (
	"testing"
	"time"

	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(id, project string, start time.Time, messages int) models.ActivitySession {
	return models.ActivitySession{
		Session: models.Session{
			ID:           id,
			ProjectID:    project,
			StartTime:    &start,
			MessageCount: messages,
		},
		ProjectName: project,
	}
}

func TestTimeline_Buckets(t *testing.T) {
	sessions := []models.ActivitySession{
		session("a", "p", testutil.Day(2024, 1, 1, 9), 3),
		session("b", "p", testutil.Day(2024, 1, 1, 15), 2),
		session("c", "p", testutil.Day(2024, 1, 2, 10), 5),
		{Session: models.Session{ID: "no-start", MessageCount: 99}},
	}

	report := New(nil).Timeline(sessions)
	require.Len(t, report.Days, 2)

	assert.Equal(t, "2024-01-02", report.Days[0].Date)
	assert.Equal(t, 1, report.Days[0].SessionCount)
	assert.Equal(t, 5, report.Days[0].MessageCount)

	assert.Equal(t, "2024-01-01", report.Days[1].Date)
	assert.Equal(t, 2, report.Days[1].SessionCount)
	assert.Equal(t, 5, report.Days[1].MessageCount)
	assert.Equal(t, "b", report.Days[1].Sessions[0].ID)

	assert.Equal(t, 3, report.Summary.TotalSessions)
	assert.Equal(t, 10, report.Summary.TotalMessages)
	assert.Equal(t, 5, report.Summary.MaxDailyMessages)
}

func TestTimeline_Empty(t *testing.T) {
	report := New(nil).Timeline(nil)
	assert.NotNil(t, report.Days)
	assert.Empty(t, report.Days)
	assert.Zero(t, report.Summary.MaxDailyMessages)
}

func TestTimeline_Location(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on Jan 2 is still Jan 1 in New York
	s := session("a", "p", testutil.Day(2024, 1, 2, 2), 1)
	assert.Equal(t, "2024-01-02", New(nil).Timeline([]models.ActivitySession{s}).Days[0].Date)
	assert.Equal(t, "2024-01-01", New(ny).Timeline([]models.ActivitySession{s}).Days[0].Date)
}

func TestFilter(t *testing.T) {
	since := testutil.Day(2024, 1, 2, 0)
	until := testutil.Day(2024, 1, 3, 0)
	f := Filter{Since: &since, Until: &until, Type: models.SessionTypeRegular}

	at := func(id string, tm time.Time) models.Session { return models.Session{ID: id, StartTime: &tm} }

	assert.True(t, f.Match(at("s", testutil.Day(2024, 1, 2, 12))))
	assert.True(t, f.Match(at("s", since)))
	assert.False(t, f.Match(at("s", testutil.Day(2024, 1, 1, 23))))
	assert.False(t, f.Match(at("s", testutil.Day(2024, 1, 3, 1))))
	assert.False(t, f.Match(at("agent-x", testutil.Day(2024, 1, 2, 12))))
	assert.False(t, f.Match(models.Session{ID: "s"}))
}

func TestDateRange(t *testing.T) {
	a := New(nil)

	r, err := a.DateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, testutil.Day(2024, 1, 1, 0), *r.Start)
	assert.Equal(t, testutil.Day(2024, 2, 1, 0).Add(-time.Nanosecond), *r.End)

	r, err = a.DateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)

	_, err = a.DateRange("01/02/2024", "")
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))

	_, err = a.DateRange("2024-02-01", "2024-01-01")
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))
}

func TestParseDays(t *testing.T) {
	d, err := ParseDays(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDays, d)

	d, err = ParseDays(90)
	require.NoError(t, err)
	assert.Equal(t, 90, d)

	_, err = ParseDays(91)
	assert.Error(t, err)
	_, err = ParseDays(-1)
	assert.Error(t, err)
}

func TestCutoff(t *testing.T) {
	now := testutil.Day(2024, 3, 15, 12)
	assert.Equal(t, testutil.Day(2024, 3, 1, 12), New(nil).Cutoff(now, 14))
}

func TestSummarize(t *testing.T) {
	sessions := []models.ActivitySession{
		session("a", "alpha", testutil.Day(2024, 1, 1, 9), 3),
		session("b", "beta", testutil.Day(2024, 1, 1, 15), 20),
		session("c", "alpha", testutil.Day(2024, 1, 2, 10), 5),
	}

	summary := New(nil).Summarize(sessions)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Equal(t, 28, summary.TotalMessages)

	require.Len(t, summary.ProjectBreakdown, 2)
	assert.Equal(t, "beta", summary.ProjectBreakdown[0].ProjectID)
	assert.Equal(t, 20, summary.ProjectBreakdown[0].MessageCount)
	assert.Equal(t, "alpha", summary.ProjectBreakdown[1].ProjectID)
	assert.Equal(t, 2, summary.ProjectBreakdown[1].SessionCount)

	require.Len(t, summary.DailyBreakdown, 2)
	assert.Equal(t, "2024-01-02", summary.DailyBreakdown[0].Date)
	assert.Equal(t, 23, summary.DailyBreakdown[1].MessageCount)
}
