package projects

import (
	"context"
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/paginate"
	"github.com/neilberkman/ccscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*testutil.Archive, *Discoverer) {
	a := testutil.NewArchive(t)
	a.WriteConfig(map[string]map[string]any{
		"/Users/sam/my-app":      {"lastSessionId": "s2", "lastCost": 0.5},
		"/Users/sam/config-only": {"lastSessionId": "gone"},
	})
	t1 := testutil.Day(2025, 1, 10, 9)
	t2 := testutil.Day(2025, 1, 12, 9)
	a.Transcript("-Users-sam-my-app", "s1", t1, testutil.User("s1", testutil.ISO(t1), "one"))
	a.Transcript("-Users-sam-my-app", "s2", t2,
		testutil.User("s2", testutil.ISO(t2), "two"),
		testutil.Assistant("s2", testutil.ISO(t2.Add(time.Minute)), "claude-opus-4"),
	)
	a.Transcript("-Users-sam-my-app", "agent-x", t1, testutil.User("s1", testutil.ISO(t1), "task"))

	orphan := testutil.User("o1", "2025-01-05T00:00:00Z", "hi")
	a.Transcript("-tmp-scratch", "o1", testutil.Day(2025, 1, 5, 0), orphan)

	return a, &Discoverer{
		Layout:  archive.NewLayout(a.Root, a.ConfigFile),
		Home:    "/Users/sam",
		Workers: 2,
	}
}

func TestDiscover(t *testing.T) {
	_, d := fixture(t)

	projects, err := d.Discover(context.Background())
	require.NoError(t, err)
	Sort(projects, SortLastActivity, paginate.Desc)
	require.Len(t, projects, 3)

	app := projects[0]
	assert.Equal(t, "-Users-sam-my-app", app.ID)
	assert.Equal(t, "/Users/sam/my-app", app.Path)
	assert.Equal(t, "~/my-app", app.DisplayPath)
	assert.Equal(t, "my-app", app.Name)
	assert.Equal(t, 3, app.SessionCount)
	assert.True(t, app.HasSessionData)
	assert.False(t, app.IsOrphan)
	assert.Equal(t, "s2", app.LastSessionID)
	require.NotNil(t, app.LastActivity)
	assert.True(t, app.LastActivity.Equal(testutil.Day(2025, 1, 12, 9)))

	orphan := projects[1]
	assert.Equal(t, "/tmp/scratch", orphan.Path)
	assert.True(t, orphan.IsOrphan)
	assert.Nil(t, orphan.LastCost)

	cfgOnly := projects[2]
	assert.Equal(t, "/Users/sam/config-only", cfgOnly.Path)
	assert.False(t, cfgOnly.HasSessionData)
	assert.Zero(t, cfgOnly.SessionCount)
	assert.Nil(t, cfgOnly.LastActivity)
}

func TestDiscover_Excludes(t *testing.T) {
	_, d := fixture(t)
	ex, err := NewExcluder([]string{"/tmp", "/Users/sam/config-*"})
	require.NoError(t, err)
	d.Excluder = ex

	projects, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "/Users/sam/my-app", projects[0].Path)
}

func TestDiscover_MissingArchive(t *testing.T) {
	d := &Discoverer{Layout: archive.NewLayout(t.TempDir()+"/nope", "")}
	projects, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDetail(t *testing.T) {
	_, d := fixture(t)

	detail, err := d.Detail(context.Background(), "-Users-sam-my-app")
	require.NoError(t, err)
	require.Len(t, detail.RecentSessions, 3)
	assert.Equal(t, "s2", detail.RecentSessions[0].ID)
	assert.Equal(t, 4, detail.ActivitySummary.TotalMessages)
	assert.Equal(t, 1, detail.ActivitySummary.TotalAgentSessions)
	require.NotNil(t, detail.ActivitySummary.DateRange.Start)
	assert.True(t, detail.ActivitySummary.DateRange.Start.Equal(testutil.Day(2025, 1, 10, 9)))

	_, err = d.Detail(context.Background(), "-nope")
	assert.True(t, ccerrors.IsNotFound(err))

	_, err = d.Detail(context.Background(), "../etc")
	assert.True(t, ccerrors.IsNotFound(err))
}

func TestConfig(t *testing.T) {
	_, d := fixture(t)

	path, raw, err := d.Config("-Users-sam-my-app")
	require.NoError(t, err)
	assert.Equal(t, "/Users/sam/my-app", path)
	assert.Equal(t, "s2", raw["lastSessionId"])

	_, _, err = d.Config("-tmp-scratch")
	assert.True(t, ccerrors.IsNotFound(err))
}

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		path     string
		prefixes []string
		want     bool
	}{
		{"/Users/sam/app", nil, true},
		{"/Users/sam/app", []string{"~/"}, true},
		{"/Users/sam/app", []string{"/Users/sam/ap"}, false},
		{"/Users/sam/app", []string{"/Users/sam/app/"}, true},
		{"/Users/sam/app/api", []string{"/Users/sam/app"}, true},
		{"/Users/sam/application", []string{"/Users/sam/app"}, false},
		{"/tmp/x", []string{"~", "/var"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesPrefix(tt.path, tt.prefixes, "/Users/sam"), "%s %v", tt.path, tt.prefixes)
	}
}

func TestSort_NameAndTies(t *testing.T) {
	_, d := fixture(t)
	projects, err := d.Discover(context.Background())
	require.NoError(t, err)

	Sort(projects, SortName, paginate.Asc)
	assert.Equal(t, "config-only", projects[0].Name)
	assert.Equal(t, "scratch", projects[2].Name)

	_, err = ParseSortField("size")
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))
}
