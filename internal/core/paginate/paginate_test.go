package paginate

import (
	"math"
	"strconv"
	"testing"
	"time"

	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestWindow(t *testing.T) {
	items := numbers(57)

	tests := []struct {
		name        string
		limit       int
		offset      int
		wantLen     int
		wantHasMore bool
		wantFirst   int
	}{
		{"last page", 20, 40, 17, false, 40},
		{"middle page", 20, 20, 20, true, 20},
		{"first page", 20, 0, 20, true, 0},
		{"past the end", 20, 100, 0, false, 0},
		{"exact fit", 57, 0, 57, false, 0},
		{"huge offset", 50, math.MaxInt - 10, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Window(items, tt.limit, tt.offset)
			assert.Len(t, page.Data, tt.wantLen)
			assert.Equal(t, 57, page.Meta.Total)
			assert.Equal(t, tt.wantHasMore, page.Meta.HasMore)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, page.Data[0])
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	limit, offset, err := Normalize(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, _, err = Normalize(0, 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	_, _, err = Normalize(101, 0, 0)
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))

	_, _, err = Normalize(10, -1, 0)
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))

	_, _, err = Normalize(-3, 0, 0)
	assert.Error(t, err)
}

type row struct {
	id    string
	score int
	when  *time.Time
}

func TestSortBy(t *testing.T) {
	rows := []row{{"c", 2, nil}, {"a", 2, nil}, {"b", 5, nil}, {"d", 1, nil}}

	SortBy(rows, Desc, func(r row) int { return r.score }, func(r row) string { return r.id })
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(rows))

	SortBy(rows, Asc, func(r row) int { return r.score }, func(r row) string { return r.id })
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(rows))
}

func TestSortBy_ComputesKeysOnce(t *testing.T) {
	rows := make([]row, 10)
	for i := range rows {
		rows[i] = row{id: strconv.Itoa(i), score: i % 3}
	}
	calls := 0
	SortBy(rows, Asc, func(r row) int { calls++; return r.score }, func(r row) string { return r.id })
	assert.Equal(t, len(rows), calls)
}

func TestTimeKey(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	rows := []row{{"none", 0, nil}, {"early", 0, &early}, {"late", 0, &late}}

	SortBy(rows, Desc, func(r row) int64 { return TimeKey(r.when) }, func(r row) string { return r.id })
	assert.Equal(t, []string{"late", "early", "none"}, ids(rows))
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, Desc, o)

	o, err = ParseOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, Asc, o)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func TestAll(t *testing.T) {
	items := numbers(250)
	calls := 0
	got, err := All(func(offset int) (Page[int], error) {
		calls++
		return Window(items, MaxLimit, offset), nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, 3, calls)

	_, err = All(func(offset int) (Page[int], error) {
		return Page[int]{}, ccerrors.New(ccerrors.ErrCodeInternal, "boom")
	})
	assert.Error(t, err)
}
