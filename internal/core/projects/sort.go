package projects

import (
	"strings"

	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/paginate"
)

// SortField names a project ordering.
type SortField string

const (
	SortLastActivity SortField = "lastActivity"
	SortName         SortField = "name"
	SortSessionCount SortField = "sessionCount"
)

// ParseSortField accepts lastActivity, name or sessionCount; empty means
// lastActivity.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(s) {
	case "", "lastactivity":
		return SortLastActivity, nil
	case "name":
		return SortName, nil
	case "sessioncount":
		return SortSessionCount, nil
	}
	return "", ccerrors.InvalidInput("sortBy", s, "must be lastActivity, name or sessionCount")
}

// Sort orders projects in place. Ties break on id.
func Sort(projects []models.Project, by SortField, order paginate.Order) {
	id := func(p models.Project) string { return p.ID }
	switch by {
	case SortName:
		paginate.SortBy(projects, order, func(p models.Project) string { return p.Name }, id)
	case SortSessionCount:
		paginate.SortBy(projects, order, func(p models.Project) int { return p.SessionCount }, id)
	default:
		paginate.SortBy(projects, order, func(p models.Project) int64 { return paginate.TimeKey(p.LastActivity) }, id)
	}
}
