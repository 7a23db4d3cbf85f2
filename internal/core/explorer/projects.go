package explorer

import (
	"context"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/paginate"
	"github.com/neilberkman/ccscope/internal/core/projects"
)

// ProjectQuery filters, orders and windows a project listing.
type ProjectQuery struct {
	SortBy       string // lastActivity, name or sessionCount
	Order        string // desc or asc
	Limit        int
	Offset       int
	PathPrefixes []string
}

// ListProjects returns one window of the project listing.
func (e *Explorer) ListProjects(ctx context.Context, q ProjectQuery) (paginate.Page[models.Project], error) {
	by, err := projects.ParseSortField(q.SortBy)
	if err != nil {
		return paginate.Page[models.Project]{}, err
	}
	order, err := paginate.ParseOrder(q.Order)
	if err != nil {
		return paginate.Page[models.Project]{}, err
	}
	limit, offset, err := paginate.Normalize(q.Limit, q.Offset, paginate.DefaultLimit)
	if err != nil {
		return paginate.Page[models.Project]{}, err
	}

	all, err := e.projects.Discover(ctx)
	if err != nil {
		return paginate.Page[models.Project]{}, err
	}
	matched := all[:0]
	for _, p := range all {
		if projects.MatchesPrefix(p.Path, q.PathPrefixes, e.home) {
			matched = append(matched, p)
		}
	}
	projects.Sort(matched, by, order)
	return paginate.Window(matched, limit, offset), nil
}

// GetProject returns a project with its recent sessions.
func (e *Explorer) GetProject(ctx context.Context, id string) (*models.ProjectDetail, error) {
	return e.projects.Detail(ctx, id)
}

// ProjectConfig returns the raw global-config entry of a project and the
// real path it is keyed by.
func (e *Explorer) ProjectConfig(ctx context.Context, id string) (string, map[string]any, error) {
	return e.projects.Config(id)
}
