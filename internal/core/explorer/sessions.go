package explorer

import (
	"context"
	"strings"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/correlate"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/paginate"
	"github.com/neilberkman/ccscope/internal/core/sessions"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
)

// SessionQuery filters, orders and windows a session listing. Since and
// Until bound the start time inclusively.
type SessionQuery struct {
	Type   string // all, regular or agent
	Since  *time.Time
	Until  *time.Time
	SortBy string // startTime, endTime, messageCount or lastModified
	Order  string
	Limit  int
	Offset int
}

// MessageQuery windows a session's messages.
type MessageQuery struct {
	Type   string // all, user or assistant
	Limit  int
	Offset int
}

// ListSessions returns one window of a project's sessions.
func (e *Explorer) ListSessions(ctx context.Context, projectID string, q SessionQuery) (paginate.Page[models.Session], error) {
	var empty paginate.Page[models.Session]
	typ, err := models.ParseSessionType(q.Type, models.SessionTypeAll)
	if err != nil {
		return empty, ccerrors.InvalidInput("type", q.Type, err.Error())
	}
	order, err := paginate.ParseOrder(q.Order)
	if err != nil {
		return empty, err
	}
	limit, offset, err := paginate.Normalize(q.Limit, q.Offset, paginate.DefaultLimit)
	if err != nil {
		return empty, err
	}
	sortKey, err := sessionSortKey(q.SortBy)
	if err != nil {
		return empty, err
	}

	project, err := e.projects.Resolve(projectID)
	if err != nil {
		return empty, err
	}
	all, err := sessions.Index(ctx, project.ID, project.Path, e.layout.ProjectDir(project.ID), e.workers)
	if err != nil {
		return empty, err
	}

	ranged := q.Since != nil || q.Until != nil
	kept := all[:0]
	for _, s := range all {
		if !typ.Match(s.ID) {
			continue
		}
		if ranged {
			if s.StartTime == nil ||
				(q.Since != nil && s.StartTime.Before(*q.Since)) ||
				(q.Until != nil && s.StartTime.After(*q.Until)) {
				continue
			}
		}
		kept = append(kept, s)
	}

	paginate.SortBy(kept, order, sortKey, func(s models.Session) string { return s.ID })
	return paginate.Window(kept, limit, offset), nil
}

func sessionSortKey(field string) (func(models.Session) int64, error) {
	switch strings.ToLower(field) {
	case "", "starttime":
		return func(s models.Session) int64 { return paginate.TimeKey(s.StartTime) }, nil
	case "endtime":
		return func(s models.Session) int64 { return paginate.TimeKey(s.EndTime) }, nil
	case "messagecount":
		return func(s models.Session) int64 { return int64(s.MessageCount) }, nil
	case "lastmodified":
		return func(s models.Session) int64 { return s.LastModified.UnixNano() }, nil
	}
	return nil, ccerrors.InvalidInput("sortBy", field, "must be startTime, endTime, messageCount or lastModified")
}

// transcript locates a session file inside a known project.
func (e *Explorer) transcript(projectID, sessionID string) (models.Project, string, error) {
	project, err := e.projects.Resolve(projectID)
	if err != nil {
		return project, "", err
	}
	path, ok := archive.Child(e.layout.ProjectDir(project.ID), strings.TrimSuffix(sessionID, ccsessions.TranscriptExt)+ccsessions.TranscriptExt)
	if !ok || !isFile(path) {
		return project, "", ccerrors.SessionNotFound(projectID, sessionID)
	}
	return project, path, nil
}

func (e *Explorer) load(projectID, sessionID string) (models.Project, *ccsessions.ParsedSession, error) {
	project, path, err := e.transcript(projectID, sessionID)
	if err != nil {
		return project, nil, err
	}
	ps, err := sessions.Load(path)
	if err != nil {
		return project, nil, ccerrors.Wrap(err, ccerrors.ErrCodeInternal, "failed to read transcript")
	}
	return project, ps, nil
}

// GetSession returns a session with its metadata, sub-agents and
// correlated data.
func (e *Explorer) GetSession(ctx context.Context, projectID, sessionID string) (*models.SessionDetail, error) {
	project, ps, err := e.load(projectID, sessionID)
	if err != nil {
		return nil, err
	}

	s := sessions.FromParsed(project.ID, project.Path, ps)
	detail := &models.SessionDetail{
		Session: s,
		Metadata: models.SessionMetadata{
			TotalTokens: sessions.TotalTokens(ps.Entries),
			Model:       s.Model,
			ToolsUsed:   sessions.ToolsUsed(ps),
		},
	}
	if d, ok := s.Duration(); ok {
		ms := d.Milliseconds()
		detail.Duration = &ms
	}

	detail.SubAgentIDs, err = correlate.SubAgentIDs(ctx, e.layout.ProjectDir(project.ID), s.ID, e.workers)
	if err != nil {
		return nil, err
	}
	detail.CorrelatedData, err = e.correlator.Resolve(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListMessages returns one window of a session's messages in file order.
func (e *Explorer) ListMessages(ctx context.Context, projectID, sessionID string, q MessageQuery) (paginate.Page[models.Message], error) {
	var empty paginate.Page[models.Message]
	filter, ok := models.ParseMessageFilter(q.Type)
	if !ok {
		return empty, ccerrors.InvalidInput("type", q.Type, "must be all, user or assistant")
	}
	limit, offset, err := paginate.Normalize(q.Limit, q.Offset, paginate.DefaultLimit)
	if err != nil {
		return empty, err
	}
	_, ps, err := e.load(projectID, sessionID)
	if err != nil {
		return empty, err
	}
	msgs := sessions.FilterMessages(sessions.Messages(ps), filter)
	return paginate.Window(msgs, limit, offset), nil
}

// AllMessages returns every message of a session in file order.
func (e *Explorer) AllMessages(ctx context.Context, projectID, sessionID string) ([]models.Message, error) {
	_, ps, err := e.load(projectID, sessionID)
	if err != nil {
		return nil, err
	}
	return sessions.Messages(ps), nil
}

// GetMessage returns one message by uuid.
func (e *Explorer) GetMessage(ctx context.Context, projectID, sessionID, messageID string) (*models.Message, error) {
	_, ps, err := e.load(projectID, sessionID)
	if err != nil {
		return nil, err
	}
	m, ok := sessions.FindMessage(sessions.Messages(ps), messageID)
	if !ok {
		return nil, ccerrors.MessageNotFound(sessionID, messageID)
	}
	return &m, nil
}

// SubAgents resolves a session's parent (for agents) or children (for main
// sessions).
func (e *Explorer) SubAgents(ctx context.Context, projectID, sessionID string) (*models.SubAgentLinks, error) {
	project, _, err := e.transcript(projectID, sessionID)
	if err != nil {
		return nil, err
	}
	return correlate.Links(ctx, project.ID, project.Path, e.layout.ProjectDir(project.ID), sessionID, e.workers)
}
