package correlate

import (
	"context"
	"path/filepath"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/sessions"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
	"golang.org/x/sync/errgroup"
)

// ParentOf reads an agent transcript's parent: the sessionId of its own
// first entry. Main sessions have no parent.
func ParentOf(transcript string) string {
	if !ccsessions.IsAgentID(ccsessions.SessionIDFromPath(transcript)) {
		return ""
	}
	first, ok, err := ccsessions.FirstEntry(transcript)
	if err != nil || !ok {
		return ""
	}
	id, _ := first.SessionID()
	return id
}

// SubAgentFiles opens every agent transcript in projectDir and keeps those
// whose first entry names sessionID. Nothing is indexed between calls.
func SubAgentFiles(ctx context.Context, projectDir, sessionID string, workers int) ([]sessions.File, error) {
	var candidates []sessions.File
	for _, f := range sessions.ListFiles(projectDir) {
		if ccsessions.IsAgentID(f.ID) {
			candidates = append(candidates, f)
		}
	}

	match := make([]bool, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, f := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			match[i] = ParentOf(f.Path) == sessionID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var children []sessions.File
	for i, f := range candidates {
		if match[i] {
			children = append(children, f)
		}
	}
	return children, nil
}

// SubAgentIDs lists the ids of sessionID's sub-agents, most recent first.
func SubAgentIDs(ctx context.Context, projectDir, sessionID string, workers int) ([]string, error) {
	ids := []string{}
	if ccsessions.IsAgentID(sessionID) {
		return ids, nil
	}
	files, err := SubAgentFiles(ctx, projectDir, sessionID, workers)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// Links resolves both directions for one session in a project: an agent
// reports its parent, a main session its children.
func Links(ctx context.Context, projectID, projectPath, projectDir, sessionID string, workers int) (*models.SubAgentLinks, error) {
	links := &models.SubAgentLinks{SessionID: sessionID, SubAgents: []models.Session{}}

	if ccsessions.IsAgentID(sessionID) {
		links.ParentSessionID = ParentOf(filepath.Join(projectDir, sessionID+ccsessions.TranscriptExt))
		return links, nil
	}

	files, err := SubAgentFiles(ctx, projectDir, sessionID, workers)
	if err != nil {
		return nil, err
	}
	children, err := sessions.BuildAll(ctx, projectID, projectPath, files, workers)
	if err != nil {
		return nil, err
	}
	links.SubAgents = children
	return links, nil
}
