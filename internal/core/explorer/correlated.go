package explorer

import (
	"context"

	"github.com/neilberkman/ccscope/internal/core/correlate"
	"github.com/neilberkman/ccscope/internal/core/models"
)

// CorrelatedData gathers todos, file history, debug logs, the linked plan
// and the linked skill of a session. Each part may be empty on its own.
func (e *Explorer) CorrelatedData(ctx context.Context, sessionID string) (*models.CorrelatedData, error) {
	return e.correlator.Resolve(ctx, sessionID)
}

// FindSession returns the project holding a session's transcript.
func (e *Explorer) FindSession(ctx context.Context, sessionID string) (string, bool) {
	return e.correlator.FindProject(sessionID)
}

// Environment returns the environment variables captured for a session.
func (e *Explorer) Environment(ctx context.Context, sessionID string) (map[string]string, error) {
	return e.correlator.Environment(sessionID)
}

// BackupContent returns the text of one file-history backup.
func (e *Explorer) BackupContent(ctx context.Context, sessionID, backupName string) (string, error) {
	return e.correlator.BackupContent(correlate.CanonicalID(sessionID), backupName)
}
