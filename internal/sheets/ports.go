package sheets

import (
	"context"

	"subtracker/internal/core"
)

// Ports for outbound backup adapters.
type (
	// BackupWriter replaces the remote backup with the current snapshot
	// and reports how many subscription rows were written.
	BackupWriter interface {
		WriteBackup(ctx context.Context, snap core.Snapshot) (rows int, err error)
	}
)
