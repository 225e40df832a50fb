package repository

import (
	"context"

	"github.com/feelcast/feelcast/pkg/repository/firestore"
	"github.com/feelcast/feelcast/pkg/repository/memory"
	"github.com/feelcast/feelcast/pkg/repository/sqlite"
)

type (
	Memory    = memory.Memory
	Firestore = firestore.Firestore
	SQLite    = sqlite.SQLite
)

func NewMemory() *Memory {
	return memory.New()
}

// NewFirestore creates a new Firestore repository client
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	return firestore.New(ctx, projectID, databaseID)
}

// NewSQLite opens the database file at path, or an in-memory database for
// sqlite.MemoryDSN.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	return sqlite.New(ctx, path)
}
