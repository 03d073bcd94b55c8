package database

import (
	"database/sql"
	"os"

	"github.com/rs/zerolog/log"
)

// SetupResult is what the startup barrier hands back to main: an open
// connection, whether the database was built from scratch, and the
// verification outcome for an existing one.
type SetupResult struct {
	DB           *sql.DB
	Rebuilt      bool
	Verification Result
}

// Setup runs the one-shot startup state machine. A missing database file
// is Fresh: the file is created, the rebuild script runs, and the seed data
// is inserted. An existing file is verified against the declaration; a
// failed verification is reported in the result, not returned as an error,
// so the caller can keep the process alive while refusing data routes.
func Setup(databasePath, rebuildSQLPath string, decl Declaration, seed Seed) (*SetupResult, error) {
	_, statErr := os.Stat(databasePath)
	fresh := os.IsNotExist(statErr)

	db, err := New(databasePath)
	if err != nil {
		return nil, err
	}

	if fresh {
		log.Info().Str("path", databasePath).Msg("Building database from scratch")
		rebuildSQL, err := os.ReadFile(rebuildSQLPath)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := Bootstrap(db, string(rebuildSQL), seed); err != nil {
			db.Close()
			return nil, err
		}
		return &SetupResult{DB: db, Rebuilt: true}, nil
	}

	verification, err := Verify(db, decl)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SetupResult{DB: db, Verification: verification}, nil
}
