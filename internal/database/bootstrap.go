package database

import (
	"database/sql"
	"fmt"

	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Seed is the reference data inserted into a freshly built database: the
// starting task categories and the administrative bootstrap account.
type Seed struct {
	Categories []models.Category
	Admin      models.User // PasswordHash must already be set
}

// DefaultSeed returns the stock chore categories plus a parent account for
// first login. The hash is produced by the caller so the bootstrap path
// holds no plaintext.
func DefaultSeed(adminUsername, adminHash string) Seed {
	return Seed{
		Admin: models.User{
			Username:     adminUsername,
			FirstName:    "Admin",
			LastName:     "Account",
			Role:         models.RoleParent,
			PasswordHash: adminHash,
		},
		Categories: []models.Category{
			{
				Name:      "Morning",
				StartHour: 6,
				Tasks: []models.Task{
					{Name: "Make bed", Value: 1, Details: "Sheets pulled up, pillow on top"},
					{Name: "Brush teeth", Value: 1, Details: "Two full minutes"},
					{Name: "Get dressed", Value: 1, Details: "Including socks and shoes"},
				},
			},
			{
				Name:      "After school",
				StartHour: 15,
				Tasks: []models.Task{
					{Name: "Homework", Value: 2, Details: "All assignments done before screens"},
					{Name: "Put away backpack", Value: 1, Details: "Hung on its hook, lunchbox emptied"},
				},
			},
			{
				Name:      "Evening",
				StartHour: 18,
				Tasks: []models.Task{
					{Name: "Set the table", Value: 1, Details: "Plates, cups, and silverware"},
					{Name: "Clear dishes", Value: 1, Details: "Rinse and stack in the dishwasher"},
					{Name: "Brush teeth", Value: 1, Details: "Before story time"},
				},
			},
		},
	}
}

// Bootstrap executes the schema-creation script verbatim and inserts the
// seed data. This is destructive in spirit and must only ever run against
// a database that does not exist yet, so it refuses to touch a connection
// that already has user tables.
func Bootstrap(db *sql.DB, rebuildSQL string, seed Seed) error {
	tables, err := listTables(db)
	if err != nil {
		return err
	}
	if len(tables) > 0 {
		return fmt.Errorf("refusing to rebuild: database already has %d tables", len(tables))
	}

	if _, err := db.Exec(rebuildSQL); err != nil {
		return models.NewStorageError("execute rebuild script", err)
	}

	for _, category := range seed.Categories {
		res, err := db.Exec(`INSERT INTO categories (name, starthour) VALUES (?, ?)`,
			category.Name, category.StartHour)
		if err != nil {
			return models.NewStorageError("seed category", err)
		}
		categoryID, err := res.LastInsertId()
		if err != nil {
			return models.NewStorageError("seed category id", err)
		}
		for _, task := range category.Tasks {
			_, err := db.Exec(`INSERT INTO tasks (categoryid, name, value, details) VALUES (?, ?, ?, ?)`,
				categoryID, task.Name, task.Value, task.Details)
			if err != nil {
				return models.NewStorageError("seed task", err)
			}
		}
	}

	if seed.Admin.Username != "" {
		_, err := db.Exec(`INSERT INTO users (username, firstname, lastname, usertype, passwordhash) VALUES (?, ?, ?, ?, ?)`,
			seed.Admin.Username, seed.Admin.FirstName, seed.Admin.LastName, seed.Admin.Role, seed.Admin.PasswordHash)
		if err != nil {
			return models.NewStorageError("seed admin account", err)
		}
		log.Info().Str("username", seed.Admin.Username).Msg("Created bootstrap parent account")
	}

	return nil
}
