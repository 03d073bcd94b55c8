package services

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/kidchores/kidchores-be/internal/models"
)

// TaskServiceProvider defines the interface for category, task, and
// completion data.
type TaskServiceProvider interface {
	GetCategories() ([]models.Category, error)
	GetCompleted(username, dateCode string) (models.Completion, error)
	SetCompleted(username, dateCode string, taskIDs []int64) (models.Completion, error)
	CompletionCounts(dateCode string) (map[string]int, error)
}

// TaskService provides business logic for chore data.
type TaskService struct {
	db *sql.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

// GetCategories retrieves every category decorated with its tasks.
func (s *TaskService) GetCategories() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, starthour FROM categories ORDER BY starthour, id`)
	if err != nil {
		return nil, models.NewStorageError("query categories", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.StartHour); err != nil {
			return nil, models.NewStorageError("scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStorageError("iterate categories", err)
	}

	for i := range categories {
		tasks, err := s.tasksForCategory(categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Tasks = tasks
	}
	return categories, nil
}

func (s *TaskService) tasksForCategory(categoryID int64) ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, categoryid, name, value, details FROM tasks WHERE categoryid = ? ORDER BY id`, categoryID)
	if err != nil {
		return nil, models.NewStorageError("query tasks", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.CategoryID, &task.Name, &task.Value, &task.Details); err != nil {
			return nil, models.NewStorageError("scan task", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// userID resolves a username to its row ID.
func (s *TaskService) userID(username string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, models.NewStorageError("query user id", err)
	}
	return id, nil
}

// GetCompleted returns the set of tasks the user finished on the given
// day. A day with no record yet is an empty set, not an error.
func (s *TaskService) GetCompleted(username, dateCode string) (models.Completion, error) {
	userID, err := s.userID(username)
	if err != nil {
		return models.Completion{}, err
	}

	completion := models.Completion{UserID: userID, DateCode: dateCode, TaskIDs: []int64{}}

	var tasksJSON string
	err = s.db.QueryRow(`SELECT tasks FROM completed WHERE userid = ? AND datecode = ?`,
		userID, dateCode).Scan(&tasksJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return completion, nil
	}
	if err != nil {
		return models.Completion{}, models.NewStorageError("query completed", err)
	}

	if err := json.Unmarshal([]byte(tasksJSON), &completion.TaskIDs); err != nil {
		return models.Completion{}, models.NewStorageError("decode completed set", err)
	}
	return completion, nil
}

// SetCompleted replaces the completed-task set for (user, day). The first
// completion of a day inserts the row; later calls update it in place, so
// at most one record exists per pair.
func (s *TaskService) SetCompleted(username, dateCode string, taskIDs []int64) (models.Completion, error) {
	userID, err := s.userID(username)
	if err != nil {
		return models.Completion{}, err
	}

	if taskIDs == nil {
		taskIDs = []int64{}
	}
	tasksJSON, err := json.Marshal(taskIDs)
	if err != nil {
		return models.Completion{}, models.NewStorageError("encode completed set", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO completed (userid, datecode, tasks) VALUES (?, ?, ?)
		 ON CONFLICT (userid, datecode) DO UPDATE SET tasks = excluded.tasks`,
		userID, dateCode, string(tasksJSON))
	if err != nil {
		return models.Completion{}, models.NewStorageError("upsert completed", err)
	}

	return models.Completion{UserID: userID, DateCode: dateCode, TaskIDs: taskIDs}, nil
}

// CompletionCounts reports how many tasks each user completed on the given
// day, keyed by username. Used by the nightly summary job.
func (s *TaskService) CompletionCounts(dateCode string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT u.username, c.tasks FROM completed c JOIN users u ON u.id = c.userid WHERE c.datecode = ?`,
		dateCode)
	if err != nil {
		return nil, models.NewStorageError("query completion counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			username  string
			tasksJSON string
		)
		if err := rows.Scan(&username, &tasksJSON); err != nil {
			return nil, models.NewStorageError("scan completion counts", err)
		}
		var taskIDs []int64
		if err := json.Unmarshal([]byte(tasksJSON), &taskIDs); err != nil {
			return nil, models.NewStorageError("decode completion counts", err)
		}
		counts[username] = len(taskIDs)
	}
	return counts, rows.Err()
}
