package models

// Category groups tasks that open up at a given hour of the day.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartHour int    `json:"startHour"`
	Tasks     []Task `json:"tasks"`
}

// Task is a single chore inside a category.
type Task struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"`
	Value      int    `json:"value"`
	Details    string `json:"details"`
}
