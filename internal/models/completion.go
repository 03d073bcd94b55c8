package models

// Completion is the set of tasks a user has finished on one day.
// DateCode is a caller-supplied day partition key (epoch day); at most one
// record exists per (UserID, DateCode) pair and updates replace the whole
// set rather than appending.
type Completion struct {
	UserID   int64   `json:"userId"`
	DateCode string  `json:"dateCode"`
	TaskIDs  []int64 `json:"tasks"`
}
