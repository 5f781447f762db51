package model

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Statuses and Priorities list the allowed enum values in their canonical
// order. Distribution payloads iterate these so every key is always present.
var (
	Statuses   = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// Task is the storage shape. created_by is immutable after creation;
// assigned_to defaults to the creator and may change via update.
type Task struct {
	ID          int64
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
	CreatedBy   int64
	AssignedTo  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Loaded on demand, nil otherwise.
	CreatedByUser  *User
	AssignedToUser *User
}

// CreateTaskRequest carries the fields a client may set on creation.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"due_date"`
	AssignedTo  *int64   `json:"assigned_to"`
	Tags        []string `json:"tags"`
}

// UpdateTaskRequest updates any subset of fields; nil means "leave unchanged".
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	DueDate     *string   `json:"due_date"`
	AssignedTo  *int64    `json:"assigned_to"`
	Tags        *[]string `json:"tags"`
}

// ListCriteria are the list endpoint's filter/sort/pagination inputs after
// query-string parsing. Unrecognized status/priority values are dropped by
// the service, not rejected.
type ListCriteria struct {
	Status     string
	Priority   string
	AssignedTo *int64
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

// TaskPage is the stable list contract: one page of task projections plus
// pagination metadata. From/To are nil for an empty page.
type TaskPage struct {
	Data        []TaskResource `json:"data"`
	CurrentPage int            `json:"current_page"`
	LastPage    int            `json:"last_page"`
	PerPage     int            `json:"per_page"`
	Total       int            `json:"total"`
	From        *int           `json:"from"`
	To          *int           `json:"to"`
}
