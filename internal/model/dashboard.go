package model

// DashboardSnapshot is the full set of dashboard sub-metrics computed for one
// request at one instant. Every sub-metric is evaluated against the caller's
// visibility scope independently.
type DashboardSnapshot struct {
	TaskStatistics       TaskStatistics     `json:"task_statistics"`
	RecentActivity       []RecentActivity   `json:"recent_activity"`
	PerformanceMetrics   PerformanceMetrics `json:"performance_metrics"`
	PriorityDistribution map[string]int     `json:"priority_distribution"`
	StatusDistribution   map[string]int     `json:"status_distribution"`
	OverdueTasks         []OverdueTask      `json:"overdue_tasks"`
	UpcomingDeadlines    []UpcomingDeadline `json:"upcoming_deadlines"`
}

type TaskStatistics struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	PendingTasks    int     `json:"pending_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	CancelledTasks  int     `json:"cancelled_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

type PerformanceMetrics struct {
	TasksCreatedThisMonth     int     `json:"tasks_created_this_month"`
	TasksCompletedThisMonth   int     `json:"tasks_completed_this_month"`
	CompletionRateThisMonth   float64 `json:"completion_rate_this_month"`
	AverageCompletionTimeDays float64 `json:"average_completion_time_days"`
}

// UserRef is the short creator/assignee projection used by dashboard items.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RecentActivity struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Priority  string   `json:"priority"`
	UpdatedAt string   `json:"updated_at"`
	Creator   UserRef  `json:"creator"`
	Assignee  *UserRef `json:"assignee"`
}

type OverdueTask struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	DaysOverdue int      `json:"days_overdue"`
	Assignee    *UserRef `json:"assignee"`
}

type UpcomingDeadline struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Priority     string   `json:"priority"`
	DueDate      string   `json:"due_date"`
	DaysUntilDue int      `json:"days_until_due"`
	Assignee     *UserRef `json:"assignee"`
}
