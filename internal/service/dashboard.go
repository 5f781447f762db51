package service

import (
	"context"
	"math"
	"time"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/query"
	"github.com/jabatayo/task-management-api/internal/repo"
)

type DashboardService struct {
	repo repo.TaskRepository
}

func NewDashboardService(repo repo.TaskRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Snapshot собирает все метрики дашборда на момент now. Каждая метрика
// считается независимым запросом от свежей копии базового scoped-запроса,
// поэтому область видимости не теряется ни в одной из веток.
func (s *DashboardService) Snapshot(ctx context.Context, ident model.Identity, now time.Time) (model.DashboardSnapshot, error) {
	base := query.NewTasks().VisibleTo(ident)

	stats, err := s.taskStatistics(ctx, base)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	recent, err := s.recentActivity(ctx, base)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	performance, err := s.performanceMetrics(ctx, base, now)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	priorities, err := s.distribution(ctx, base, model.Priorities, query.Tasks.WithPriority)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	statuses, err := s.distribution(ctx, base, model.Statuses, query.Tasks.WithStatus)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	overdue, err := s.overdueTasks(ctx, base, now)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}
	upcoming, err := s.upcomingDeadlines(ctx, base, now)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}

	return model.DashboardSnapshot{
		TaskStatistics:       stats,
		RecentActivity:       recent,
		PerformanceMetrics:   performance,
		PriorityDistribution: priorities,
		StatusDistribution:   statuses,
		OverdueTasks:         overdue,
		UpcomingDeadlines:    upcoming,
	}, nil
}

func (s *DashboardService) taskStatistics(ctx context.Context, base query.Tasks) (model.TaskStatistics, error) {
	var stats model.TaskStatistics
	var err error

	if stats.TotalTasks, err = s.repo.Count(ctx, base); err != nil {
		return stats, err
	}
	if stats.CompletedTasks, err = s.repo.Count(ctx, base.WithStatus(model.StatusCompleted)); err != nil {
		return stats, err
	}
	if stats.PendingTasks, err = s.repo.Count(ctx, base.WithStatus(model.StatusPending)); err != nil {
		return stats, err
	}
	if stats.InProgressTasks, err = s.repo.Count(ctx, base.WithStatus(model.StatusInProgress)); err != nil {
		return stats, err
	}
	if stats.CancelledTasks, err = s.repo.Count(ctx, base.WithStatus(model.StatusCancelled)); err != nil {
		return stats, err
	}

	stats.CompletionRate = completionRate(stats.CompletedTasks, stats.TotalTasks)
	return stats, nil
}

// recentActivity — 10 последних обновленных задач
func (s *DashboardService) recentActivity(ctx context.Context, base query.Tasks) ([]model.RecentActivity, error) {
	tasks, err := s.repo.SelectWithUsers(ctx, base.OrderBy("updated_at DESC").Limit(10))
	if err != nil {
		return nil, err
	}

	activity := make([]model.RecentActivity, 0, len(tasks))
	for _, t := range tasks {
		item := model.RecentActivity{
			ID:        t.ID,
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			UpdatedAt: t.UpdatedAt.Format(model.TimestampLayout),
			Assignee:  userRef(t.AssignedToUser),
		}
		if t.CreatedByUser != nil {
			item.Creator = *userRef(t.CreatedByUser)
		}
		activity = append(activity, item)
	}
	return activity, nil
}

func (s *DashboardService) performanceMetrics(ctx context.Context, base query.Tasks, now time.Time) (model.PerformanceMetrics, error) {
	var m model.PerformanceMetrics

	start := startOfMonth(now)
	end := endOfMonth(now)
	monthly := base.CreatedBetween(start, end)

	var err error
	if m.TasksCreatedThisMonth, err = s.repo.Count(ctx, monthly); err != nil {
		return m, err
	}

	// Задачи, завершенные в нулевой момент (created_at == updated_at), не
	// считаются завершенными за месяц
	completedQ := monthly.
		WithStatus(model.StatusCompleted).
		UpdatedBetween(start, end).
		TookTime()
	if m.TasksCompletedThisMonth, err = s.repo.Count(ctx, completedQ); err != nil {
		return m, err
	}

	m.CompletionRateThisMonth = completionRate(m.TasksCompletedThisMonth, m.TasksCreatedThisMonth)

	completed, err := s.repo.Select(ctx, monthly.WithStatus(model.StatusCompleted))
	if err != nil {
		return m, err
	}
	if len(completed) > 0 {
		total := 0
		for _, t := range completed {
			total += daysBetween(t.CreatedAt, t.UpdatedAt)
		}
		avg := float64(total) / float64(len(completed))
		m.AverageCompletionTimeDays = math.Round(avg*10) / 10
	}
	return m, nil
}

// distribution считает видимые задачи по каждому значению перечисления;
// отсутствующие категории остаются явными нулями
func (s *DashboardService) distribution(ctx context.Context, base query.Tasks, values []string, filter func(query.Tasks, string) query.Tasks) (map[string]int, error) {
	dist := make(map[string]int, len(values))
	for _, v := range values {
		n, err := s.repo.Count(ctx, filter(base, v))
		if err != nil {
			return nil, err
		}
		dist[v] = n
	}
	return dist, nil
}

func (s *DashboardService) overdueTasks(ctx context.Context, base query.Tasks, now time.Time) ([]model.OverdueTask, error) {
	today := startOfDay(now)
	q := base.
		DueBefore(today).
		WithoutStatus(model.StatusCompleted).
		OrderBy("due_date ASC").
		Limit(5)

	tasks, err := s.repo.SelectWithUsers(ctx, q)
	if err != nil {
		return nil, err
	}

	overdue := make([]model.OverdueTask, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		overdue = append(overdue, model.OverdueTask{
			ID:          t.ID,
			Title:       t.Title,
			Priority:    t.Priority,
			DueDate:     t.DueDate.Format(model.DateLayout),
			DaysOverdue: daysBetween(*t.DueDate, now),
			Assignee:    userRef(t.AssignedToUser),
		})
	}
	return overdue, nil
}

// upcomingDeadlines — незавершенные задачи со сроком в ближайшие 7 дней
func (s *DashboardService) upcomingDeadlines(ctx context.Context, base query.Tasks, now time.Time) ([]model.UpcomingDeadline, error) {
	today := startOfDay(now)
	q := base.
		WithDueDate().
		DueBetween(today, today.AddDate(0, 0, 7)).
		WithoutStatus(model.StatusCompleted).
		OrderBy("due_date ASC").
		Limit(5)

	tasks, err := s.repo.SelectWithUsers(ctx, q)
	if err != nil {
		return nil, err
	}

	upcoming := make([]model.UpcomingDeadline, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		upcoming = append(upcoming, model.UpcomingDeadline{
			ID:           t.ID,
			Title:        t.Title,
			Priority:     t.Priority,
			DueDate:      t.DueDate.Format(model.DateLayout),
			DaysUntilDue: daysBetween(now, *t.DueDate),
			Assignee:     userRef(t.AssignedToUser),
		})
	}
	return upcoming, nil
}

// completionRate = completed/total*100, округление half-up до 2 знаков;
// 0 при пустом наборе
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// daysBetween — разница в календарных днях, знак сохраняется
func daysBetween(from, to time.Time) int {
	f := startOfDay(from)
	t := startOfDay(to)
	return int(t.Sub(f) / (24 * time.Hour))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func userRef(u *model.User) *model.UserRef {
	if u == nil {
		return nil
	}
	return &model.UserRef{ID: u.ID, Name: u.Name}
}
