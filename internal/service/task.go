package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/query"
	"github.com/jabatayo/task-management-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// Колонки, по которым разрешена сортировка списка.
var sortableColumns = map[string]bool{
	"created_at": true,
	"due_date":   true,
	"priority":   true,
	"title":      true,
	"status":     true,
	"updated_at": true,
}

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ident model.Identity, req model.CreateTaskRequest) (model.Task, error) {
	t := model.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        req.Tags,
		CreatedBy:   ident.ID,
		AssignedTo:  req.AssignedTo,
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.AssignedTo == nil { // без явного исполнителя задача остается у создателя
		id := ident.ID
		t.AssignedTo = &id
	}

	if err := validateTitle(t.Title); err != nil {
		return t, err
	}
	if err := validateDescription(t.Description); err != nil {
		return t, err
	}
	if !model.ValidStatus(t.Status) {
		return t, fmt.Errorf("%w: status must be one of: %s", ErrValidation, strings.Join(model.Statuses, ", "))
	}
	if !model.ValidPriority(t.Priority) {
		return t, fmt.Errorf("%w: priority must be one of: %s", ErrValidation, strings.Join(model.Priorities, ", "))
	}
	if err := validateTags(t.Tags); err != nil {
		return t, err
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return t, err
		}
		t.DueDate = &due
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return created, err
	}
	return s.repo.Get(ctx, created.ID)
}

// List возвращает страницу задач в пределах области видимости вызывающего.
// Нераспознанные значения status/priority молча игнорируются, фильтр просто
// не применяется.
func (s *TaskService) List(ctx context.Context, ident model.Identity, c model.ListCriteria) (model.TaskPage, error) {
	q := query.NewTasks().VisibleTo(ident)

	if model.ValidStatus(c.Status) {
		q = q.WithStatus(c.Status)
	}
	if model.ValidPriority(c.Priority) {
		q = q.WithPriority(c.Priority)
	}
	if c.AssignedTo != nil {
		q = q.AssignedTo(*c.AssignedTo)
	}
	if c.Search != "" {
		q = q.Search(c.Search)
	}

	sortBy := c.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	dir := "ASC"
	if strings.ToLower(c.SortOrder) == "desc" {
		dir = "DESC"
	}
	// Вторичный ключ id делает порядок при равных значениях детерминированным
	q = q.OrderBy(sortBy+" "+dir, "id "+dir)

	perPage := c.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	page := c.Page
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return model.TaskPage{}, err
	}

	offset := (page - 1) * perPage
	tasks, err := s.repo.SelectWithUsers(ctx, q.LimitOffset(uint64(perPage), uint64(offset)))
	if err != nil {
		return model.TaskPage{}, err
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	result := model.TaskPage{
		Data:        make([]model.TaskResource, 0, len(tasks)),
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
	for _, t := range tasks {
		result.Data = append(result.Data, t.Resource())
	}
	if len(tasks) > 0 {
		from := offset + 1
		to := offset + len(tasks)
		result.From = &from
		result.To = &to
	}
	return result, nil
}

func (s *TaskService) Get(ctx context.Context, ident model.Identity, id int64) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if !CanAccess(ident, t) {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, ident model.Identity, id int64, req model.UpdateTaskRequest) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if !CanModify(ident, t) {
		return model.Task{}, ErrForbidden
	}

	changes, err := updateChanges(req)
	if err != nil {
		return model.Task{}, err
	}
	if len(changes) == 0 {
		return t, nil
	}

	if _, err := s.repo.Update(ctx, id, changes); err != nil {
		return model.Task{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *TaskService) Delete(ctx context.Context, ident model.Identity, id int64) error {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(ident, t) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// updateChanges валидирует переданные поля и собирает SET-часть обновления.
// created_by сюда попасть не может.
func updateChanges(req model.UpdateTaskRequest) (map[string]any, error) {
	changes := make(map[string]any)

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		changes["title"] = title
	}
	if req.Description != nil {
		if err := validateDescription(req.Description); err != nil {
			return nil, err
		}
		changes["description"] = *req.Description
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("%w: status must be one of: %s", ErrValidation, strings.Join(model.Statuses, ", "))
		}
		changes["status"] = *req.Status
	}
	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			return nil, fmt.Errorf("%w: priority must be one of: %s", ErrValidation, strings.Join(model.Priorities, ", "))
		}
		changes["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		changes["due_date"] = due
	}
	if req.AssignedTo != nil {
		changes["assigned_to"] = *req.AssignedTo
	}
	if req.Tags != nil {
		if err := validateTags(*req.Tags); err != nil {
			return nil, err
		}
		changes["tags"] = *req.Tags
	}
	return changes, nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if len(title) > 255 {
		return fmt.Errorf("%w: task title cannot exceed 255 characters", ErrValidation)
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && len(*description) > 1000 {
		return fmt.Errorf("%w: task description cannot exceed 1000 characters", ErrValidation)
	}
	return nil
}

func validateTags(tags []string) error {
	for _, tag := range tags {
		if len(tag) > 50 {
			return fmt.Errorf("%w: each tag cannot exceed 50 characters", ErrValidation)
		}
	}
	return nil
}

func parseDueDate(s string) (time.Time, error) {
	due, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due date must be a valid date", ErrValidation)
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		return time.Time{}, fmt.Errorf("%w: due date must be today or a future date", ErrValidation)
	}
	return due, nil
}
