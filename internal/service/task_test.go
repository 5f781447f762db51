package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/query"
	"github.com/jabatayo/task-management-api/internal/repo"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id int64) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Select(ctx context.Context, q query.Tasks) ([]model.Task, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) SelectWithUsers(ctx context.Context, q query.Tasks) ([]model.Task, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Count(ctx context.Context, q query.Tasks) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id int64, changes map[string]any) (model.Task, error) {
	args := m.Called(ctx, id, changes)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func adminIdentity() model.Identity {
	return model.Identity{ID: 1, Name: "Admin", Roles: []string{model.RoleAdministrator}, IsAdmin: true}
}

func regularIdentity(id int64) model.Identity {
	return model.Identity{ID: id, Name: "User", Roles: []string{model.RoleRegularUser}}
}

func queryArgs(t *testing.T, q query.Tasks) []any {
	t.Helper()
	_, args, err := q.SelectSQL()
	require.NoError(t, err)
	return args
}

func TestTaskService_Create(t *testing.T) {
	description := strings.Repeat("d", 1001)
	longTag := strings.Repeat("t", 51)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(model.DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(model.DateLayout)

	tests := []struct {
		name      string
		ident     model.Identity
		req       model.CreateTaskRequest
		setupMock func(*MockTaskRepository)
		wantErr   error
	}{
		{
			name:  "defaults applied and assignee falls back to creator",
			ident: regularIdentity(7),
			req:   model.CreateTaskRequest{Title: "Write report"},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(task model.Task) bool {
					return task.Title == "Write report" &&
						task.Status == model.StatusPending &&
						task.Priority == model.PriorityMedium &&
						task.CreatedBy == 7 &&
						task.AssignedTo != nil && *task.AssignedTo == 7
				})).Return(model.Task{ID: 10}, nil)
				m.On("Get", mock.Anything, int64(10)).Return(model.Task{ID: 10, Title: "Write report"}, nil)
			},
		},
		{
			name:  "explicit assignee kept",
			ident: regularIdentity(7),
			req:   model.CreateTaskRequest{Title: "Review", AssignedTo: ptr(int64(3)), DueDate: &tomorrow},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(task model.Task) bool {
					return task.AssignedTo != nil && *task.AssignedTo == 3 && task.DueDate != nil
				})).Return(model.Task{ID: 11}, nil)
				m.On("Get", mock.Anything, int64(11)).Return(model.Task{ID: 11, Title: "Review"}, nil)
			},
		},
		{
			name:      "empty title",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "   "},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "title too long",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: strings.Repeat("a", 256)},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "description too long",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "T", Description: &description},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "unknown status rejected on create",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "T", Status: "done"},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "unknown priority rejected on create",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "T", Priority: "critical"},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "tag too long",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "T", Tags: []string{"ok", longTag}},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "due date in the past",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "T", DueDate: &yesterday},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "malformed due date",
			ident:     regularIdentity(7),
			req:       model.CreateTaskRequest{Title: "T", DueDate: ptr("not-a-date")},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo)
			_, err := service.Create(context.Background(), tt.ident, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List_Scoping(t *testing.T) {
	t.Run("admin query carries no visibility predicate", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Count", mock.Anything, mock.MatchedBy(func(q query.Tasks) bool {
			return len(queryArgs(t, q)) == 0
		})).Return(0, nil)
		mockRepo.On("SelectWithUsers", mock.Anything, mock.Anything).Return([]model.Task{}, nil)

		service := NewTaskService(mockRepo)
		_, err := service.List(context.Background(), adminIdentity(), model.ListCriteria{})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("regular user query is scoped to creator or assignee", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Count", mock.Anything, mock.MatchedBy(func(q query.Tasks) bool {
			sql, args, err := q.CountSQL()
			return err == nil &&
				strings.Contains(sql, "created_by = $1 OR assigned_to = $2") &&
				len(args) == 2
		})).Return(0, nil)
		mockRepo.On("SelectWithUsers", mock.Anything, mock.Anything).Return([]model.Task{}, nil)

		service := NewTaskService(mockRepo)
		_, err := service.List(context.Background(), regularIdentity(7), model.ListCriteria{})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_List_Filters(t *testing.T) {
	ident := regularIdentity(7)

	tests := []struct {
		name     string
		criteria model.ListCriteria
		// Аргументы запроса после двух аргументов области видимости
		wantExtraArgs []any
	}{
		{
			name:          "valid status filter applied",
			criteria:      model.ListCriteria{Status: model.StatusPending},
			wantExtraArgs: []any{"pending"},
		},
		{
			name:          "unknown status silently ignored",
			criteria:      model.ListCriteria{Status: "archived"},
			wantExtraArgs: nil,
		},
		{
			name:          "unknown priority silently ignored",
			criteria:      model.ListCriteria{Priority: "critical"},
			wantExtraArgs: nil,
		},
		{
			name:          "search bound as pattern",
			criteria:      model.ListCriteria{Search: "deploy"},
			wantExtraArgs: []any{"%deploy%", "%deploy%"},
		},
		{
			name:          "assignee filter",
			criteria:      model.ListCriteria{AssignedTo: ptr(int64(3))},
			wantExtraArgs: []any{int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Count", mock.Anything, mock.MatchedBy(func(q query.Tasks) bool {
				args := queryArgs(t, q)
				want := append([]any{int64(7), int64(7)}, tt.wantExtraArgs...)
				return assert.ObjectsAreEqual(want, args)
			})).Return(0, nil)
			mockRepo.On("SelectWithUsers", mock.Anything, mock.Anything).Return([]model.Task{}, nil)

			service := NewTaskService(mockRepo)
			_, err := service.List(context.Background(), ident, tt.criteria)
			require.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List_Sorting(t *testing.T) {
	tests := []struct {
		name      string
		criteria  model.ListCriteria
		wantOrder string
	}{
		{
			name:      "defaults to created_at ascending",
			criteria:  model.ListCriteria{},
			wantOrder: "ORDER BY created_at ASC, id ASC",
		},
		{
			name:      "whitelisted column honored",
			criteria:  model.ListCriteria{SortBy: "due_date", SortOrder: "desc"},
			wantOrder: "ORDER BY due_date DESC, id DESC",
		},
		{
			name:      "unknown column falls back to created_at",
			criteria:  model.ListCriteria{SortBy: "password", SortOrder: "desc"},
			wantOrder: "ORDER BY created_at DESC, id DESC",
		},
		{
			name:      "only literal desc flips direction",
			criteria:  model.ListCriteria{SortBy: "title", SortOrder: "descending"},
			wantOrder: "ORDER BY title ASC, id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
			mockRepo.On("SelectWithUsers", mock.Anything, mock.MatchedBy(func(q query.Tasks) bool {
				sql, _, err := q.SelectSQL()
				return err == nil && strings.Contains(sql, tt.wantOrder)
			})).Return([]model.Task{}, nil)

			service := NewTaskService(mockRepo)
			_, err := service.List(context.Background(), adminIdentity(), tt.criteria)
			require.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List_Pagination(t *testing.T) {
	t.Run("meta for a middle page", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Count", mock.Anything, mock.Anything).Return(23, nil)
		mockRepo.On("SelectWithUsers", mock.Anything, mock.MatchedBy(func(q query.Tasks) bool {
			sql, _, err := q.SelectSQL()
			return err == nil && strings.Contains(sql, "LIMIT 10 OFFSET 10")
		})).Return(tasksOfLen(10), nil)

		service := NewTaskService(mockRepo)
		page, err := service.List(context.Background(), adminIdentity(), model.ListCriteria{Page: 2, PerPage: 10})
		require.NoError(t, err)

		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 3, page.LastPage)
		assert.Equal(t, 10, page.PerPage)
		assert.Equal(t, 23, page.Total)
		require.NotNil(t, page.From)
		require.NotNil(t, page.To)
		assert.Equal(t, 11, *page.From)
		assert.Equal(t, 20, *page.To)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty result has nil from and to", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
		mockRepo.On("SelectWithUsers", mock.Anything, mock.Anything).Return([]model.Task{}, nil)

		service := NewTaskService(mockRepo)
		page, err := service.List(context.Background(), adminIdentity(), model.ListCriteria{})
		require.NoError(t, err)

		assert.Equal(t, 1, page.LastPage)
		assert.Equal(t, 15, page.PerPage)
		assert.Nil(t, page.From)
		assert.Nil(t, page.To)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
	})

	t.Run("per_page above cap falls back to default", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
		mockRepo.On("SelectWithUsers", mock.Anything, mock.MatchedBy(func(q query.Tasks) bool {
			sql, _, err := q.SelectSQL()
			return err == nil && strings.Contains(sql, "LIMIT 15 OFFSET 0")
		})).Return([]model.Task{}, nil)

		service := NewTaskService(mockRepo)
		_, err := service.List(context.Background(), adminIdentity(), model.ListCriteria{PerPage: 500})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Get_Authorization(t *testing.T) {
	task := model.Task{ID: 5, Title: "Secret", CreatedBy: 2, AssignedTo: ptr(int64(3))}

	tests := []struct {
		name    string
		ident   model.Identity
		wantErr error
	}{
		{name: "admin", ident: adminIdentity()},
		{name: "creator", ident: regularIdentity(2)},
		{name: "assignee", ident: regularIdentity(3)},
		{name: "stranger", ident: regularIdentity(9), wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Get", mock.Anything, int64(5)).Return(task, nil)

			service := NewTaskService(mockRepo)
			_, err := service.Get(context.Background(), tt.ident, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTaskService_Get_NotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Get", mock.Anything, int64(404)).Return(model.Task{}, repo.ErrorNotFound)

	service := NewTaskService(mockRepo)
	_, err := service.Get(context.Background(), adminIdentity(), 404)
	assert.ErrorIs(t, err, repo.ErrorNotFound)
}

func TestTaskService_Update(t *testing.T) {
	stored := model.Task{ID: 5, Title: "Old", CreatedBy: 2, AssignedTo: ptr(int64(3))}

	t.Run("assignee may update including reassignment", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(5)).Return(stored, nil)
		mockRepo.On("Update", mock.Anything, int64(5), map[string]any{
			"title":       "New",
			"assigned_to": int64(8),
		}).Return(model.Task{ID: 5, Title: "New"}, nil)

		service := NewTaskService(mockRepo)
		_, err := service.Update(context.Background(), regularIdentity(3), 5, model.UpdateTaskRequest{
			Title:      ptr("New"),
			AssignedTo: ptr(int64(8)),
		})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stranger is rejected before validation", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(5)).Return(stored, nil)

		service := NewTaskService(mockRepo)
		_, err := service.Update(context.Background(), regularIdentity(9), 5, model.UpdateTaskRequest{
			Title: ptr("New"),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid status on update", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(5)).Return(stored, nil)

		service := NewTaskService(mockRepo)
		_, err := service.Update(context.Background(), regularIdentity(2), 5, model.UpdateTaskRequest{
			Status: ptr("done"),
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(5)).Return(stored, nil)

		service := NewTaskService(mockRepo)
		result, err := service.Update(context.Background(), regularIdentity(2), 5, model.UpdateTaskRequest{})
		require.NoError(t, err)
		assert.Equal(t, stored.Title, result.Title)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskService_Delete(t *testing.T) {
	stored := model.Task{ID: 5, CreatedBy: 2, AssignedTo: ptr(int64(3))}

	tests := []struct {
		name       string
		ident      model.Identity
		wantDelete bool
		wantErr    error
	}{
		{name: "admin", ident: adminIdentity(), wantDelete: true},
		{name: "creator", ident: regularIdentity(2), wantDelete: true},
		{name: "assignee cannot delete", ident: regularIdentity(3), wantErr: ErrForbidden},
		{name: "stranger", ident: regularIdentity(9), wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Get", mock.Anything, int64(5)).Return(stored, nil)
			if tt.wantDelete {
				mockRepo.On("Delete", mock.Anything, int64(5)).Return(nil)
			}

			service := NewTaskService(mockRepo)
			err := service.Delete(context.Background(), tt.ident, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func tasksOfLen(n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{ID: int64(i + 1), Title: "Task"}
	}
	return tasks
}

func ptr[T any](v T) *T {
	return &v
}
