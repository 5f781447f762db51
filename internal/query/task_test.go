package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jabatayo/task-management-api/internal/model"
)

func admin() model.Identity {
	return model.Identity{ID: 1, IsAdmin: true}
}

func regular(id int64) model.Identity {
	return model.Identity{ID: id}
}

func TestTasks_VisibleTo(t *testing.T) {
	t.Run("admin sees everything", func(t *testing.T) {
		sql, args, err := NewTasks().VisibleTo(admin()).SelectSQL()
		require.NoError(t, err)
		assert.NotContains(t, sql, "WHERE")
		assert.Empty(t, args)
	})

	t.Run("regular user is scoped to own tasks", func(t *testing.T) {
		sql, args, err := NewTasks().VisibleTo(regular(7)).SelectSQL()
		require.NoError(t, err)
		assert.Contains(t, sql, "created_by = $1 OR assigned_to = $2")
		assert.Equal(t, []any{int64(7), int64(7)}, args)
	})
}

func TestTasks_Filters(t *testing.T) {
	tests := []struct {
		name     string
		q        Tasks
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "status",
			q:        NewTasks().WithStatus(model.StatusCompleted),
			wantSQL:  "status = $1",
			wantArgs: []any{"completed"},
		},
		{
			name:     "not status",
			q:        NewTasks().WithoutStatus(model.StatusCompleted),
			wantSQL:  "status <> $1",
			wantArgs: []any{"completed"},
		},
		{
			name:     "priority",
			q:        NewTasks().WithPriority(model.PriorityUrgent),
			wantSQL:  "priority = $1",
			wantArgs: []any{"urgent"},
		},
		{
			name:     "assignee",
			q:        NewTasks().AssignedTo(42),
			wantSQL:  "assigned_to = $1",
			wantArgs: []any{int64(42)},
		},
		{
			name:     "search matches title or description case-insensitively",
			q:        NewTasks().Search("deploy"),
			wantSQL:  "title ILIKE $1 OR description ILIKE $2",
			wantArgs: []any{"%deploy%", "%deploy%"},
		},
		{
			name:     "due before is a date comparison",
			q:        NewTasks().DueBefore(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
			wantSQL:  "due_date < $1",
			wantArgs: []any{"2026-03-15"},
		},
		{
			name: "due between is inclusive on both ends",
			q: NewTasks().DueBetween(
				time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
			),
			wantSQL:  "due_date >= $1 AND due_date <= $2",
			wantArgs: []any{"2026-03-15", "2026-03-22"},
		},
		{
			name:     "took time excludes instantly completed rows",
			q:        NewTasks().TookTime(),
			wantSQL:  "created_at <> updated_at",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.q.SelectSQL()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantSQL)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestTasks_WithDueDate(t *testing.T) {
	sql, args, err := NewTasks().WithDueDate().SelectSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "due_date IS NOT NULL")
	assert.Empty(t, args)
}

func TestTasks_OrderAndPaging(t *testing.T) {
	sql, _, err := NewTasks().
		OrderBy("created_at DESC", "id DESC").
		LimitOffset(15, 30).
		SelectSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, sql, "LIMIT 15 OFFSET 30")
}

func TestTasks_CountIgnoresOrderAndPaging(t *testing.T) {
	sql, args, err := NewTasks().
		VisibleTo(regular(3)).
		OrderBy("due_date ASC").
		Limit(5).
		CountSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "COUNT(*)")
	assert.NotContains(t, sql, "ORDER BY")
	assert.NotContains(t, sql, "LIMIT")
	assert.Len(t, args, 2)
}

// Ветвление от общего scoped-запроса не должно загрязнять соседние ветки.
func TestTasks_BranchesDoNotShareState(t *testing.T) {
	base := NewTasks().VisibleTo(regular(9))

	completed := base.WithStatus(model.StatusCompleted)
	pending := base.WithStatus(model.StatusPending)

	_, completedArgs, err := completed.CountSQL()
	require.NoError(t, err)
	_, pendingArgs, err := pending.CountSQL()
	require.NoError(t, err)
	_, baseArgs, err := base.CountSQL()
	require.NoError(t, err)

	assert.Equal(t, []any{int64(9), int64(9), "completed"}, completedArgs)
	assert.Equal(t, []any{int64(9), int64(9), "pending"}, pendingArgs)
	// Базовый запрос остался нетронутым
	assert.Equal(t, []any{int64(9), int64(9)}, baseArgs)
}
