// Package query builds task queries as immutable values. Every method
// returns a new Tasks value, so a scoped base query can be branched into
// many sub-queries without the branches contaminating each other.
package query

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jabatayo/task-management-api/internal/model"
)

// Columns selected for full task rows, in scan order.
var taskColumns = []string{
	"id", "title", "description", "status", "priority",
	"due_date", "tags", "created_by", "assigned_to", "created_at", "updated_at",
}

// Tasks is a declarative query over the tasks table: a conjunction of
// predicates plus sort and limit/offset. Zero value selects everything.
type Tasks struct {
	where   sq.And
	orderBy []string
	limit   uint64
	offset  uint64
	paged   bool
}

func NewTasks() Tasks {
	return Tasks{}
}

// and appends a predicate onto a copy of the condition list. The copy keeps
// branched queries from sharing a backing array.
func (q Tasks) and(pred sq.Sqlizer) Tasks {
	where := make(sq.And, 0, len(q.where)+1)
	where = append(where, q.where...)
	q.where = append(where, pred)
	return q
}

// VisibleTo narrows the query to what the caller may see. Administrators see
// everything; everyone else only tasks they created or are assigned to. This
// is the hard security boundary and must be applied before any other filter.
func (q Tasks) VisibleTo(ident model.Identity) Tasks {
	if ident.IsAdmin {
		return q
	}
	return q.and(sq.Or{
		sq.Eq{"created_by": ident.ID},
		sq.Eq{"assigned_to": ident.ID},
	})
}

func (q Tasks) WithStatus(status string) Tasks {
	return q.and(sq.Eq{"status": status})
}

func (q Tasks) WithoutStatus(status string) Tasks {
	return q.and(sq.NotEq{"status": status})
}

func (q Tasks) WithPriority(priority string) Tasks {
	return q.and(sq.Eq{"priority": priority})
}

func (q Tasks) AssignedTo(userID int64) Tasks {
	return q.and(sq.Eq{"assigned_to": userID})
}

// Search matches the term case-insensitively as a substring of the title or
// description. The term is always bound as a parameter.
func (q Tasks) Search(term string) Tasks {
	pattern := "%" + term + "%"
	return q.and(sq.Or{
		sq.ILike{"title": pattern},
		sq.ILike{"description": pattern},
	})
}

func (q Tasks) CreatedBetween(from, to time.Time) Tasks {
	return q.and(sq.And{
		sq.GtOrEq{"created_at": from},
		sq.LtOrEq{"created_at": to},
	})
}

func (q Tasks) UpdatedBetween(from, to time.Time) Tasks {
	return q.and(sq.And{
		sq.GtOrEq{"updated_at": from},
		sq.LtOrEq{"updated_at": to},
	})
}

// TookTime keeps tasks whose updated_at moved past created_at, excluding
// rows that were completed at the instant they were created.
func (q Tasks) TookTime() Tasks {
	return q.and(sq.Expr("created_at <> updated_at"))
}

func (q Tasks) WithDueDate() Tasks {
	return q.and(sq.NotEq{"due_date": nil})
}

func (q Tasks) DueBefore(day time.Time) Tasks {
	return q.and(sq.Lt{"due_date": day.Format(model.DateLayout)})
}

func (q Tasks) DueBetween(from, to time.Time) Tasks {
	return q.and(sq.And{
		sq.GtOrEq{"due_date": from.Format(model.DateLayout)},
		sq.LtOrEq{"due_date": to.Format(model.DateLayout)},
	})
}

// OrderBy replaces the sort order. Column names come from a whitelist at the
// call sites; they are never user input verbatim.
func (q Tasks) OrderBy(exprs ...string) Tasks {
	q.orderBy = exprs
	return q
}

func (q Tasks) Limit(n uint64) Tasks {
	q.limit = n
	q.paged = true
	return q
}

func (q Tasks) LimitOffset(limit, offset uint64) Tasks {
	q.limit = limit
	q.offset = offset
	q.paged = true
	return q
}

// SelectSQL renders the full-row select.
func (q Tasks) SelectSQL() (string, []any, error) {
	b := sq.Select(taskColumns...).
		From("tasks").
		PlaceholderFormat(sq.Dollar)
	if len(q.where) > 0 {
		b = b.Where(q.where)
	}
	if len(q.orderBy) > 0 {
		b = b.OrderBy(q.orderBy...)
	}
	if q.paged {
		b = b.Limit(q.limit).Offset(q.offset)
	}
	return b.ToSql()
}

// CountSQL renders a count over the same predicates; sort and pagination do
// not apply to counts.
func (q Tasks) CountSQL() (string, []any, error) {
	b := sq.Select("COUNT(*)").
		From("tasks").
		PlaceholderFormat(sq.Dollar)
	if len(q.where) > 0 {
		b = b.Where(q.where)
	}
	return b.ToSql()
}
