package model

import "time"

// Wire formats for the external contract: second-precision timestamps and
// date-only due dates.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// UserResource is the nested user projection inside task payloads. Credential
// fields are never included.
type UserResource struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// TaskResource is the externally visible task projection.
type TaskResource struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Description    *string       `json:"description"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority"`
	DueDate        *string       `json:"due_date"`
	Tags           []string      `json:"tags"`
	CreatedBy      int64         `json:"created_by"`
	AssignedTo     *int64        `json:"assigned_to"`
	CreatedByUser  *UserResource `json:"created_by_user"`
	AssignedToUser *UserResource `json:"assigned_to_user"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

func (u User) Resource() UserResource {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResource{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt.Format(TimestampLayout),
		UpdatedAt: u.UpdatedAt.Format(TimestampLayout),
	}
}

func (t Task) Resource() TaskResource {
	res := TaskResource{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Tags:        t.Tags,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt.Format(TimestampLayout),
		UpdatedAt:   t.UpdatedAt.Format(TimestampLayout),
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(DateLayout)
		res.DueDate = &d
	}
	if t.CreatedByUser != nil {
		u := t.CreatedByUser.Resource()
		res.CreatedByUser = &u
	}
	if t.AssignedToUser != nil {
		u := t.AssignedToUser.Resource()
		res.AssignedToUser = &u
	}
	return res
}

// ParseDate parses a date-only string in the wire format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
