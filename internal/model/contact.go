package model

import "time"

// Contact is a submitted contact-form message, optionally tied to the
// authenticated user who sent it.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	UserID    *int64
	CreatedAt time.Time
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
