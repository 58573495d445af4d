package models

import "time"

// Task is a to-do record owned by exactly one user.
type Task struct {
	ID        int64
	UserID    int64
	Title     string
	Body      string
	CreatedAt time.Time
}
