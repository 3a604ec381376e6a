// Package api is the HTTP client for the remote task-manager API.
package api

import (
	"encoding/json"
	"time"
)

// User is the authenticated account as reported by /api/auth/profile.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts the identifier as either "id" or "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.alias)
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	return nil
}

// Task is a single task record owned by the server.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// UnmarshalJSON accepts the identifier as either "id" or "_id".
// createdAt is display-only: a missing or unparseable value leaves
// CreatedAt zero instead of rejecting the task.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var raw struct {
		alias
		MongoID   string          `json:"_id"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task(raw.alias)
	if t.ID == "" {
		t.ID = raw.MongoID
	}
	t.CreatedAt = parseCreatedAt(raw.CreatedAt)
	return nil
}

func parseCreatedAt(data json.RawMessage) time.Time {
	var s string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil || s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// TaskInput is the writable part of a Task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AuthResult is the body of a successful login or signup.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorBody is the failure payload; servers use either field.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}
