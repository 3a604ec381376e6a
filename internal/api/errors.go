package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies a failed API call.
type ErrorCode string

const (
	// CodeUnauthorized is a 401/403 response: the session is no longer valid.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// CodeRequest is any other non-success response.
	CodeRequest ErrorCode = "REQUEST"
	// CodeNetwork means no response was received at all.
	CodeNetwork ErrorCode = "NETWORK"
	// CodeDecode is a success response whose body could not be read.
	CodeDecode ErrorCode = "DECODE"
)

const networkMessage = "Network error, please try again"

// Error is returned by every Client operation that fails.
// Message is safe to show to the user.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// IsUnauthorized reports whether err means the session must be dropped.
func IsUnauthorized(err error) bool {
	return IsCode(err, CodeUnauthorized)
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// statusError converts a non-success response into an *Error, preferring the
// server's own message over fallback.
func statusError(status int, body []byte, fallback string) *Error {
	code := CodeRequest
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		code = CodeUnauthorized
	}

	msg := fallback
	if serverMsg := serverMessage(body); serverMsg != "" {
		msg = serverMsg
	}

	return &Error{Code: code, Status: status, Message: msg}
}

func serverMessage(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	if m := strings.TrimSpace(eb.Message); m != "" {
		return m
	}
	var s string
	if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &s) == nil {
		return strings.TrimSpace(s)
	}
	return ""
}
