package domain

import (
	"errors"
	"strings"
	"time"
)

type ID string

type Urgency string

const (
	UrgencyImportant    Urgency = "important"
	UrgencyNormal       Urgency = "normal"
	UrgencyNotImportant Urgency = "not-important"
)

const DateLayout = "2006-01-02"

var (
	ErrUnknownUrgency = errors.New("unknown urgency")
	ErrInvalidDueDate = errors.New("invalid due date")
)

// Task is owned by exactly one identity. Owner never changes after creation.
type Task struct {
	ID          ID
	Owner       string
	Title       string
	Description string
	Urgency     Urgency
	DueDate     time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParseUrgency maps user input to an Urgency. Empty input is UrgencyNormal and
// "not important" is accepted for UrgencyNotImportant.
func ParseUrgency(value string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return UrgencyNormal, nil
	case string(UrgencyImportant):
		return UrgencyImportant, nil
	case string(UrgencyNormal):
		return UrgencyNormal, nil
	case string(UrgencyNotImportant), "not important":
		return UrgencyNotImportant, nil
	default:
		return "", ErrUnknownUrgency
	}
}

// ParseDueDate accepts a calendar date or an RFC 3339 timestamp and returns it in UTC.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDueDate
}
