// Package events pushes task changes to the owner's open websocket connections.
package events

import "github.com/AlibekovAA/tasktrack/internal/todo/domain"

type Type string

const (
	TypeCreated  Type = "created"
	TypeUpdated  Type = "updated"
	TypeToggled  Type = "toggled"
	TypeDeleted  Type = "deleted"
	TypeShutdown Type = "shutdown"
)

// Event carries the full task for created, updated and toggled, and only the id for deleted.
type Event struct {
	Type Type         `json:"type"`
	Task *domain.View `json:"task,omitempty"`
	ID   string       `json:"id,omitempty"`
}

func TaskChanged(t Type, task domain.Task) Event {
	view := task.View()
	return Event{Type: t, Task: &view}
}

func TaskDeleted(id domain.ID) Event {
	return Event{Type: TypeDeleted, ID: string(id)}
}
