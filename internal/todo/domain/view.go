package domain

import "time"

// View is the wire shape of a task, shared by the HTTP API and the event feed.
type View struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Urgency     Urgency   `json:"urgency"`
	DueDate     string    `json:"dueDate"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t Task) View() View {
	return View{
		ID:          string(t.ID),
		Owner:       t.Owner,
		Title:       t.Title,
		Description: t.Description,
		Urgency:     t.Urgency,
		DueDate:     formatDueDate(t.DueDate),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// formatDueDate renders midnight-UTC dates as YYYY-MM-DD and anything else as RFC 3339.
func formatDueDate(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(time.RFC3339)
}
