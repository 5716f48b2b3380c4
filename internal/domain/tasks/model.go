package tasks

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("task not found")
)

// Task es un ítem de trabajo con resolución booleana y vencimiento opcional.
type Task struct {
	ID          string
	Title       string
	Description string
	DueAt       *time.Time
	IsResolved  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue: sin resolver y con due_at anterior a now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsResolved && t.DueAt != nil && t.DueAt.Before(now)
}

// ListView es la proyección liviana para listados: sin description.
type ListView struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	DueAt      *time.Time `json:"due_at"`
	IsResolved bool       `json:"is_resolved"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DetailView es la proyección completa; la devuelven detail, create,
// update y toggle. La comparten REST y GraphQL.
type DetailView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	IsResolved  bool       `json:"is_resolved"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToListView(t Task) ListView {
	return ListView{
		ID:         t.ID,
		Title:      t.Title,
		DueAt:      t.DueAt,
		IsResolved: t.IsResolved,
		CreatedAt:  t.CreatedAt,
	}
}

func ToDetailView(t Task) DetailView {
	return DetailView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueAt:       t.DueAt,
		IsResolved:  t.IsResolved,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
