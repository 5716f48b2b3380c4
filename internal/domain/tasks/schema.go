package tasks

import "petstore-api/internal/query"

// Schema declara filtros, orden y búsqueda de tasks.
// Es la misma definición para REST y GraphQL.
func Schema(maxPageSize int) query.Schema {
	return query.Schema{
		Filters: map[string][]string{
			"is_resolved": query.BoolValues,
		},
		Order:        []string{"created_at", "due_at", "title", "is_resolved"},
		DefaultOrder: "-created_at",
		MaxPageSize:  maxPageSize,
	}
}

// Collation evalúa planes de tasks en memoria.
// La búsqueda cubre title y description.
func Collation() query.Collation[Task] {
	return query.Collation[Task]{
		Filter: map[string]func(Task, string) bool{
			"is_resolved": func(t Task, v string) bool {
				return t.IsResolved == (v == "true")
			},
		},
		Search: func(t Task) []string {
			return []string{t.Title, t.Description}
		},
		Order: map[string]func(a, b Task) int{
			"created_at":  func(a, b Task) int { return a.CreatedAt.Compare(b.CreatedAt) },
			"title":       func(a, b Task) int { return compareStr(a.Title, b.Title) },
			"is_resolved": func(a, b Task) int { return compareBool(a.IsResolved, b.IsResolved) },
			"due_at": func(a, b Task) int {
				// nil al final, como NULLS LAST
				switch {
				case a.DueAt == nil && b.DueAt == nil:
					return 0
				case a.DueAt == nil:
					return 1
				case b.DueAt == nil:
					return -1
				default:
					return a.DueAt.Compare(*b.DueAt)
				}
			},
		},
	}
}

func compareStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
