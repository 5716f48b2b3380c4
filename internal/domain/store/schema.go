package store

import "petstore-api/internal/query"

// Schema de orders: filtros por status/complete/user, sin búsqueda,
// orden por created_at/status/ship_at.
func Schema(maxPageSize int) query.Schema {
	return query.Schema{
		Filters: map[string][]string{
			"status":   Statuses(),
			"complete": query.BoolValues,
			"user":     nil,
		},
		Order:        []string{"created_at", "status", "ship_at"},
		DefaultOrder: "-created_at",
		MaxPageSize:  maxPageSize,
	}
}

func Collation() query.Collation[Order] {
	return query.Collation[Order]{
		Filter: map[string]func(Order, string) bool{
			"status":   func(o Order, v string) bool { return string(o.Status) == v },
			"complete": func(o Order, v string) bool { return o.Complete == (v == "true") },
			"user":     func(o Order, v string) bool { return o.UserID != nil && *o.UserID == v },
		},
		Order: map[string]func(a, b Order) int{
			"created_at": func(a, b Order) int { return a.CreatedAt.Compare(b.CreatedAt) },
			"status":     func(a, b Order) int { return compareStr(string(a.Status), string(b.Status)) },
			"ship_at": func(a, b Order) int {
				switch {
				case a.ShipAt == nil && b.ShipAt == nil:
					return 0
				case a.ShipAt == nil:
					return 1
				case b.ShipAt == nil:
					return -1
				default:
					return a.ShipAt.Compare(*b.ShipAt)
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
