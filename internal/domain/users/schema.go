package users

import (
	"strconv"

	"petstore-api/internal/query"
)

func Schema(maxPageSize int) query.Schema {
	return query.Schema{
		Filters: map[string][]string{
			"is_active":   query.BoolValues,
			"user_status": nil,
		},
		Order:        []string{"username", "email", "created_at"},
		DefaultOrder: "-created_at",
		MaxPageSize:  maxPageSize,
	}
}

// Collation: la búsqueda cubre username, email y nombres.
func Collation() query.Collation[User] {
	return query.Collation[User]{
		Filter: map[string]func(User, string) bool{
			"is_active": func(u User, v string) bool { return u.IsActive == (v == "true") },
			"user_status": func(u User, v string) bool {
				return strconv.Itoa(u.StatusCode) == v
			},
		},
		Search: func(u User) []string {
			return []string{u.Username, u.Email, u.FirstName, u.LastName}
		},
		Order: map[string]func(a, b User) int{
			"username":   func(a, b User) int { return compareStr(a.Username, b.Username) },
			"email":      func(a, b User) int { return compareStr(a.Email, b.Email) },
			"created_at": func(a, b User) int { return a.CreatedAt.Compare(b.CreatedAt) },
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
