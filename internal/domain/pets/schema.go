package pets

import "petstore-api/internal/query"

// PetSchema: filtros por status (enum) y category (id libre); búsqueda
// por nombre de mascota y nombres de tags; orden por name/created_at/status.
func PetSchema(maxPageSize int) query.Schema {
	return query.Schema{
		Filters: map[string][]string{
			"status":   Statuses(),
			"category": nil,
		},
		Order:        []string{"name", "created_at", "status"},
		DefaultOrder: "-created_at",
		MaxPageSize:  maxPageSize,
	}
}

// NameSchema la comparten categories y tags: sin filtros, búsqueda y
// orden por nombre.
func NameSchema(maxPageSize int) query.Schema {
	return query.Schema{
		Filters:      map[string][]string{},
		Order:        []string{"name", "id"},
		DefaultOrder: "name",
		MaxPageSize:  maxPageSize,
	}
}

// PetCollation evalúa planes de pets en memoria. tagNames resuelve los
// nombres de los tags del pet para la búsqueda (la aporta el repo, que
// tiene acceso al set de tags).
func PetCollation(tagNames func(Pet) []string) query.Collation[Pet] {
	return query.Collation[Pet]{
		Filter: map[string]func(Pet, string) bool{
			"status": func(p Pet, v string) bool { return string(p.Status) == v },
			"category": func(p Pet, v string) bool {
				return p.CategoryID != nil && *p.CategoryID == v
			},
		},
		Search: func(p Pet) []string {
			return append([]string{p.Name}, tagNames(p)...)
		},
		Order: map[string]func(a, b Pet) int{
			"name":       func(a, b Pet) int { return compareStr(a.Name, b.Name) },
			"created_at": func(a, b Pet) int { return a.CreatedAt.Compare(b.CreatedAt) },
			"status":     func(a, b Pet) int { return compareStr(string(a.Status), string(b.Status)) },
		},
	}
}

func CategoryCollation() query.Collation[Category] {
	return query.Collation[Category]{
		Filter: map[string]func(Category, string) bool{},
		Search: func(c Category) []string { return []string{c.Name} },
		Order: map[string]func(a, b Category) int{
			"name": func(a, b Category) int { return compareStr(a.Name, b.Name) },
			"id":   func(a, b Category) int { return compareStr(a.ID, b.ID) },
		},
	}
}

func TagCollation() query.Collation[Tag] {
	return query.Collation[Tag]{
		Filter: map[string]func(Tag, string) bool{},
		Search: func(t Tag) []string { return []string{t.Name} },
		Order: map[string]func(a, b Tag) int{
			"name": func(a, b Tag) int { return compareStr(a.Name, b.Name) },
			"id":   func(a, b Tag) int { return compareStr(a.ID, b.ID) },
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
