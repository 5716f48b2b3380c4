package query

import (
	"sort"
	"strconv"
	"strings"

	"petstore-api/internal/validate"
)

const DefaultPageSize = 10

// BoolValues son los literales aceptados para filtros booleanos.
var BoolValues = []string{"true", "false"}

// Schema declara, por recurso, qué se puede filtrar, buscar y ordenar.
// Es la única fuente de verdad: REST y GraphQL compilan contra el mismo Schema.
type Schema struct {
	// Filters: campo -> literales permitidos. nil = cualquier valor no vacío
	// (p.ej. filtros por id de referencia).
	Filters map[string][]string

	// Order: campos ordenables. DefaultOrder admite prefijo '-' para descendente.
	Order        []string
	DefaultOrder string

	MaxPageSize int
}

// Params son los parámetros crudos tal como llegan del transporte
// (query string HTTP o argumentos GraphQL formateados a string).
type Params struct {
	Filters  map[string]string
	Search   string
	Ordering string
	Page     string
	PageSize string
}

// Compile valida Params contra el Schema y produce el Plan.
// Campos de filtro u orden desconocidos se rechazan, nunca se ignoran.
// Un valor de filtro fuera de los literales permitidos es error de validación,
// no un resultado vacío.
func Compile(s Schema, in Params) (Plan, error) {
	var verr validate.Errors
	var p Plan

	// Filtros: claves ordenadas para que plan y errores sean deterministas.
	keys := make([]string, 0, len(in.Filters))
	for k := range in.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		allowed, ok := s.Filters[field]
		if !ok {
			verr.Add(field, "unknown filter field")
			continue
		}
		value := strings.ToLower(strings.TrimSpace(in.Filters[field]))
		if value == "" {
			verr.Add(field, "filter value cannot be empty")
			continue
		}
		if allowed != nil && !contains(allowed, value) {
			verr.Add(field, "invalid value %q, must be one of: %s", value, strings.Join(allowed, ", "))
			continue
		}
		p.Filters = append(p.Filters, Filter{Field: field, Value: value})
	}

	p.Search = strings.ToLower(strings.TrimSpace(in.Search))

	// Ordering: "campo" o "-campo"; vacío usa el default del recurso.
	ordering := strings.TrimSpace(in.Ordering)
	if ordering == "" {
		ordering = s.DefaultOrder
	}
	if ordering != "" {
		field := ordering
		if strings.HasPrefix(field, "-") {
			p.Desc = true
			field = field[1:]
		}
		if !contains(s.Order, field) {
			verr.Add("ordering", "unknown order field %q, must be one of: %s", field, strings.Join(s.Order, ", "))
		} else {
			p.OrderField = field
		}
	}

	p.Page = parsePositive(&verr, "page", in.Page, 1)
	p.PageSize = parsePositive(&verr, "page_size", in.PageSize, DefaultPageSize)

	// page_size se acota al máximo configurado, no es error pedir de más.
	max := s.MaxPageSize
	if max <= 0 {
		max = 100
	}
	if p.PageSize > max {
		p.PageSize = max
	}

	if verr.Has() {
		return Plan{}, verr
	}
	return p, nil
}

func parsePositive(verr *validate.Errors, field, raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		verr.Add(field, "must be a positive integer")
		return def
	}
	return n
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
