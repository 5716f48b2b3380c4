package query

import (
	"sort"
	"strings"
)

// Collation define cómo se evalúa un Plan sobre un recurso en memoria:
// predicados de filtro, textos de búsqueda y comparadores de orden.
// Debe cubrir los mismos campos que el Schema con el que se compiló el Plan.
type Collation[T any] struct {
	Filter map[string]func(item T, value string) bool
	Search func(item T) []string
	Order  map[string]func(a, b T) int
}

// Run ejecuta el Plan sobre items (en orden de inserción) y devuelve la
// página pedida más la metadata. El total se calcula antes de recortar.
//
// Desempate: el sort es estable sobre el orden de inserción, así que items
// con el mismo valor en el campo de orden conservan su orden de creación.
func Run[T any](p Plan, items []T, c Collation[T]) ([]T, PageInfo) {
	matched := make([]T, 0, len(items))

	for _, it := range items {
		if !matchFilters(p, it, c) {
			continue
		}
		if p.Search != "" && !matchSearch(p.Search, it, c) {
			continue
		}
		matched = append(matched, it)
	}

	if cmp, ok := c.Order[p.OrderField]; ok && p.OrderField != "" {
		less := func(i, j int) bool { return cmp(matched[i], matched[j]) < 0 }
		if p.Desc {
			// se invierte solo el comparador; la estabilidad mantiene
			// el orden de inserción en los empates
			less = func(i, j int) bool { return cmp(matched[i], matched[j]) > 0 }
		}
		sort.SliceStable(matched, less)
	}

	total := len(matched)
	lo, hi := p.Window(total)
	return matched[lo:hi], p.PageInfo(total)
}

func matchFilters[T any](p Plan, it T, c Collation[T]) bool {
	for _, f := range p.Filters {
		pred, ok := c.Filter[f.Field]
		if !ok || !pred(it, f.Value) {
			return false
		}
	}
	return true
}

func matchSearch[T any](term string, it T, c Collation[T]) bool {
	if c.Search == nil {
		return false
	}
	for _, text := range c.Search(it) {
		if strings.Contains(strings.ToLower(text), term) {
			return true
		}
	}
	return false
}
