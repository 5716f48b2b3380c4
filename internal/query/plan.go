package query

// Filter es un predicado de igualdad ya validado contra el whitelist del recurso.
type Filter struct {
	Field string
	Value string
}

// Plan es el resultado de Compile: parámetros resueltos y validados,
// listos para ejecutar contra cualquier store (memoria o SQL).
// Es un value object puro; se puede inspeccionar y testear sin store.
type Plan struct {
	Filters []Filter

	// Search ya viene en minúsculas; match por substring, no por tokens.
	Search string

	OrderField string
	Desc       bool

	Page     int
	PageSize int
}

// Window devuelve los índices [lo, hi) de la página pedida sobre un total,
// acotados al rango válido.
func (p Plan) Window(total int) (int, int) {
	lo := (p.Page - 1) * p.PageSize
	if lo > total {
		lo = total
	}
	hi := lo + p.PageSize
	if hi > total {
		hi = total
	}
	return lo, hi
}

// PageInfo describe la página devuelta.
type PageInfo struct {
	Total       int
	Page        int
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

// PageInfo calcula la metadata de paginación para un total dado.
// HasNext ⇔ page*page_size < total; HasPrevious ⇔ page > 1.
func (p Plan) PageInfo(total int) PageInfo {
	return PageInfo{
		Total:       total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		HasNext:     p.Page*p.PageSize < total,
		HasPrevious: p.Page > 1,
	}
}
