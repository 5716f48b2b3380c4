// Package api tiene los helpers de respuesta compartidos por los handlers REST.
// Están acá y no duplicados por módulo porque los usan los cinco recursos.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteValidation responde 400 con la lista estructurada de errores de campo.
func WriteValidation(w http.ResponseWriter, verr validate.Errors) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{"errors": verr})
}

// Envelope es el sobre de paginación REST.
type Envelope struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// WriteList arma el sobre {count, next, previous, results}; next/previous
// son URLs sobre el mismo path con page ajustado, o null en los bordes.
func WriteList(w http.ResponseWriter, r *http.Request, results any, info query.PageInfo) {
	env := Envelope{
		Count:   info.Total,
		Results: results,
	}
	if info.HasNext {
		env.Next = pageURL(r.URL, info.Page+1)
	}
	if info.HasPrevious {
		env.Previous = pageURL(r.URL, info.Page-1)
	}
	WriteJSON(w, http.StatusOK, env)
}

func pageURL(u *url.URL, page int) *string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))

	link := url.URL{Path: u.Path, RawQuery: q.Encode()}
	s := link.String()
	return &s
}
