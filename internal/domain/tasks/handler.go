package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petstore-api/internal/api"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/tasks", func(tr chi.Router) {
		tr.Get("/", listTasksHandler(svc.List))
		tr.Post("/", createTaskHandler(svc))

		// Atajos de listado; van antes que /{taskID} (chi prioriza estáticos)
		tr.Get("/resolved", listTasksHandler(svc.ListResolved))
		tr.Get("/unresolved", listTasksHandler(svc.ListUnresolved))
		tr.Get("/overdue", listTasksHandler(svc.ListOverdue))

		tr.Get("/{taskID}", getTaskHandler(svc))
		tr.Put("/{taskID}", updateTaskHandler(svc, false))
		tr.Patch("/{taskID}", updateTaskHandler(svc, true))
		tr.Delete("/{taskID}", deleteTaskHandler(svc))
		tr.Post("/{taskID}/toggle", toggleTaskHandler(svc))
	})
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

func queryParams(r *http.Request) query.Params {
	q := r.URL.Query()

	filters := map[string]string{}
	if q.Has("is_resolved") {
		filters["is_resolved"] = q.Get("is_resolved")
	}

	return query.Params{
		Filters:  filters,
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Page:     q.Get("page"),
		PageSize: q.Get("page_size"),
	}
}

type listFn func(ctx context.Context, in query.Params) ([]Task, query.PageInfo, error)

func listTasksHandler(list listFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, info, err := list(r.Context(), queryParams(r))
		if err != nil {
			writeTaskError(w, err)
			return
		}

		out := make([]ListView, 0, len(items))
		for _, t := range items {
			out = append(out, ToListView(t))
		}
		api.WriteList(w, r, out, info)
	}
}

func createTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.Create(r.Context(), CreateInput{
			Title:       req.Title,
			Description: req.Description,
			DueAt:       req.DueAt,
		})
		if err != nil {
			writeTaskError(w, err)
			return
		}

		api.WriteJSON(w, http.StatusCreated, ToDetailView(t))
	}
}

func getTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetByID(r.Context(), chi.URLParam(r, "taskID"))
		if err != nil {
			writeTaskError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToDetailView(t))
	}
}

// updateTaskHandler maneja PUT (completo) y PATCH (parcial).
// Para distinguir "due_at": null de "no enviado" en PATCH se decodifica
// primero a map de RawMessage.
func updateTaskHandler(svc *Service, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, ok := updateInput(w, raw, partial)
		if !ok {
			return
		}

		t, err := svc.Update(r.Context(), chi.URLParam(r, "taskID"), in)
		if err != nil {
			writeTaskError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToDetailView(t))
	}
}

func updateInput(w http.ResponseWriter, raw map[string]json.RawMessage, partial bool) (UpdateInput, bool) {
	var in UpdateInput

	decodeField := func(key string, dst any) bool {
		v, exists := raw[key]
		if !exists {
			if !partial && (key == "title") {
				// PUT exige el campo requerido
				var verr validate.Errors
				verr.Add(key, "field is required")
				api.WriteValidation(w, verr)
				return false
			}
			return true
		}
		if err := json.Unmarshal(v, dst); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid value for "+key)
			return false
		}
		return true
	}

	if !decodeField("title", &in.Title) {
		return in, false
	}
	if !decodeField("description", &in.Description) {
		return in, false
	}
	if !decodeField("is_resolved", &in.IsResolved) {
		return in, false
	}

	if v, exists := raw["due_at"]; exists {
		in.DueAt.Set = true
		if string(v) != "null" {
			var t time.Time
			if err := json.Unmarshal(v, &t); err != nil {
				api.WriteError(w, http.StatusBadRequest, "due_at must be RFC3339 or null")
				return in, false
			}
			in.DueAt.Value = &t
		}
	} else if !partial {
		// PUT sin due_at lo limpia
		in.DueAt.Set = true
	}

	return in, true
}

func deleteTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "taskID")); err != nil {
			writeTaskError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toggleTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.ToggleResolved(r.Context(), chi.URLParam(r, "taskID"))
		if err != nil {
			writeTaskError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToDetailView(t))
	}
}

func writeTaskError(w http.ResponseWriter, err error) {
	if verr, ok := validate.AsErrors(err); ok {
		api.WriteValidation(w, verr)
		return
	}
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "task not found")
		return
	}
	api.WriteError(w, http.StatusInternalServerError, "internal error")
}
