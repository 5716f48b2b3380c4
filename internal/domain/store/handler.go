package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petstore-api/internal/api"
	"petstore-api/internal/domain/pets"
	"petstore-api/internal/middleware"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/orders", func(or chi.Router) {
		// Inventario abierto; el resto exige principal.
		or.Get("/inventory", inventoryHandler(svc))

		or.Get("/", requireAuth(listOrdersHandler(svc)))
		or.Post("/", requireAuth(createOrderHandler(svc)))
		or.Get("/{orderID}", requireAuth(getOrderHandler(svc)))
		or.Put("/{orderID}", requireAuth(updateOrderHandler(svc)))
		or.Patch("/{orderID}", requireAuth(updateOrderHandler(svc)))
		or.Delete("/{orderID}", requireAuth(deleteOrderHandler(svc)))
	})
}

func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			api.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

type createOrderRequest struct {
	PetID    string     `json:"pet_id"`
	Quantity *int       `json:"quantity"`
	ShipAt   *time.Time `json:"ship_at"`
	Status   string     `json:"status"`
	Complete bool       `json:"complete"`
}

func listOrdersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters := map[string]string{}
		for _, f := range []string{"status", "complete", "user"} {
			if q.Has(f) {
				filters[f] = q.Get(f)
			}
		}

		items, info, err := svc.List(r.Context(), query.Params{
			Filters:  filters,
			Ordering: q.Get("ordering"),
			Page:     q.Get("page"),
			PageSize: q.Get("page_size"),
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		out, err := svc.Views(r.Context(), items)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		api.WriteList(w, r, out, info)
	}
}

func createOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		// la orden queda asociada al principal autenticado
		var userID *string
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			uid := claims.UserID
			userID = &uid
		}

		o, err := svc.Create(r.Context(), CreateInput{
			PetID:    req.PetID,
			Quantity: req.Quantity,
			ShipAt:   req.ShipAt,
			Status:   req.Status,
			Complete: req.Complete,
			UserID:   userID,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeOrderView(w, r, svc, http.StatusCreated, o)
	}
}

func getOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeOrderView(w, r, svc, http.StatusOK, o)
	}
}

func updateOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var in UpdateInput

		if v, exists := raw["quantity"]; exists {
			if err := json.Unmarshal(v, &in.Quantity); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for quantity")
				return
			}
		}
		if v, exists := raw["status"]; exists {
			if err := json.Unmarshal(v, &in.Status); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for status")
				return
			}
		}
		if v, exists := raw["complete"]; exists {
			if err := json.Unmarshal(v, &in.Complete); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for complete")
				return
			}
		}
		if v, exists := raw["ship_at"]; exists {
			in.ShipAt.Set = true
			if string(v) != "null" {
				var t time.Time
				if err := json.Unmarshal(v, &t); err != nil {
					api.WriteError(w, http.StatusBadRequest, "ship_at must be RFC3339 or null")
					return
				}
				in.ShipAt.Value = &t
			}
		}

		o, err := svc.Update(r.Context(), chi.URLParam(r, "orderID"), in)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeOrderView(w, r, svc, http.StatusOK, o)
	}
}

func deleteOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "orderID")); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func inventoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.Inventory(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, inv)
	}
}

func writeOrderView(w http.ResponseWriter, r *http.Request, svc *Service, status int, o Order) {
	v, err := svc.View(r.Context(), o)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	api.WriteJSON(w, status, v)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if verr, ok := validate.AsErrors(err); ok {
		api.WriteValidation(w, verr)
		return
	}
	switch {
	case errors.Is(err, ErrOrderComplete):
		// guarda violada: se rechaza, nunca se ignora en silencio
		api.WriteError(w, http.StatusBadRequest, "Cannot delete a completed order")
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, pets.ErrPetNotFound):
		api.WriteError(w, http.StatusNotFound, "pet not found")
	default:
		api.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
