package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"petstore-api/internal/api"
	"petstore-api/internal/middleware"
	"petstore-api/internal/ports/auth"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		// el registro es abierto; el resto exige principal
		ur.Post("/", createUserHandler(svc))

		ur.Get("/", requireAuth(listUsersHandler(svc)))
		ur.Get("/me", requireAuth(meHandler(svc)))
		ur.Get("/{userID}", requireAuth(getUserHandler(svc)))
		ur.Put("/{userID}", requireAuth(updateUserHandler(svc)))
		ur.Patch("/{userID}", requireAuth(updateUserHandler(svc)))
		ur.Delete("/{userID}", requireAuth(deleteUserHandler(svc)))
	})
}

func requireAuth(next func(w http.ResponseWriter, r *http.Request, claims auth.Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			api.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, claims)
	}
}

type createUserRequest struct {
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	StatusCode int    `json:"user_status"`
}

type updateUserRequest struct {
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Phone      *string `json:"phone"`
	StatusCode *int    `json:"user_status"`
}

func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			Username:   req.Username,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Password:   req.Password,
			Phone:      req.Phone,
			StatusCode: req.StatusCode,
		})
		if err != nil {
			writeUsersError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, ToView(u))
	}
}

func listUsersHandler(svc *Service) func(http.ResponseWriter, *http.Request, auth.Claims) {
	return func(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
		q := r.URL.Query()

		filters := map[string]string{}
		for _, f := range []string{"is_active", "user_status"} {
			if q.Has(f) {
				filters[f] = q.Get(f)
			}
		}

		items, info, err := svc.List(r.Context(), query.Params{
			Filters:  filters,
			Search:   q.Get("search"),
			Ordering: q.Get("ordering"),
			Page:     q.Get("page"),
			PageSize: q.Get("page_size"),
		})
		if err != nil {
			writeUsersError(w, err)
			return
		}

		out := make([]View, 0, len(items))
		for _, u := range items {
			out = append(out, ToView(u))
		}
		api.WriteList(w, r, out, info)
	}
}

func meHandler(svc *Service) func(http.ResponseWriter, *http.Request, auth.Claims) {
	return func(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeUsersError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToView(u))
	}
}

func getUserHandler(svc *Service) func(http.ResponseWriter, *http.Request, auth.Claims) {
	return func(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeUsersError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToView(u))
	}
}

func updateUserHandler(svc *Service) func(http.ResponseWriter, *http.Request, auth.Claims) {
	return func(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
		userID := chi.URLParam(r, "userID")

		// solo el propio usuario o staff
		if userID != claims.UserID && !claims.Staff {
			api.WriteError(w, http.StatusForbidden, "You can only update your own profile")
			return
		}

		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Update(r.Context(), userID, UpdateInput{
			Username:   req.Username,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Password:   req.Password,
			Phone:      req.Phone,
			StatusCode: req.StatusCode,
		})
		if err != nil {
			writeUsersError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToView(u))
	}
}

func deleteUserHandler(svc *Service) func(http.ResponseWriter, *http.Request, auth.Claims) {
	return func(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
		userID := chi.URLParam(r, "userID")

		if userID != claims.UserID && !claims.Staff {
			api.WriteError(w, http.StatusForbidden, "You can only delete your own account")
			return
		}

		if err := svc.Delete(r.Context(), userID); err != nil {
			writeUsersError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeUsersError(w http.ResponseWriter, err error) {
	if verr, ok := validate.AsErrors(err); ok {
		api.WriteValidation(w, verr)
		return
	}
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	api.WriteError(w, http.StatusInternalServerError, "internal error")
}
