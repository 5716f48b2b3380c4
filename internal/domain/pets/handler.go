package pets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"petstore-api/internal/api"
	"petstore-api/internal/middleware"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/categories", func(cr chi.Router) {
		cr.Get("/", listCategoriesHandler(svc))
		cr.Post("/", createNamedHandler("category", func(ctx context.Context, name string) (any, error) {
			c, err := svc.CreateCategory(ctx, name)
			return ToCategoryView(c), err
		}))
		cr.Get("/{categoryID}", getCategoryHandler(svc))
		cr.Put("/{categoryID}", updateCategoryHandler(svc))
		cr.Patch("/{categoryID}", updateCategoryHandler(svc))
		cr.Delete("/{categoryID}", deleteCategoryHandler(svc))
	})

	r.Route("/tags", func(tr chi.Router) {
		tr.Get("/", listTagsHandler(svc))
		tr.Post("/", createNamedHandler("tag", func(ctx context.Context, name string) (any, error) {
			t, err := svc.CreateTag(ctx, name)
			return ToTagView(t), err
		}))
		tr.Get("/{tagID}", getTagHandler(svc))
		tr.Put("/{tagID}", updateTagHandler(svc))
		tr.Patch("/{tagID}", updateTagHandler(svc))
		tr.Delete("/{tagID}", deleteTagHandler(svc))
	})

	r.Route("/pets", func(pr chi.Router) {
		// Lecturas abiertas; mutaciones exigen principal.
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/findByStatus", findByStatusHandler(svc))
		pr.Get("/findByTags", findByTagsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))

		pr.Post("/", requireAuth(createPetHandler(svc)))
		pr.Put("/{petID}", requireAuth(updatePetHandler(svc, false)))
		pr.Patch("/{petID}", requireAuth(updatePetHandler(svc, true)))
		pr.Delete("/{petID}", requireAuth(deletePetHandler(svc)))
		pr.Post("/{petID}/uploadImage", requireAuth(uploadImageHandler(svc)))
	})
}

// requireAuth corta con 401 si no hay principal en el contexto.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			api.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func listParams(r *http.Request, filterFields ...string) query.Params {
	q := r.URL.Query()

	filters := map[string]string{}
	for _, f := range filterFields {
		if q.Has(f) {
			filters[f] = q.Get(f)
		}
	}

	return query.Params{
		Filters:  filters,
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Page:     q.Get("page"),
		PageSize: q.Get("page_size"),
	}
}

// --- Categories / Tags ---

type nameRequest struct {
	Name string `json:"name"`
}

func createNamedHandler(kind string, create func(ctx context.Context, name string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		v, err := create(r.Context(), req.Name)
		if err != nil {
			writePetsError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, v)
	}
}

func listCategoriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, info, err := svc.ListCategories(r.Context(), listParams(r))
		if err != nil {
			writePetsError(w, err)
			return
		}
		out := make([]CategoryView, 0, len(items))
		for _, c := range items {
			out = append(out, ToCategoryView(c))
		}
		api.WriteList(w, r, out, info)
	}
}

func getCategoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetCategory(r.Context(), chi.URLParam(r, "categoryID"))
		if err != nil {
			writePetsError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToCategoryView(c))
	}
}

func updateCategoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.UpdateCategory(r.Context(), chi.URLParam(r, "categoryID"), req.Name)
		if err != nil {
			writePetsError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToCategoryView(c))
	}
}

func deleteCategoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
			writePetsError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listTagsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, info, err := svc.ListTags(r.Context(), listParams(r))
		if err != nil {
			writePetsError(w, err)
			return
		}
		out := make([]TagView, 0, len(items))
		for _, t := range items {
			out = append(out, ToTagView(t))
		}
		api.WriteList(w, r, out, info)
	}
}

func getTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetTag(r.Context(), chi.URLParam(r, "tagID"))
		if err != nil {
			writePetsError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToTagView(t))
	}
}

func updateTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.UpdateTag(r.Context(), chi.URLParam(r, "tagID"), req.Name)
		if err != nil {
			writePetsError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, ToTagView(t))
	}
}

func deleteTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteTag(r.Context(), chi.URLParam(r, "tagID")); err != nil {
			writePetsError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- Pets ---

type createPetRequest struct {
	Name       string   `json:"name"`
	CategoryID *string  `json:"category_id"`
	PhotoURLs  []string `json:"photo_urls"`
	TagIDs     []string `json:"tag_ids"`
	Status     string   `json:"status"`
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, info, err := svc.ListPets(r.Context(), listParams(r, "status", "category"))
		if err != nil {
			writePetsError(w, err)
			return
		}

		out, err := svc.Views(r.Context(), items)
		if err != nil {
			writePetsError(w, err)
			return
		}
		api.WriteList(w, r, out, info)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writePetsError(w, err)
			return
		}
		writePetView(w, r, svc, http.StatusOK, p)
	}
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.CreatePet(r.Context(), CreatePetInput{
			Name:       req.Name,
			CategoryID: req.CategoryID,
			PhotoURLs:  req.PhotoURLs,
			TagIDs:     req.TagIDs,
			Status:     req.Status,
		})
		if err != nil {
			writePetsError(w, err)
			return
		}
		writePetView(w, r, svc, http.StatusCreated, p)
	}
}

func updatePetHandler(svc *Service, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var in UpdatePetInput

		if v, exists := raw["name"]; exists {
			if err := json.Unmarshal(v, &in.Name); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for name")
				return
			}
		} else if !partial {
			var verr validate.Errors
			verr.Add("name", "field is required")
			api.WriteValidation(w, verr)
			return
		}
		if v, exists := raw["status"]; exists {
			if err := json.Unmarshal(v, &in.Status); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for status")
				return
			}
		}
		if v, exists := raw["photo_urls"]; exists {
			if err := json.Unmarshal(v, &in.PhotoURLs); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for photo_urls")
				return
			}
		}
		if v, exists := raw["tag_ids"]; exists {
			if err := json.Unmarshal(v, &in.TagIDs); err != nil {
				api.WriteError(w, http.StatusBadRequest, "invalid value for tag_ids")
				return
			}
		}

		// category_id: null presente = limpiar la referencia
		if v, exists := raw["category_id"]; exists {
			in.CategoryID.Set = true
			if string(v) != "null" {
				var id string
				if err := json.Unmarshal(v, &id); err != nil {
					api.WriteError(w, http.StatusBadRequest, "category_id must be a string or null")
					return
				}
				in.CategoryID.Value = &id
			}
		}

		p, err := svc.UpdatePet(r.Context(), chi.URLParam(r, "petID"), in)
		if err != nil {
			writePetsError(w, err)
			return
		}
		writePetView(w, r, svc, http.StatusOK, p)
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePet(r.Context(), chi.URLParam(r, "petID")); err != nil {
			writePetsError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func findByStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.FindByStatus(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writePetsError(w, err)
			return
		}
		writePetViews(w, r, svc, items)
	}
}

func findByTagsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.FindByTags(r.Context(), r.URL.Query().Get("tags"))
		if err != nil {
			writePetsError(w, err)
			return
		}
		writePetViews(w, r, svc, items)
	}
}

// uploadImageHandler valida el multipart y responde el sobre
// {code, type, message}. El storage real de imágenes es un colaborador
// externo; acá no se persiste nada.
func uploadImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := svc.PetExists(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writePetsError(w, err)
			return
		}
		if !ok {
			api.WriteError(w, http.StatusNotFound, "pet not found")
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "no file provided")
			return
		}
		defer file.Close()

		resp := map[string]any{
			"code":    200,
			"type":    "success",
			"message": fmt.Sprintf("File %q uploaded successfully", header.Filename),
		}
		if meta := r.FormValue("additionalMetadata"); meta != "" {
			resp["metadata"] = meta
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

func writePetView(w http.ResponseWriter, r *http.Request, svc *Service, status int, p Pet) {
	v, err := svc.View(r.Context(), p)
	if err != nil {
		writePetsError(w, err)
		return
	}
	api.WriteJSON(w, status, v)
}

func writePetViews(w http.ResponseWriter, r *http.Request, svc *Service, items []Pet) {
	out, err := svc.Views(r.Context(), items)
	if err != nil {
		writePetsError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func writePetsError(w http.ResponseWriter, err error) {
	if verr, ok := validate.AsErrors(err); ok {
		api.WriteValidation(w, verr)
		return
	}
	switch {
	case errors.Is(err, ErrPetNotFound):
		api.WriteError(w, http.StatusNotFound, "pet not found")
	case errors.Is(err, ErrCategoryNotFound):
		api.WriteError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, ErrTagNotFound):
		api.WriteError(w, http.StatusNotFound, "tag not found")
	default:
		api.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
