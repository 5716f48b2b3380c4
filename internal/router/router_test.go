package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"petstore-api/internal/config"
	"petstore-api/internal/platform/logger"
	"petstore-api/internal/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, err := router.New(router.Options{
		Cfg: config.Config{MaxPageSize: 100},
		Log: logger.New(logger.Options{Level: logger.Error}),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

// doReq hace el request con el header de dev auth (vacío = anónimo) y
// devuelve status y body.
func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, b
}

func decode(t *testing.T, b []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("decode %s: %v", string(b), err)
	}
}

func createJSON(t *testing.T, baseURL, path, userID string, body any) map[string]any {
	t.Helper()
	st, b := doReq(t, baseURL, "POST", path, userID, body)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating %s, got %d body=%s", path, st, string(b))
	}
	var out map[string]any
	decode(t, b, &out)
	return out
}

func TestHealth(t *testing.T) {
	ts := newServer(t)
	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", st, string(body))
	}
}

func TestTasks_CRUDAndPaginationEnvelope(t *testing.T) {
	ts := newServer(t)

	// 1) Validación: título en blanco
	{
		st, body := doReq(t, ts.URL, "POST", "/tasks", "", map[string]any{"title": "   "})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		var out struct {
			Errors []struct{ Field, Message string } `json:"errors"`
		}
		decode(t, body, &out)
		if len(out.Errors) != 1 || out.Errors[0].Field != "title" {
			t.Fatalf("expected field error on title, got %s", string(body))
		}
	}

	// 2) 15 tasks, página 2 de 10
	for i := 0; i < 15; i++ {
		createJSON(t, ts.URL, "/tasks", "", map[string]any{"title": fmt.Sprintf("task %02d", i)})
	}

	st, body := doReq(t, ts.URL, "GET", "/tasks?page=2&page_size=10&ordering=title", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	var page struct {
		Count    int              `json:"count"`
		Next     *string          `json:"next"`
		Previous *string          `json:"previous"`
		Results  []map[string]any `json:"results"`
	}
	decode(t, body, &page)

	if page.Count != 15 {
		t.Fatalf("expected count 15, got %d", page.Count)
	}
	if len(page.Results) != 5 {
		t.Fatalf("expected 5 results on page 2, got %d", len(page.Results))
	}
	if page.Next != nil {
		t.Fatalf("expected null next on last page, got %v", *page.Next)
	}
	if page.Previous == nil {
		t.Fatal("expected previous link on page 2")
	}

	// el listado no incluye description
	if _, ok := page.Results[0]["description"]; ok {
		t.Fatalf("list view must not include description: %+v", page.Results[0])
	}

	// 3) filtro desconocido = 400, no se ignora
	st, body = doReq(t, ts.URL, "GET", "/tasks?ordering=height", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown order field, got %d body=%s", st, string(body))
	}

	// 4) toggle
	created := createJSON(t, ts.URL, "/tasks", "", map[string]any{"title": "toggle me"})
	id := created["id"].(string)

	st, body = doReq(t, ts.URL, "POST", "/tasks/"+id+"/toggle", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var toggled map[string]any
	decode(t, body, &toggled)
	if toggled["is_resolved"] != true {
		t.Fatalf("expected resolved after toggle, got %+v", toggled)
	}

	// 5) atajos
	st, body = doReq(t, ts.URL, "GET", "/tasks/resolved", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	decode(t, body, &page)
	if page.Count != 1 {
		t.Fatalf("expected 1 resolved task, got %d", page.Count)
	}

	// 6) delete
	st, _ = doReq(t, ts.URL, "DELETE", "/tasks/"+id, "", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "GET", "/tasks/"+id, "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", st)
	}
}

func TestPets_AuthAndFlow(t *testing.T) {
	ts := newServer(t)

	// escribir pets exige principal
	st, _ := doReq(t, ts.URL, "POST", "/pets", "", map[string]any{"name": "Milo"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", st)
	}

	cat := createJSON(t, ts.URL, "/categories", "", map[string]any{"name": "Dogs"})
	tag := createJSON(t, ts.URL, "/tags", "", map[string]any{"name": "friendly"})

	pet := createJSON(t, ts.URL, "/pets", "staff-1", map[string]any{
		"name":        "Milo",
		"category_id": cat["id"],
		"photo_urls":  []string{"http://example.com/milo.jpg"},
		"tag_ids":     []string{tag["id"].(string)},
	})

	// la proyección anida category y tags por valor
	if pet["category"].(map[string]any)["name"] != "Dogs" {
		t.Fatalf("expected nested category, got %+v", pet["category"])
	}
	if len(pet["tags"].([]any)) != 1 {
		t.Fatalf("expected nested tags, got %+v", pet["tags"])
	}

	// findByStatus con valor inválido = 400
	st, body := doReq(t, ts.URL, "GET", "/pets/findByStatus?status=flying", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/pets/findByStatus?status=available", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	// borrar la categoría desasocia al pet, no lo borra
	st, _ = doReq(t, ts.URL, "DELETE", "/categories/"+cat["id"].(string), "", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", st)
	}
	st, body = doReq(t, ts.URL, "GET", "/pets/"+pet["id"].(string), "", nil)
	if st != http.StatusOK {
		t.Fatalf("pet must survive category delete, got %d", st)
	}
	var got map[string]any
	decode(t, body, &got)
	if got["category"] != nil {
		t.Fatalf("expected null category after delete, got %+v", got["category"])
	}
}

func TestPets_UploadImage(t *testing.T) {
	ts := newServer(t)

	pet := createJSON(t, ts.URL, "/pets", "staff-1", map[string]any{
		"name":       "Milo",
		"photo_urls": []string{"http://example.com/milo.jpg"},
	})
	petID := pet["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "milo.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte("fake-png-bytes"))
	mw.Close()

	req, _ := http.NewRequest("POST", ts.URL+"/pets/"+petID+"/uploadImage", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", "staff-1")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", res.StatusCode, string(body))
	}
	var out map[string]any
	decode(t, body, &out)
	if out["type"] != "success" {
		t.Fatalf("unexpected upload response: %s", string(body))
	}
}

func TestOrders_CompletedDeleteGuard(t *testing.T) {
	ts := newServer(t)

	pet := createJSON(t, ts.URL, "/pets", "staff-1", map[string]any{
		"name":       "Milo",
		"photo_urls": []string{"http://example.com/milo.jpg"},
	})

	// crear orden exige principal
	st, _ := doReq(t, ts.URL, "POST", "/orders", "", map[string]any{"pet_id": pet["id"]})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", st)
	}

	order := createJSON(t, ts.URL, "/orders", "buyer-1", map[string]any{
		"pet_id":   pet["id"],
		"complete": true,
	})
	orderID := order["id"].(string)

	// la orden tomó el user de los claims, no del body
	if order["user"] != "buyer-1" {
		t.Fatalf("expected user from claims, got %v", order["user"])
	}

	st, body := doReq(t, ts.URL, "DELETE", "/orders/"+orderID, "buyer-1", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting completed order, got %d body=%s", st, string(body))
	}
	var out map[string]string
	decode(t, body, &out)
	if out["error"] != "Cannot delete a completed order" {
		t.Fatalf("unexpected error body: %s", string(body))
	}

	// la orden sobrevive
	st, _ = doReq(t, ts.URL, "GET", "/orders/"+orderID, "buyer-1", nil)
	if st != http.StatusOK {
		t.Fatalf("order must survive the rejected delete, got %d", st)
	}
}

func TestInventory_OpenAndCounted(t *testing.T) {
	ts := newServer(t)

	createJSON(t, ts.URL, "/pets", "staff-1", map[string]any{
		"name": "a", "photo_urls": []string{"u"},
	})
	createJSON(t, ts.URL, "/pets", "staff-1", map[string]any{
		"name": "b", "photo_urls": []string{"u"}, "status": "sold",
	})

	// inventario es lectura abierta
	st, body := doReq(t, ts.URL, "GET", "/orders/inventory", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	var inv struct {
		Available int `json:"available"`
		Pending   int `json:"pending"`
		Sold      int `json:"sold"`
	}
	decode(t, body, &inv)
	if inv.Available != 1 || inv.Pending != 0 || inv.Sold != 1 {
		t.Fatalf("expected {1,0,1}, got %+v", inv)
	}
}

func TestUsers_SelfOrStaff(t *testing.T) {
	ts := newServer(t)

	alice := createJSON(t, ts.URL, "/users", "", map[string]any{
		"username": "alice", "password": "secret-1",
	})
	bob := createJSON(t, ts.URL, "/users", "", map[string]any{
		"username": "bob", "password": "secret-2",
	})
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	// nunca se proyecta el password
	if _, ok := alice["password"]; ok {
		t.Fatalf("password leaked in response: %+v", alice)
	}

	// GET /users/me usa el principal
	st, body := doReq(t, ts.URL, "GET", "/users/me", aliceID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var me map[string]any
	decode(t, body, &me)
	if me["username"] != "alice" {
		t.Fatalf("expected alice, got %+v", me)
	}

	// alice no puede tocar a bob
	st, _ = doReq(t, ts.URL, "PATCH", "/users/"+bobID, aliceID, map[string]any{"first_name": "X"})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", st)
	}

	// pero sí a sí misma
	st, body = doReq(t, ts.URL, "PATCH", "/users/"+aliceID, aliceID, map[string]any{"first_name": "Alicia"})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	// sin principal no hay listado
	st, _ = doReq(t, ts.URL, "GET", "/users", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}
}

func TestGraphQLEndpoint(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "POST", "/graphql", "", map[string]any{
		"query": `mutation { createTask(input: {title: "desde graphql"}) { success task { id title } } }`,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	var out struct {
		Data struct {
			CreateTask struct {
				Success bool `json:"success"`
				Task    struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"task"`
			} `json:"createTask"`
		} `json:"data"`
	}
	decode(t, body, &out)
	if !out.Data.CreateTask.Success || out.Data.CreateTask.Task.Title != "desde graphql" {
		t.Fatalf("unexpected graphql response: %s", string(body))
	}

	// la task creada por GraphQL se ve por REST: misma capa de servicio
	st, body = doReq(t, ts.URL, "GET", "/tasks/"+out.Data.CreateTask.Task.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 via REST, got %d body=%s", st, string(body))
	}
}
