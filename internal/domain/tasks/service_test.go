package tasks

import (
	"context"
	"testing"
	"time"

	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	items []Task
}

func (r *testRepo) Create(ctx context.Context, t Task) error {
	r.items = append(r.items, t)
	return nil
}

func (r *testRepo) Update(ctx context.Context, t Task) error {
	for i := range r.items {
		if r.items[i].ID == t.ID {
			r.items[i] = t
			return nil
		}
	}
	return ErrNotFound
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Task, error) {
	for _, t := range r.items {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *testRepo) List(ctx context.Context, plan query.Plan, f ListFilter) ([]Task, query.PageInfo, error) {
	src := r.items
	if f.OverdueBefore != nil {
		src = nil
		for _, t := range r.items {
			if t.IsOverdue(*f.OverdueBefore) {
				src = append(src, t)
			}
		}
	}
	page, info := query.Run(plan, src, Collation())
	return page, info, nil
}

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{}
	svc := NewService(repo, 100)
	return svc, repo
}

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestCreate_RequiresTitle(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Title: "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := validate.AsErrors(err)
	if !ok || verr[0].Field != "title" {
		t.Fatalf("expected field error on title, got %v", err)
	}
}

func TestCreate_RejectsPastDueDate(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time { return fixedNow }

	past := fixedNow.Add(-time.Hour)
	_, err := svc.Create(context.Background(), CreateInput{Title: "x", DueAt: &past})
	if err == nil {
		t.Fatal("expected validation error for past due_at on create")
	}

	future := fixedNow.Add(time.Hour)
	if _, err := svc.Create(context.Background(), CreateInput{Title: "x", DueAt: &future}); err != nil {
		t.Fatalf("future due_at must be accepted: %v", err)
	}
}

func TestUpdate_AllowsPastDueDate(t *testing.T) {
	// en updates cualquier fecha vale: cargar items viejos ya vencidos
	// no debe rechazarse
	svc, _ := newTestService()
	svc.now = func() time.Time { return fixedNow }

	created, err := svc.Create(context.Background(), CreateInput{Title: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	past := fixedNow.Add(-48 * time.Hour)
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{
		DueAt: OptionalTime{Set: true, Value: &past},
	})
	if err != nil {
		t.Fatalf("past due_at on update must be accepted: %v", err)
	}
	if updated.DueAt == nil || !updated.DueAt.Equal(past) {
		t.Fatalf("expected due_at %v, got %v", past, updated.DueAt)
	}
}

func TestUpdate_NullClearsDueDate(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time { return fixedNow }

	future := fixedNow.Add(time.Hour)
	created, _ := svc.Create(context.Background(), CreateInput{Title: "x", DueAt: &future})

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{
		DueAt: OptionalTime{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DueAt != nil {
		t.Fatalf("expected due_at cleared, got %v", updated.DueAt)
	}

	// sin Set no se toca
	updated, err = svc.Update(context.Background(), created.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DueAt != nil {
		t.Fatal("due_at must stay cleared when not sent")
	}
}

func TestToggleResolved_TwiceReturnsOriginal(t *testing.T) {
	svc, _ := newTestService()

	created, _ := svc.Create(context.Background(), CreateInput{Title: "x"})
	if created.IsResolved {
		t.Fatal("new tasks start unresolved")
	}

	once, err := svc.ToggleResolved(context.Background(), created.ID)
	if err != nil || !once.IsResolved {
		t.Fatalf("expected resolved after first toggle, err=%v", err)
	}
	twice, err := svc.ToggleResolved(context.Background(), created.ID)
	if err != nil || twice.IsResolved {
		t.Fatalf("expected unresolved after second toggle, err=%v", err)
	}
}

func TestMarkResolved_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), CreateInput{Title: "x"})

	for i := 0; i < 2; i++ {
		got, err := svc.MarkResolved(context.Background(), created.ID, true)
		if err != nil || !got.IsResolved {
			t.Fatalf("mark resolved (try %d): %v", i, err)
		}
	}

	got, err := svc.MarkResolved(context.Background(), created.ID, false)
	if err != nil || got.IsResolved {
		t.Fatalf("mark unresolved: %v", err)
	}
}

func TestListResolved_ForcesFilter(t *testing.T) {
	svc, _ := newTestService()

	a, _ := svc.Create(context.Background(), CreateInput{Title: "a"})
	svc.Create(context.Background(), CreateInput{Title: "b"})
	svc.MarkResolved(context.Background(), a.ID, true)

	// aunque el caller pida lo contrario, el atajo manda
	items, _, err := svc.ListResolved(context.Background(), query.Params{
		Filters: map[string]string{"is_resolved": "false"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Fatalf("expected only the resolved task, got %+v", items)
	}

	items, _, err = svc.ListUnresolved(context.Background(), query.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "b" {
		t.Fatalf("expected only the unresolved task, got %+v", items)
	}
}

func TestListOverdue(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time { return fixedNow.Add(-72 * time.Hour) }

	soon := fixedNow.Add(-48 * time.Hour)
	later := fixedNow.Add(48 * time.Hour)
	overdue, _ := svc.Create(context.Background(), CreateInput{Title: "due soon", DueAt: &soon})
	svc.Create(context.Background(), CreateInput{Title: "due later", DueAt: &later})
	svc.Create(context.Background(), CreateInput{Title: "no due date"})

	resolved, _ := svc.Create(context.Background(), CreateInput{Title: "resolved", DueAt: &soon})
	svc.MarkResolved(context.Background(), resolved.ID, true)

	// avanza el reloj más allá del primer vencimiento
	svc.now = func() time.Time { return fixedNow }

	items, _, err := svc.ListOverdue(context.Background(), query.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != overdue.ID {
		t.Fatalf("expected only the unresolved overdue task, got %+v", items)
	}
}

func TestSearch_OverridesParam(t *testing.T) {
	svc, _ := newTestService()
	svc.Create(context.Background(), CreateInput{Title: "Comprar comida"})
	svc.Create(context.Background(), CreateInput{Title: "Pasear al perro", Description: "comida extra"})
	svc.Create(context.Background(), CreateInput{Title: "Nada que ver"})

	items, info, err := svc.Search(context.Background(), "COMIDA", query.Params{Search: "ignored"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if info.Total != 2 {
		t.Fatalf("expected 2 matches across title and description, got %d", info.Total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}
