package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"petstore-api/internal/domain/pets"
	"petstore-api/internal/domain/store"
	"petstore-api/internal/domain/users"
	"petstore-api/internal/query"
)

func seedPet(t *testing.T, st *Store, id string) {
	t.Helper()
	now := time.Now()
	err := st.Pets().Create(context.Background(), pets.Pet{
		ID: id, Name: id, Status: pets.StatusAvailable, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
}

func seedOrder(t *testing.T, st *Store, id, petID string, userID *string) {
	t.Helper()
	now := time.Now()
	err := st.Orders().Create(context.Background(), store.Order{
		ID: id, PetID: petID, UserID: userID, Quantity: 1,
		Status: store.StatusPlaced, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestDeletePet_CascadesOrders(t *testing.T) {
	st := New()
	ctx := context.Background()

	seedPet(t, st, "p1")
	seedPet(t, st, "p2")
	seedOrder(t, st, "o1", "p1", nil)
	seedOrder(t, st, "o2", "p2", nil)

	if err := st.Pets().Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := st.Orders().GetByID(ctx, "o1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("order o1 must be gone, got %v", err)
	}
	if _, err := st.Orders().GetByID(ctx, "o2"); err != nil {
		t.Fatalf("order o2 must survive: %v", err)
	}
}

func TestDeleteUser_CascadesOrders(t *testing.T) {
	st := New()
	ctx := context.Background()

	now := time.Now()
	if err := st.Users().Create(ctx, users.User{ID: "u1", Username: "milo", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	seedPet(t, st, "p1")
	uid := "u1"
	seedOrder(t, st, "o1", "p1", &uid)
	seedOrder(t, st, "o2", "p1", nil)

	if err := st.Users().Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := st.Orders().GetByID(ctx, "o1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("user's order must be gone, got %v", err)
	}
	if _, err := st.Orders().GetByID(ctx, "o2"); err != nil {
		t.Fatalf("anonymous order must survive: %v", err)
	}
}

func TestDeleteCategory_DetachesPets(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.Categories().Create(ctx, pets.Category{ID: "c1", Name: "Dogs"}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	now := time.Now()
	cat := "c1"
	err := st.Pets().Create(ctx, pets.Pet{
		ID: "p1", Name: "Milo", CategoryID: &cat,
		Status: pets.StatusAvailable, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	if err := st.Categories().Delete(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	p, err := st.Pets().GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("pet must survive: %v", err)
	}
	if p.CategoryID != nil {
		t.Fatalf("pet must lose the category reference, got %v", *p.CategoryID)
	}
}

func TestDeleteTag_RemovedFromPets(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.Tags().Create(ctx, pets.Tag{ID: "t1", Name: "friendly"}); err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	if err := st.Tags().Create(ctx, pets.Tag{ID: "t2", Name: "small"}); err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	now := time.Now()
	err := st.Pets().Create(ctx, pets.Pet{
		ID: "p1", Name: "Milo", TagIDs: []string{"t1", "t2"},
		Status: pets.StatusAvailable, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	if err := st.Tags().Delete(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	p, _ := st.Pets().GetByID(ctx, "p1")
	if len(p.TagIDs) != 1 || p.TagIDs[0] != "t2" {
		t.Fatalf("expected only t2 left, got %v", p.TagIDs)
	}
}

func TestTagsMissing(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.Tags().Create(ctx, pets.Tag{ID: "t1", Name: "friendly"}); err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	missing, err := st.Tags().Missing(ctx, []string{"t1", "ghost-a", "ghost-b"})
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(missing) != 2 || missing[0] != "ghost-a" || missing[1] != "ghost-b" {
		t.Fatalf("expected the two ghosts, got %v", missing)
	}
}

func TestList_KeepsInsertionOrderOnTies(t *testing.T) {
	st := New()
	ctx := context.Background()

	now := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		err := st.Pets().Create(ctx, pets.Pet{
			ID: id, Name: "same", Status: pets.StatusAvailable,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	plan := query.Plan{Page: 1, PageSize: 10, OrderField: "name"}
	page, info, err := st.Pets().List(ctx, plan)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if info.Total != 3 {
		t.Fatalf("expected total 3, got %d", info.Total)
	}
	if page[0].ID != "a" || page[1].ID != "b" || page[2].ID != "c" {
		t.Fatalf("expected insertion order on ties, got %+v", page)
	}
}
