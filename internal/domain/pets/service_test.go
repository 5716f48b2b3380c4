package pets_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	mem "petstore-api/internal/adapters/storage/memory"
	"petstore-api/internal/domain/pets"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

func newService() *pets.Service {
	st := mem.New()
	return pets.NewService(st.Categories(), st.Tags(), st.Pets(), 100)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "Dogs"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreateCategory(ctx, "Dogs")
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	verr, ok := validate.AsErrors(err)
	if !ok || verr[0].Field != "name" {
		t.Fatalf("expected field error on name, got %v", err)
	}
}

func TestUpdateCategory_KeepingOwnNameIsFine(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, _ := svc.CreateCategory(ctx, "Dogs")
	if _, err := svc.UpdateCategory(ctx, c.ID, "Dogs"); err != nil {
		t.Fatalf("renaming to own name must not collide: %v", err)
	}
}

func TestCreatePet_Validation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreatePet(ctx, pets.CreatePetInput{})
	verr, ok := validate.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}

	fields := map[string]bool{}
	for _, fe := range verr {
		fields[fe.Field] = true
	}
	if !fields["name"] || !fields["photo_urls"] {
		t.Fatalf("expected errors on name and photo_urls, got %v", verr)
	}
}

type failingCatRepo struct {
	pets.CategoryRepository
}

func (failingCatRepo) Exists(context.Context, string) (bool, error) {
	return false, errors.New("storage down")
}

type failingTagRepo struct {
	pets.TagRepository
}

func (failingTagRepo) Missing(context.Context, []string) ([]string, error) {
	return nil, errors.New("storage down")
}

func TestCreatePet_ReferenceCheckFailurePropagates(t *testing.T) {
	ctx := context.Background()
	catID := "c1"

	st := mem.New()
	svc := pets.NewService(failingCatRepo{st.Categories()}, st.Tags(), st.Pets(), 100)
	_, err := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:       "Milo",
		PhotoURLs:  []string{"http://example.com/milo.jpg"},
		CategoryID: &catID,
	})
	if err == nil {
		t.Fatal("expected the storage failure to surface")
	}
	if _, ok := validate.AsErrors(err); ok {
		t.Fatalf("a failing category check must not pass as validation: %v", err)
	}

	st = mem.New()
	svc = pets.NewService(st.Categories(), failingTagRepo{st.Tags()}, st.Pets(), 100)
	_, err = svc.CreatePet(ctx, pets.CreatePetInput{
		Name:      "Milo",
		PhotoURLs: []string{"http://example.com/milo.jpg"},
		TagIDs:    []string{"t1"},
	})
	if err == nil {
		t.Fatal("expected the storage failure to surface")
	}
	if _, ok := validate.AsErrors(err); ok {
		t.Fatalf("a failing tag check must not pass as validation: %v", err)
	}
}

func TestCreatePet_DefaultsToAvailable(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:      "Milo",
		PhotoURLs: []string{"http://example.com/milo.jpg"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != pets.StatusAvailable {
		t.Fatalf("expected default status available, got %s", p.Status)
	}
}

func TestCreatePet_MissingReferences(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	ghost := "no-such-category"
	_, err := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:       "Milo",
		PhotoURLs:  []string{"http://example.com/milo.jpg"},
		CategoryID: &ghost,
		TagIDs:     []string{"no-such-tag"},
	})
	verr, ok := validate.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}

	var catMsg, tagMsg string
	for _, fe := range verr {
		switch fe.Field {
		case "category_id":
			catMsg = fe.Message
		case "tag_ids":
			tagMsg = fe.Message
		}
	}
	if !strings.Contains(catMsg, "no-such-category") {
		t.Fatalf("category error must name the missing id, got %q", catMsg)
	}
	if !strings.Contains(tagMsg, "no-such-tag") {
		t.Fatalf("tag error must name the missing id, got %q", tagMsg)
	}
}

func TestUpdatePet_NullClearsCategory(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, _ := svc.CreateCategory(ctx, "Dogs")
	p, err := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:       "Milo",
		PhotoURLs:  []string{"http://example.com/milo.jpg"},
		CategoryID: &c.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdatePet(ctx, p.ID, pets.UpdatePetInput{
		CategoryID: pets.OptionalRef{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CategoryID != nil {
		t.Fatalf("expected category cleared, got %v", *updated.CategoryID)
	}
}

func TestFindByStatus_InvalidValueIsError(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	// inválido => error de validación, no lista vacía
	_, err := svc.FindByStatus(ctx, "available,flying")
	if _, ok := validate.AsErrors(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.FindByStatus(ctx, ""); err == nil {
		t.Fatal("expected error for missing status param")
	}
}

func TestFindByTags(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tag, _ := svc.CreateTag(ctx, "friendly")
	p, _ := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:      "Milo",
		PhotoURLs: []string{"http://example.com/milo.jpg"},
		TagIDs:    []string{tag.ID},
	})
	svc.CreatePet(ctx, pets.CreatePetInput{
		Name:      "Rex",
		PhotoURLs: []string{"http://example.com/rex.jpg"},
	})

	found, err := svc.FindByTags(ctx, "friendly")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 || found[0].ID != p.ID {
		t.Fatalf("expected only Milo, got %+v", found)
	}
}

func TestListPets_SearchCoversTagNames(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tag, _ := svc.CreateTag(ctx, "juguetón")
	p, _ := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:      "Milo",
		PhotoURLs: []string{"http://example.com/milo.jpg"},
		TagIDs:    []string{tag.ID},
	})
	svc.CreatePet(ctx, pets.CreatePetInput{
		Name:      "Rex",
		PhotoURLs: []string{"http://example.com/rex.jpg"},
	})

	items, _, err := svc.ListPets(ctx, query.Params{Search: "juguetón"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != p.ID {
		t.Fatalf("expected search by tag name to match Milo, got %+v", items)
	}
}

func TestCountByStatus_ZeroDefaults(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	sold := string(pets.StatusSold)
	svc.CreatePet(ctx, pets.CreatePetInput{Name: "a", PhotoURLs: []string{"u"}})
	svc.CreatePet(ctx, pets.CreatePetInput{Name: "b", PhotoURLs: []string{"u"}})
	svc.CreatePet(ctx, pets.CreatePetInput{Name: "c", PhotoURLs: []string{"u"}, Status: sold})

	counts, err := svc.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["available"] != 2 || counts["pending"] != 0 || counts["sold"] != 1 {
		t.Fatalf("expected {available:2 pending:0 sold:1}, got %v", counts)
	}
}

func TestView_NestsCategoryAndTags(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, _ := svc.CreateCategory(ctx, "Dogs")
	tag, _ := svc.CreateTag(ctx, "friendly")
	p, _ := svc.CreatePet(ctx, pets.CreatePetInput{
		Name:       "Milo",
		PhotoURLs:  []string{"http://example.com/milo.jpg"},
		CategoryID: &c.ID,
		TagIDs:     []string{tag.ID},
	})

	v, err := svc.View(ctx, p)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.Category == nil || v.Category.Name != "Dogs" {
		t.Fatalf("expected nested category, got %+v", v.Category)
	}
	if len(v.Tags) != 1 || v.Tags[0].Name != "friendly" {
		t.Fatalf("expected nested tag, got %+v", v.Tags)
	}
}
