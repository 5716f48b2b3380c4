package pets

import (
	"errors"
	"time"
)

var (
	ErrPetNotFound      = errors.New("pet not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
)

// Status define la disponibilidad de la mascota en la tienda.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// Statuses son los literales válidos, en orden fijo.
func Statuses() []string {
	return []string{string(StatusAvailable), string(StatusPending), string(StatusSold)}
}

// Category agrupa mascotas. El nombre es único.
type Category struct {
	ID   string
	Name string
}

// Tag etiqueta mascotas (muchos-a-muchos). El nombre es único.
type Tag struct {
	ID   string
	Name string
}

// Pet guarda las referencias por id; la proyección de detalle las
// anida por valor.
type Pet struct {
	ID         string
	Name       string
	CategoryID *string
	PhotoURLs  []string
	TagIDs     []string
	Status     Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TagView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PetView anida category y tags por valor; es la proyección que
// devuelven todos los endpoints de pets.
type PetView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Category  *CategoryView `json:"category"`
	PhotoURLs []string      `json:"photo_urls"`
	Tags      []TagView     `json:"tags"`
	Status    Status        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func ToCategoryView(c Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name}
}

func ToTagView(t Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name}
}
