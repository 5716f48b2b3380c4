package store

import (
	"errors"
	"time"

	"petstore-api/internal/domain/pets"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrOrderComplete es la violación de guarda: una orden completa
	// no se puede borrar.
	ErrOrderComplete = errors.New("cannot delete a completed order")
)

// Status del flujo de la orden. Intencionalmente sin máquina de estados:
// cualquier transición está permitida, solo el borrado está guardado
// por el flag complete.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusApproved  Status = "approved"
	StatusDelivered Status = "delivered"
)

func Statuses() []string {
	return []string{string(StatusPlaced), string(StatusApproved), string(StatusDelivered)}
}

type Order struct {
	ID       string
	PetID    string
	UserID   *string
	Quantity int
	ShipAt   *time.Time
	Status   Status
	Complete bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderView anida el pet por valor; el user queda como id.
type OrderView struct {
	ID        string       `json:"id"`
	Pet       pets.PetView `json:"pet"`
	User      *string      `json:"user"`
	Quantity  int          `json:"quantity"`
	ShipAt    *time.Time   `json:"ship_at"`
	Status    Status       `json:"status"`
	Complete  bool         `json:"complete"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Inventory mapea cada status de pet a su conteo; nunca faltan claves.
type Inventory struct {
	Available int `json:"available"`
	Pending   int `json:"pending"`
	Sold      int `json:"sold"`
}
