// Package memory implementa el storage en memoria para dev y tests.
// Un único Store con un solo mutex guarda las seis colecciones; así las
// cascadas entre recursos (pet→orders, user→orders, category/tag→pets)
// ocurren bajo el mismo lock, como lo haría una transacción.
package memory

import (
	"errors"

	"sync"

	"petstore-api/internal/domain/pets"
	"petstore-api/internal/domain/store"
	"petstore-api/internal/domain/tasks"
	"petstore-api/internal/domain/users"
)

var errIDRequired = errors.New("id required")

// Store guarda cada colección como slice en orden de inserción: el
// desempate de los listados es justamente ese orden, así que no hace
// falta estructura extra.
type Store struct {
	mu sync.RWMutex

	tasks      []tasks.Task
	categories []pets.Category
	tags       []pets.Tag
	pets       []pets.Pet
	orders     []store.Order
	users      []users.User
}

func New() *Store {
	return &Store{}
}

// Vistas tipadas sobre el mismo Store; comparten lock y datos.

func (s *Store) Tasks() tasks.Repository             { return (*taskRepo)(s) }
func (s *Store) Categories() pets.CategoryRepository { return (*categoryRepo)(s) }
func (s *Store) Tags() pets.TagRepository            { return (*tagRepo)(s) }
func (s *Store) Pets() pets.PetRepository            { return (*petRepo)(s) }
func (s *Store) Orders() store.Repository            { return (*orderRepo)(s) }
func (s *Store) Users() users.Repository             { return (*userRepo)(s) }

// tagNamesLocked resuelve los nombres de los tags de un pet. Se llama
// con el lock ya tomado (desde List), por eso no relockea.
func (s *Store) tagNamesLocked(p pets.Pet) []string {
	names := make([]string, 0, len(p.TagIDs))
	for _, id := range p.TagIDs {
		for _, t := range s.tags {
			if t.ID == id {
				names = append(names, t.Name)
				break
			}
		}
	}
	return names
}

// deleteOrdersByLocked borra órdenes que cumplan el predicado; es la
// cascada de pet.Delete y users.Delete.
func (s *Store) deleteOrdersByLocked(match func(store.Order) bool) {
	kept := s.orders[:0]
	for _, o := range s.orders {
		if !match(o) {
			kept = append(kept, o)
		}
	}
	s.orders = kept
}
