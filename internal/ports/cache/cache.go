package cache

import (
	"context"
	"time"
)

// Cache es un read-cache best effort: un miss o un error se tratan igual.
// Lo usa el agregado de inventario; el resto del sistema no cachea.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
