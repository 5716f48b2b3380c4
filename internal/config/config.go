package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthMode define cómo se verifica el token entrante.
type AuthMode string

const (
	// AuthModeNone: modo dev, se acepta X-Debug-User-ID sin verificar nada.
	AuthModeNone AuthMode = "none"
	// AuthModeJWT: verificación local HMAC con AuthSecret.
	AuthModeJWT AuthMode = "jwt"
	// AuthModeIntrospect: verificación remota contra el servicio de identidad.
	AuthModeIntrospect AuthMode = "introspect"
)

// Config es el valor de configuración del proceso.
// Se construye una sola vez en main y se pasa explícito al router y adapters
// (nada de singletons globales).
type Config struct {
	Addr string

	// Postgres. Vacío => repos in-memory.
	DatabaseDSN string

	// Redis para el cache de inventario. Vacío => sin cache.
	RedisURL     string
	InventoryTTL time.Duration

	AuthMode      AuthMode
	AuthSecret    string
	IntrospectURL string
	IntrospectKey string

	// Tope de page_size para todas las listas paginadas.
	MaxPageSize int

	LogLevel  string
	LogFormat string
}

// Load arma la Config desde env vars con defaults razonables.
func Load() Config {
	return Config{
		Addr:          ":" + getEnv("PORT", "8080"),
		DatabaseDSN:   os.Getenv("DB_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		InventoryTTL:  time.Duration(getIntEnv("INVENTORY_CACHE_TTL_SEC", 30)) * time.Second,
		AuthMode:      parseAuthMode(os.Getenv("AUTH_MODE")),
		AuthSecret:    os.Getenv("AUTH_SECRET"),
		IntrospectURL: os.Getenv("AUTH_INTROSPECT_URL"),
		IntrospectKey: os.Getenv("AUTH_INTROSPECT_API_KEY"),
		MaxPageSize:   getIntEnv("MAX_PAGE_SIZE", 100),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

func parseAuthMode(s string) AuthMode {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case AuthModeJWT:
		return AuthModeJWT
	case AuthModeIntrospect:
		return AuthModeIntrospect
	default:
		return AuthModeNone
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
