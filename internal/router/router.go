package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"petstore-api/internal/adapters/auth/introspect"
	"petstore-api/internal/adapters/auth/jwtauth"
	"petstore-api/internal/adapters/cache/rediscache"
	mem "petstore-api/internal/adapters/storage/memory"
	pg "petstore-api/internal/adapters/storage/postgres"
	"petstore-api/internal/config"
	"petstore-api/internal/domain/pets"
	"petstore-api/internal/domain/store"
	"petstore-api/internal/domain/tasks"
	"petstore-api/internal/domain/users"
	gql "petstore-api/internal/graphql"
	"petstore-api/internal/middleware"
	"petstore-api/internal/platform/logger"
	"petstore-api/internal/ports/auth"
)

type Options struct {
	Cfg config.Config
	Log logger.Logger

	// Overrides para tests; si vienen en nil se arman desde Cfg.
	Verifier auth.Verifier
	DB       *sql.DB
}

// New arma el router completo: middleware, repos (Postgres o memoria),
// services, rutas REST por módulo y el endpoint GraphQL.
func New(opts Options) (http.Handler, error) {
	cfg := opts.Cfg
	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{})
	}

	verifier, err := buildVerifier(opts)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		taskRepo tasks.Repository
		catRepo  pets.CategoryRepository
		tagRepo  pets.TagRepository
		petRepo  pets.PetRepository
		ordRepo  store.Repository
		userRepo users.Repository
	)

	db := opts.DB
	if db == nil && cfg.DatabaseDSN != "" {
		opened, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		db = opened
	}

	if db != nil {
		taskRepo = pg.NewTasksRepo(db)
		catRepo = pg.NewCategoriesRepo(db)
		tagRepo = pg.NewTagsRepo(db)
		petRepo = pg.NewPetsRepo(db)
		ordRepo = pg.NewOrdersRepo(db)
		userRepo = pg.NewUsersRepo(db)
		log.Info("storage", "driver", "postgres")
	} else {
		st := mem.New()
		taskRepo = st.Tasks()
		catRepo = st.Categories()
		tagRepo = st.Tags()
		petRepo = st.Pets()
		ordRepo = st.Orders()
		userRepo = st.Users()
		log.Info("storage", "driver", "memory")
	}

	tasksSvc := tasks.NewService(taskRepo, cfg.MaxPageSize)
	petsSvc := pets.NewService(catRepo, tagRepo, petRepo, cfg.MaxPageSize)
	storeSvc := store.NewService(ordRepo, petsSvc, cfg.MaxPageSize)
	usersSvc := users.NewService(userRepo, cfg.MaxPageSize)

	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL, log)
		if err != nil {
			// el cache es best-effort: sin Redis se sigue sin cache
			log.Warn("redis unavailable, inventory cache disabled", "err", err.Error())
		} else {
			storeSvc = storeSvc.WithCache(c, cfg.InventoryTTL)
		}
	}

	// cualquier mutación de pets invalida el inventario cacheado
	petsSvc.SetOnChange(storeSvc.InvalidateInventory)

	tasks.RegisterRoutes(r, tasksSvc)
	pets.RegisterRoutes(r, petsSvc)
	store.RegisterRoutes(r, storeSvc)
	users.RegisterRoutes(r, usersSvc)

	schema, err := gql.NewSchema(tasksSvc)
	if err != nil {
		return nil, err
	}
	gql.RegisterRoutes(r, schema)

	return r, nil
}

func buildVerifier(opts Options) (auth.Verifier, error) {
	if opts.Verifier != nil {
		return opts.Verifier, nil
	}

	switch opts.Cfg.AuthMode {
	case config.AuthModeJWT:
		return jwtauth.New(opts.Cfg.AuthSecret)
	case config.AuthModeIntrospect:
		return introspect.New(introspect.Config{
			BaseURL: opts.Cfg.IntrospectURL,
			APIKey:  opts.Cfg.IntrospectKey,
		})
	default:
		// modo dev: sin verifier, AuthContext acepta X-Debug-User-ID
		return nil, nil
	}
}
