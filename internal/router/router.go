package router

import (
	"database/sql"
	_ "embed"
	"net/http"
	"os"

	mem "pet-med-tracker/internal/adapters/storage/memory"
	pg "pet-med-tracker/internal/adapters/storage/postgres"
	"pet-med-tracker/internal/domain/doses"
	"pet-med-tracker/internal/domain/medications"
	"pet-med-tracker/internal/domain/pets"
	"pet-med-tracker/internal/middleware"
	"pet-med-tracker/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openapiSpec []byte

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: rate limit de la superficie /dose. nil => apagado.
	Redis *redis.Client
}

func NewRouter(opts Options) http.Handler {
	h, _ := Build(opts)
	return h
}

// Build arma el router y además devuelve el service de dosis cableado
// contra los mismos repos, para el consumer de la cola.
func Build(opts Options) (http.Handler, *doses.Service) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openapiSpec)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.json")))

	var (
		petRepo  pets.Repository
		medRepo  medications.Repository
		doseRepo doses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		medRepo = pg.NewMedicationsRepo(db)
		doseRepo = pg.NewDosesRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		medRepo = mem.NewMedicationsRepo()
		doseRepo = mem.NewDosesRepo()
	}

	// Services por módulo. El cascade de delete va directo al repo de
	// dosis; el state machine queda como único escritor de status.
	petsSvc := pets.NewService(petRepo)
	medsSvc := medications.NewService(medRepo, doseRepo)
	dosesSvc := doses.NewService(doseRepo, medsSvc)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	medications.RegisterRoutes(r, medsSvc, petsSvc)
	doses.RegisterRoutes(r, dosesSvc, medsSvc)

	// Superficie sin login (links cortos): rate limit aparte.
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RateLimit(middleware.DefaultRateLimit(), opts.Redis))
		doses.RegisterPublicRoutes(gr, dosesSvc, medsSvc, petsSvc)
	})

	return r, dosesSvc
}
