package main

import (
	"net/http"
	"os"
	"time"

	"pet-med-tracker/internal/adapters/auth/accounts"
	"pet-med-tracker/internal/adapters/auth/jwtauth"
	pg "pet-med-tracker/internal/adapters/storage/postgres"
	"pet-med-tracker/internal/platform/logger"
	"pet-med-tracker/internal/platform/redisconn"
	"pet-med-tracker/internal/ports/auth"
	"pet-med-tracker/internal/queue"
	"pet-med-tracker/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env solo para dev; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{
		AuthVerifier: buildVerifier(log),
		Redis:        redisconn.NewFromEnv(),
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := pg.Open(dsn)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	}

	h, dosesSvc := router.Build(opts)

	// Consumer de la cola del servicio de recordatorios (opcional).
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		go queue.StartDoseConsumer(url, dosesSvc, log)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// buildVerifier elige el verifier de sesión:
// - JWT_SECRET => validación local HS256
// - ACCOUNTS_BASE_URL + ACCOUNTS_API_KEY => introspección remota
// - nada => modo dev (header X-Debug-User-ID)
func buildVerifier(log logger.Logger) auth.AuthVerifier {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return jwtauth.NewVerifier(secret)
	}

	if base := os.Getenv("ACCOUNTS_BASE_URL"); base != "" {
		client, err := accounts.NewClient(accounts.Config{
			BaseURL: base,
			APIKey:  os.Getenv("ACCOUNTS_API_KEY"),
		})
		if err != nil {
			log.Error("accounts client config invalid", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		return accounts.NewVerifier(client)
	}

	log.Warn("no session verifier configured, running in dev mode", nil)
	return nil
}
