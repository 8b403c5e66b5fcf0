package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration for the audit log service.
// Everything is read from the environment once at startup and injected from
// there; nothing in the core consults ambient globals afterwards.
type Server struct {
	Addr        string
	DatabaseURL string

	// Environment selects the storage namespace (audit_dev, audit_uat,
	// audit_prd) so non-production ingestion never mixes with production data.
	Environment string

	// AllowedOrigins is the strict CORS allow-list for browser clients.
	AllowedOrigins []string

	// OperatorAPIKey guards the report endpoints via opaque shared-secret
	// comparison. Empty locks the reports down entirely.
	OperatorAPIKey string

	// Debug enables verbose request logging.
	Debug bool
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A local .env file is honored when present and ignored otherwise.
func FromEnv() Server {
	_ = godotenv.Load()

	addr := os.Getenv("AUDITLOG_ADDR")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Environment:    env,
		AllowedOrigins: origins,
		OperatorAPIKey: os.Getenv("OPERATOR_API_KEY"),
		Debug:          os.Getenv("DEBUG") == "true",
	}
}
