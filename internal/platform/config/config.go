package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName     string
	HTTPPort        string
	PostgresDSN     string
	AdminPrincipal  string
	TreasuryAccount string
	ClaimDelayUS    uint64
	AuditTopic      string

	EnableAuditRelay bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "faucet"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	topic := strings.TrimSpace(os.Getenv("FAUCET_AUDIT_TOPIC"))
	if topic == "" {
		topic = "faucet.audit"
	}

	return Config{
		ServiceName:     service,
		HTTPPort:        port,
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		AdminPrincipal:  strings.TrimSpace(os.Getenv("FAUCET_ADMIN_PRINCIPAL")),
		TreasuryAccount: strings.TrimSpace(os.Getenv("FAUCET_TREASURY_ACCOUNT")),
		ClaimDelayUS:    envUint("FAUCET_CLAIM_DELAY_US", 1_000_000),
		AuditTopic:      topic,

		EnableAuditRelay: envBool("ENABLE_AUDIT_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envUint(name string, fallback uint64) uint64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
