// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBackendURL is the local placeholder used when no backend is configured.
const DefaultBackendURL = "http://localhost:8000"

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Solana  SolanaConfig
	Wallet  WalletConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type BackendConfig struct {
	BaseURL            string
	Timeout            time.Duration
	TransferLogTimeout time.Duration
}

type SolanaConfig struct {
	Network             string
	MainnetRPC          string
	DevnetRPC           string
	TestnetRPC          string
	ConfirmTimeout      time.Duration
	ConfirmPollInterval time.Duration
}

type WalletConfig struct {
	KeypairPath string
	Trusted     bool
	AutoApprove bool
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "127.0.0.1"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 2*time.Minute),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS"),
			RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 2),
			RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 5),
		},
		Backend: BackendConfig{
			BaseURL:            strings.TrimRight(getEnv("BACKEND_URL", getEnv("VITE_BACKEND_URL", DefaultBackendURL)), "/"),
			Timeout:            getDurationEnv("HTTP_TIMEOUT", 15*time.Second),
			TransferLogTimeout: getDurationEnv("TRANSFER_LOG_TIMEOUT", 10*time.Second),
		},
		Solana: SolanaConfig{
			Network:             getEnv("SOLANA_NETWORK", "mainnet-beta"),
			MainnetRPC:          getEnv("SOLANA_RPC_MAINNET", ""),
			DevnetRPC:           getEnv("SOLANA_RPC_DEVNET", ""),
			TestnetRPC:          getEnv("SOLANA_RPC_TESTNET", ""),
			ConfirmTimeout:      getDurationEnv("CONFIRM_TIMEOUT", 60*time.Second),
			ConfirmPollInterval: getDurationEnv("CONFIRM_POLL_INTERVAL", 2*time.Second),
		},
		Wallet: WalletConfig{
			KeypairPath: getEnv("WALLET_KEYPAIR", defaultKeypairPath()),
			Trusted:     getBoolEnv("WALLET_TRUSTED", false),
			AutoApprove: getBoolEnv("WALLET_AUTO_APPROVE", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// defaultKeypairPath mirrors the Solana CLI default location.
func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}
