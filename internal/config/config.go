package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port       int
	LogLevel   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	LogDir     string
	APIKey     string // API key for authentication

	// Chain adapter settings. These are immutable after load; the adapter
	// receives them at construction rather than reading process globals.
	ChainRPCURL     string
	ChainCluster    string
	GameMint        string // mint address of the fungible game credit
	ExternalMint    string // mint address of the external token paid on withdrawal
	OperatorKeyPath string // operator signing key, owns every custodial account
	CustodialWallet string // shared wallet address holding non-fungible items
	ReserveWallet   string // operator reserve funding withdrawal payouts
	ChainTimeout    time.Duration

	// WithdrawScaleFactor converts internal credit units to external token
	// units by integer division. Withdraw amounts that do not divide evenly
	// are rejected.
	WithdrawScaleFactor int64

	// SyncInterval is how often reconciliation compares ledger balances to
	// on-chain reads.
	SyncInterval time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv(EnvLogLevel, DefaultLogLevel),
		DBUser:          getEnv(EnvDBUser, DefaultDBUser),
		DBPassword:      getEnv(EnvDBPassword, DefaultDBPassword),
		DBHost:          getEnv(EnvDBHost, DefaultDBHost),
		DBPort:          getEnv(EnvDBPort, DefaultDBPort),
		DBName:          getEnv(EnvDBName, DefaultDBName),
		LogDir:          getEnv(EnvLogDir, DefaultLogDir),
		APIKey:          getEnv(EnvAPIKey, ""),
		ChainRPCURL:     getEnv(EnvChainRPCURL, DefaultChainRPCURL),
		ChainCluster:    getEnv(EnvChainCluster, DefaultChainCluster),
		GameMint:        getEnv(EnvGameMint, ""),
		ExternalMint:    getEnv(EnvExternalMint, ""),
		OperatorKeyPath: getEnv(EnvOperatorKeyPath, ""),
		CustodialWallet: getEnv(EnvCustodialWallet, ""),
		ReserveWallet:   getEnv(EnvReserveWallet, ""),
	}

	port, err := getEnvInt(EnvPort, DefaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvPort, err)
	}
	cfg.Port = port

	scale, err := getEnvInt64(EnvWithdrawScale, DefaultWithdrawScale)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvWithdrawScale, err)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", EnvWithdrawScale, scale)
	}
	cfg.WithdrawScaleFactor = scale

	syncSeconds, err := getEnvInt(EnvSyncIntervalSeconds, DefaultSyncIntervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvSyncIntervalSeconds, err)
	}
	cfg.SyncInterval = time.Duration(syncSeconds) * time.Second

	timeoutSeconds, err := getEnvInt(EnvChainTimeoutSeconds, DefaultChainTimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvChainTimeoutSeconds, err)
	}
	cfg.ChainTimeout = time.Duration(timeoutSeconds) * time.Second

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s environment variable must be set for security", EnvAPIKey)
	}

	if cfg.GameMint == "" {
		return nil, fmt.Errorf("%s environment variable must be set", EnvGameMint)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
