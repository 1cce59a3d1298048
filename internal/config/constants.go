package config

// Environment variable names
const (
	EnvPort                = "PORT"
	EnvLogLevel            = "LOG_LEVEL"
	EnvDBUser              = "DB_USER"
	EnvDBPassword          = "DB_PASSWORD"
	EnvDBHost              = "DB_HOST"
	EnvDBPort              = "DB_PORT"
	EnvDBName              = "DB_NAME"
	EnvLogDir              = "LOG_DIR"
	EnvAPIKey              = "API_KEY"
	EnvChainRPCURL         = "CHAIN_RPC_URL"
	EnvChainCluster        = "CHAIN_CLUSTER"
	EnvGameMint            = "GAME_MINT"
	EnvExternalMint        = "EXTERNAL_MINT"
	EnvReserveWallet       = "RESERVE_WALLET"
	EnvOperatorKeyPath     = "OPERATOR_KEY_PATH"
	EnvCustodialWallet     = "CUSTODIAL_WALLET"
	EnvWithdrawScale       = "WITHDRAW_SCALE_FACTOR"
	EnvSyncIntervalSeconds = "SYNC_INTERVAL_SECONDS"
	EnvChainTimeoutSeconds = "CHAIN_TIMEOUT_SECONDS"
)

// Default values
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "INFO"
	DefaultDBUser              = "postgres"
	DefaultDBPassword          = "postgres"
	DefaultDBHost              = "localhost"
	DefaultDBPort              = "5432"
	DefaultDBName              = "treasury"
	DefaultLogDir              = "logs"
	DefaultChainRPCURL         = "http://localhost:8899"
	DefaultChainCluster        = "devnet"
	DefaultWithdrawScale       = 100
	DefaultSyncIntervalSeconds = 300
	DefaultChainTimeoutSeconds = 30
)

// Database pool settings
const (
	DefaultMaxConnections = 25
)
