package config

import (
	"fmt"     // DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // Joining missing key names

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort        string // Application port
	DBUser         string // Database user
	DBPassword     string // Database password
	DBHost         string // Database host
	DBPort         string // Database port
	DBName         string // Database name
	RedisAddr      string // Redis server address
	RedisPass      string // Redis password
	RedisDB        int    // Redis database number
	JWTSecret      string // Session JWT signing secret
	AuthDomain     string // Domain the login payload is bound to
	AuthServiceURL string // Base URL of the external wallet-auth service
	ChainRPCURL    string // Ethereum JSON-RPC endpoint
	ChainID        int64  // Chain id the login payload is pinned to
	AccessContract string // ERC-1155 access contract address
	IsProd         bool   // Is production environment
}

// ConfigError reports every missing required key in one error, so a broken
// deployment fails once at startup instead of per request.
type ConfigError struct {
	Missing []string // Names of the absent environment variables
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return "missing required config: " + strings.Join(e.Missing, ", ")
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	chainID, _ := strconv.ParseInt(os.Getenv("CHAIN_ID"), 10, 64)
	return &Config{
		AppPort:        os.Getenv("APP_PORT"),          // Application port
		DBUser:         os.Getenv("DB_USER"),           // Database user
		DBPassword:     os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:         os.Getenv("DB_HOST"),           // Database host
		DBPort:         os.Getenv("DB_PORT"),           // Database port
		DBName:         os.Getenv("DB_NAME"),           // Database name
		RedisAddr:      os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:        redisDB,                        // Redis database number
		JWTSecret:      os.Getenv("JWT_SECRET"),        // Session JWT signing secret
		AuthDomain:     os.Getenv("AUTH_DOMAIN"),       // Login payload domain
		AuthServiceURL: os.Getenv("AUTH_SERVICE_URL"),  // Wallet-auth service base URL
		ChainRPCURL:    os.Getenv("CHAIN_RPC_URL"),     // JSON-RPC endpoint
		ChainID:        chainID,                        // Chain id
		AccessContract: os.Getenv("ACCESS_CONTRACT"),   // Access contract address
		IsProd:         os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// Validate checks the keys the access gate cannot run without. Returns a
// single *ConfigError listing every missing key, or nil.
func (c *Config) Validate() error {
	required := []struct {
		key string // Environment variable name
		val string // Loaded value
	}{
		{"JWT_SECRET", c.JWTSecret},            // Session signing
		{"AUTH_DOMAIN", c.AuthDomain},          // Login payload binding
		{"AUTH_SERVICE_URL", c.AuthServiceURL}, // Wallet-auth service
		{"CHAIN_RPC_URL", c.ChainRPCURL},       // Ledger endpoint
		{"ACCESS_CONTRACT", c.AccessContract},  // Access contract
	}
	var missing []string // Collect all absent keys
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.key)
		}
	}
	// Chain id must be a positive integer
	if c.ChainID <= 0 {
		missing = append(missing, "CHAIN_ID")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing} // One error for all of them
	}
	return nil
}

// DSN builds the MySQL DSN used by the server and migrate commands
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
