package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   Server   `yaml:"server"`
	Graph    Graph    `yaml:"graph"`
	Download Download `yaml:"download"`
	Database Database `yaml:"database"`
	Shops    Shops    `yaml:"shops"`
	S3       S3       `yaml:"s3"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Graph holds Meta Graph API configuration
type Graph struct {
	BaseURL    string `yaml:"base_url" env:"GRAPH_BASE_URL" env-default:"https://graph.facebook.com"`
	APIVersion string `yaml:"api_version" env:"GRAPH_API_VERSION" env-default:"v21.0"`

	// Instagram container publish polling
	ContainerMaxRetries int           `yaml:"container_max_retries" env:"GRAPH_CONTAINER_MAX_RETRIES" env-default:"4"`
	ContainerBaseDelay  time.Duration `yaml:"container_base_delay" env:"GRAPH_CONTAINER_BASE_DELAY" env-default:"2s"`
	ContainerMaxDelay   time.Duration `yaml:"container_max_delay" env:"GRAPH_CONTAINER_MAX_DELAY" env-default:"15s"`
}

// Download bounds remote media acquisition
type Download struct {
	Timeout    time.Duration `yaml:"timeout" env:"DOWNLOAD_TIMEOUT" env-default:"30s"`
	MaxRetries int           `yaml:"max_retries" env:"DOWNLOAD_MAX_RETRIES" env-default:"2"`
	BaseDelay  time.Duration `yaml:"base_delay" env:"DOWNLOAD_BASE_DELAY" env-default:"500ms"`
	MaxDelay   time.Duration `yaml:"max_delay" env:"DOWNLOAD_MAX_DELAY" env-default:"5s"`
}

// Database holds database configuration. History persistence is optional:
// an empty DSN disables it and the service runs stateless.
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Shops points at the shop-to-target mapping file
type Shops struct {
	MappingFile string `yaml:"mapping_file" env:"SHOPS_MAPPING_FILE" env-default:"shops.yaml"`
}

// S3 holds S3/MinIO storage configuration for media re-hosting
type S3 struct {
	Enabled         bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"media"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/media"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
