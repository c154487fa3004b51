// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Before the file is read, an optional .env file in the working directory
// is loaded into the process environment, so anything it defines can
// override the YAML values through the env:"..." tags below.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers understood by Storage.Driver.
const (
	DriverRemote = "remote"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	HTTPServer  `yaml:"http_server"`
	Storage     Storage     `yaml:"storage"`
	StudentsAPI StudentsAPI `yaml:"students_api"`
	Session     Session     `yaml:"session"`
	Admin       Admin       `yaml:"admin"`
	Workspace   Workspace   `yaml:"workspace"`
}

// HTTPServer holds settings for the console's own HTTP server.
type HTTPServer struct {
	Addr         string        `yaml:"address"       env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"HTTP_SERVER_READ_TIMEOUT"  env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env:"HTTP_SERVER_IDLE_TIMEOUT"  env-default:"60s"`
}

// Storage selects where student records live. "remote" talks to the
// Students API; "sqlite" keeps them in a local file for offline use.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"remote"`
	Path   string `yaml:"path"   env:"STORAGE_PATH"   env-default:"storage/students.db"`
}

// StudentsAPI points at the remote Students REST API.
type StudentsAPI struct {
	BaseURL string        `yaml:"base_url" env:"STUDENTS_API_BASE_URL" env-default:"http://localhost:3000"`
	Timeout time.Duration `yaml:"timeout"  env:"STUDENTS_API_TIMEOUT"  env-default:"10s"`
}

// Session configures the cookie that carries the login flag.
type Session struct {
	// Secret authenticates the cookie. Changing it signs everyone out.
	Secret     string `yaml:"secret"      env:"SESSION_SECRET" env-required:"true"`
	CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"students-admin"`
	// MaxAge is the cookie lifetime in seconds. The flag itself never
	// expires; this only bounds how long the browser keeps the cookie.
	MaxAge int `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"2592000"`
}

// Admin is the single credential pair accepted by the login form.
// It is compared in plain text.
type Admin struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"MuhammadAmin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD" env-default:"1234"`
}

// Workspace bounds the per-session list state kept in memory.
type Workspace struct {
	MaxIdle       time.Duration `yaml:"max_idle"       env:"WORKSPACE_MAX_IDLE"       env-default:"2h"`
	PruneInterval time.Duration `yaml:"prune_interval" env:"WORKSPACE_PRUNE_INTERVAL" env-default:"10m"`
}

// MustLoad reads, validates, and returns the application config.
// It exits the process if the config cannot be loaded.
func MustLoad() *Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("cannot load .env: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
