package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all process-wide settings. It is loaded once in main and
// passed explicitly into the components that need it.
type Config struct {
	DBDriver   string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"3306"`
	DBUser     string `envconfig:"DB_USER" default:"taskuser"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"taskpassword"`
	DBName     string `envconfig:"DB_NAME" default:"taskhive"`

	JWTSecret    string        `envconfig:"JWT_SECRET" default:"default-secret-key-change-me"`
	TokenExpiry  time.Duration `envconfig:"TOKEN_EXPIRY" default:"1h"`
	UploadDir    string        `envconfig:"UPLOAD_DIR" default:"./uploads"`
	HTTPAddr     string        `envconfig:"HTTP_ADDR" default:":8080"`
	GinMode      string        `envconfig:"GIN_MODE" default:"debug"`
	SeedDatabase bool          `envconfig:"SEED_DATABASE" default:"true"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
