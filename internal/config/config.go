// Package config defines the service configuration and its loading order:
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr" validate:"required"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// TimeoutSeconds bounds the time a request may spend in the handler.
	TimeoutSeconds int `koanf:"timeout_seconds" validate:"min=1"`

	// CORSOrigins lists the origins allowed to call the API from a
	// browser. Empty disables CORS handling entirely.
	CORSOrigins []string `koanf:"cors_origins"`

	// StoreBackend selects where contacts live: memory or mongo.
	StoreBackend string `koanf:"store_backend" validate:"oneof=memory mongo"`

	// SnapshotPath makes the memory backend persist a CSV snapshot of
	// the contact list to this file. Empty keeps contacts purely in
	// memory for the process lifetime.
	SnapshotPath string `koanf:"snapshot_path"`

	// Mongo connection settings, used only with the mongo backend.
	MongoURI        string `koanf:"mongo_uri" validate:"required_if=StoreBackend mongo"`
	MongoDatabase   string `koanf:"mongo_database" validate:"required_if=StoreBackend mongo"`
	MongoCollection string `koanf:"mongo_collection" validate:"required_if=StoreBackend mongo"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:            ":8800",
		LogLevel:        "info",
		LogFormat:       "text",
		TimeoutSeconds:  30,
		StoreBackend:    "memory",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "contactd",
		MongoCollection: "contacts",
	}
}

var validate = validator.New()

// Validate checks the configuration invariants and returns a descriptive
// error for the first violated field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return fmt.Errorf("config field %s is invalid (%s)", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}
