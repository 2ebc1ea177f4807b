package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvFiles are loaded, when present, before the environment is read.
var DefaultEnvFiles = []string{".env.local", ".env"}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("localpath", ValidateLocalpath)
	validate.RegisterValidation("pathpattern", ValidatePathPattern)

	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.public_url", "http://localhost:3000")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.limits.max_file_size", 5<<20)
	v.SetDefault("server.limits.max_multipart_mem", 8<<20)
	v.SetDefault("server.limits.max_payload_size", 64<<10)

	v.SetDefault("uploads.strict_slots", false)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.public_dir", "public")
	v.SetDefault("storage.local.assets_dir", "assets")
	v.SetDefault("storage.local.legacy_dir", "uploads")
	v.SetDefault("storage.remote.account", "")
	v.SetDefault("storage.remote.access_key", "")
	v.SetDefault("storage.remote.secret_key", "")
	v.SetDefault("storage.remote.endpoint", "")
	v.SetDefault("storage.remote.region", "")
	v.SetDefault("storage.remote.public_url", "")
	v.SetDefault("storage.remote.key_pattern", "safari-admin/{filename}")
	v.SetDefault("storage.remote.disable_ssl", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"storage.remote.account":    EnvRemoteAccount,
		"storage.remote.access_key": EnvRemoteAccessKey,
		"storage.remote.secret_key": EnvRemoteSecretKey,
		"server.admin_password":     EnvAdminPassword,
		"server.public_url":         EnvPublicUrl,
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}

	return nil
}

// LoadEnvFiles loads each existing dotenv file without overriding variables
// already set in the process environment. It returns the files it loaded.
func LoadEnvFiles(files ...string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if f == "" {
			continue
		}

		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, err
		}

		if err := godotenv.Load(f); err != nil {
			return loaded, fmt.Errorf("load %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}

	return loaded, nil
}

// Load builds the configuration from defaults, an optional YAML file and the
// bound environment variables without validating it. An empty file skips the
// YAML step; a named file that cannot be read is an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadConfig is Load followed by Validate.
func LoadConfig(file string) (*Config, error) {
	cfg, err := Load(file)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
