package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Mode is passed to gin.SetMode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

// Supported database drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// EmailConfig configures outbound notifications. When Enabled is false
// notifications are only written to the log.
type EmailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Sender  string `mapstructure:"sender"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in path is loaded into the process environment first, if present.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load(path + "/.env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "athleteiq")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "athleteiq-reports")
	v.SetDefault("s3.use_ssl", true)
	// Explicit defaults are needed for AutomaticEnv to pick these keys up on Unmarshal.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "720h")
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.sender", "no-reply@athleteiq.local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be positive")
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			return errors.New("database.uri and database.name are required for the mongo driver")
		}
	case DriverMemory:
	default:
		return errors.New("database.driver must be one of: mongo, memory")
	}
	return nil
}
