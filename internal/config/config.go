package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"

	"github.com/maskaddr/maskaddr/internal/domain"
)

type Config struct {
	Server Server `yaml:"server"`
	Auth   Auth   `yaml:"auth"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	SeedDemo      bool   `yaml:"seedDemo"`
}

type Auth struct {
	JWTSecret         string `yaml:"jwtSecret"`
	TokenTTLHours     int    `yaml:"tokenTTLHours"`
	OtpTTLMinutes     int    `yaml:"otpTTLMinutes"`
	ResolveTTLSeconds int    `yaml:"resolveTTLSeconds"`
	Registration      string `yaml:"registration"` // open, close
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Auth.TokenTTLHours == 0 {
		config.Auth.TokenTTLHours = 24
	}
	if config.Auth.OtpTTLMinutes == 0 {
		config.Auth.OtpTTLMinutes = 5
	}
	if config.Auth.ResolveTTLSeconds == 0 {
		config.Auth.ResolveTTLSeconds = 30
	}
	if config.Auth.Registration == "" {
		config.Auth.Registration = "open"
	}

	return config, nil
}

// Domain converts the file config into the runtime Config services consume.
func (c Config) Domain() domain.Config {
	return domain.Config{
		JWTSecret:    c.Auth.JWTSecret,
		TokenTTL:     time.Duration(c.Auth.TokenTTLHours) * time.Hour,
		OtpTTL:       time.Duration(c.Auth.OtpTTLMinutes) * time.Minute,
		ResolveTTL:   time.Duration(c.Auth.ResolveTTLSeconds) * time.Second,
		Registration: c.Auth.Registration,
	}
}
