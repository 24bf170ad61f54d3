package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const EnvDevelopment = "development"

type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL"`

	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER"   envDefault:"docswap"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"docswap-api"`
	JWTTTL      time.Duration `env:"JWT_TTL"      envDefault:"24h"`
	OTPTTL      time.Duration `env:"OTP_TTL"      envDefault:"10m"`

	// RedisAddr хранилище отозванных токенов. Если не задан, используется хранилище в памяти процесса.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	// NATSURL шина событий для уведомлений. Если не задан, события пишутся в лог.
	NATSURL          string        `env:"NATS_URL"`
	DispatchWorkers  uint          `env:"DISPATCH_WORKERS"  envDefault:"4"`
	DispatchLimit    int           `env:"DISPATCH_LIMIT"    envDefault:"100"`
	DispatchInterval time.Duration `env:"DISPATCH_INTERVAL" envDefault:"1s"`

	SMTP  SMTP  `envPrefix:"SMTP_"`
	MinIO MinIO `envPrefix:"MINIO_"`
}

// SMTP почтовый сервер для писем с кодами подтверждения. Если Host пуст, письма пишутся в лог.
type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"     envDefault:"no-reply@docswap.local"`
	SSL      bool   `env:"SSL"`
}

type MinIO struct {
	Endpoint  string `env:"ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET"     envDefault:"review-evidence"`
	UseSSL    bool   `env:"USE_SSL"`
	PublicURL string `env:"PUBLIC_URL"`
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// LoadConfig читает необязательный .env, переменные окружения и флаги командной строки.
// Переменные окружения имеют приоритет над флагами.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}
	return load(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func load(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagErr := loadFlags(&flagsConfig, args); flagErr != nil {
		return nil, flagErr
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	switch {
	case c.DatabaseDSN == "":
		return errors.New("database DSN is not set")
	case c.JWTSecret == "":
		return errors.New("jwt secret is not set")
	case c.JWTTTL <= 0:
		return errors.New("jwt ttl must be positive")
	case c.OTPTTL <= 0:
		return errors.New("otp ttl must be positive")
	}
	return nil
}

func loadFlags(flagConfig *Config, args []string) error {
	flags := flag.NewFlagSet("docswap", flag.ContinueOnError)
	flags.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flags.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flags.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flags.StringVar(&flagConfig.JWTSecret, "s", "", "JWT signing secret")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %s", err.Error())
	}
	return nil
}

// mergeConfig берет из флагов только то, что не задано в окружении. Остальные поля читаются только из env.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := *envConfig
	conf.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	conf.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	conf.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	conf.JWTSecret = defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret)
	return &conf
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
