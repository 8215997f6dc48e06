package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Database   Database
	Limiter    Limiter
	Auth       AuthConfig
	SMTP       SMTPConfig
	Email      EmailConfig
	Cache      Cache
	Demo       DemoConfig
}

type HttpServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	JWT          JWTConfig
	PasswordSalt string `env:"AUTH_PASSWORD_SALT" env-required:"true"`
}

type JWTConfig struct {
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"24h"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST" env-required:"true"`
	Port int    `env:"SMTP_PORT" env-required:"true"`
	From string `env:"SMTP_FROM" env-required:"true"`
	Pass string `env:"SMTP_PASS" env-required:"true"`
}

type EmailConfig struct {
	Enabled   bool `env:"EMAIL_ENABLED" env-default:"false"`
	Templates EmailTemplates
}

type EmailTemplates struct {
	Verification      string `env:"EMAIL_TEMPLATE_VERIFICATION" env-default:"verification.html"`
	Credentials       string `env:"EMAIL_TEMPLATE_CREDENTIALS" env-default:"credentials.html"`
	ExpirationWarning string `env:"EMAIL_TEMPLATE_EXPIRATION_WARNING" env-default:"expiration_warning.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-required:"true" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

// DemoConfig bounds the trial-environment control plane: how many tenants
// may run at once, how long they live and where per-tenant resources come
// from. Resolved once at startup and passed down explicitly.
type DemoConfig struct {
	MaxConcurrentTenants int           `env:"MAX_CONCURRENT_TENANTS" env-default:"20"`
	DurationHours        int           `env:"DEMO_DURATION_HOURS" env-default:"24"`
	MaxDurationHours     int           `env:"DEMO_MAX_DURATION_HOURS" env-default:"72"`
	VerificationTTL      time.Duration `env:"DEMO_VERIFICATION_TTL" env-default:"24h"`
	BaseDomain           string        `env:"DEMO_BASE_DOMAIN" env-default:"demo.nodepress.app"`
	ResourceDir          string        `env:"DEMO_RESOURCE_DIR" env-default:"/var/lib/nodepress/demos"`
	PortRangeStart       int           `env:"DEMO_PORT_RANGE_START" env-default:"9100"`
	PortRangeEnd         int           `env:"DEMO_PORT_RANGE_END" env-default:"9199"`
	RuntimeBin           string        `env:"DEMO_RUNTIME_BIN" env-default:"/usr/local/bin/nodepress-cms"`
	ProvisionTimeout     time.Duration `env:"DEMO_PROVISION_TIMEOUT" env-default:"2m"`
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
