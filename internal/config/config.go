package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MetricsPort     string `env:"METRICS_PORT" envDefault:"9100"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"owner"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"Shop Owner"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // hours, 14 days
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Email struct {
		NotifyAddress string `env:"NOTIFY_ADDRESS,required"`
		SMTP          struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	MailWorker struct {
		MetricsPort string `env:"METRICS_PORT" envDefault:"9101"`
	} `envPrefix:"MAIL_WORKER_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	OTP struct {
		Expiration int `env:"EXPIRATION" envDefault:"900"` // seconds
	} `envPrefix:"OTP_"`
	NewAdmin struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_ADMIN_"`
	Business struct {
		Name           string `env:"NAME" envDefault:"Glossline Mobile Detailing"`
		Timezone       string `env:"TIMEZONE" envDefault:"Local"`
		MaxAdvanceDays int    `env:"MAX_ADVANCE_DAYS" envDefault:"60"`
	} `envPrefix:"BUSINESS_"`
	RateLimit struct {
		BookingsPerWindow int `env:"BOOKINGS_PER_WINDOW" envDefault:"5"`
		WindowSeconds     int `env:"WINDOW_SECONDS" envDefault:"3600"`
		// reverse proxies whose X-Forwarded-For is believed, as CIDRs or single addresses
		TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	} `envPrefix:"RATE_LIMIT_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// the first error keeps the log line readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := cfg.TrustedProxies(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the single business timezone all dates are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	if c.Business.Timezone == "" || c.Business.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Business.Timezone)
}

// TrustedProxies parses RATE_LIMIT_TRUSTED_PROXIES. A bare address is a single-host prefix.
func (c *Config) TrustedProxies() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.RateLimit.TrustedProxies))
	for _, raw := range c.RateLimit.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", raw)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
