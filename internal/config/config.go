package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		PublicBaseURL      string   `yaml:"public_base_url"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Issuer     string `yaml:"issuer"`
		KeyFile    string `yaml:"key_file"` // seed ed25519 (base64); vacío = efímera
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		// LoginPath / DashboardPath: destinos del route guard. Los defaults
		// replican los del paquete authz; acá solo se sobreescriben.
		LoginPath     string `yaml:"login_path"`
		DashboardPath string `yaml:"dashboard_path"`
		Verify        struct {
			TTL time.Duration `yaml:"ttl"`
		} `yaml:"verify"`
	} `yaml:"auth"`

	Rate struct {
		Enabled     bool   `yaml:"enabled"`
		Window      string `yaml:"window"`
		MaxRequests int    `yaml:"max_requests"`

		Login struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Email struct {
		DebugEchoLinks bool `yaml:"debug_echo_links"`
	} `yaml:"email"`

	// Checkout: poller de estado de pago para facturas crypto pendientes.
	Checkout struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		PendingTTL   time.Duration `yaml:"pending_ttl"`
	} `yaml:"checkout"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "15m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "720h" // 30d
	}
	if c.Auth.Verify.TTL == 0 {
		c.Auth.Verify.TTL = 48 * time.Hour
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Checkout.PollInterval == 0 {
		c.Checkout.PollInterval = 30 * time.Second
	}
	if c.Checkout.PendingTTL == 0 {
		c.Checkout.PendingTTL = 30 * time.Minute
	}

	// env overrides para secretos (no van en YAML versionado)
	if v := os.Getenv("HC_STORAGE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("HC_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("HC_SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}

	// validar duraciones en string
	for _, d := range []string{
		c.Storage.Postgres.ConnMaxLifetime,
		c.JWT.AccessTTL,
		c.JWT.RefreshTTL,
		c.Rate.Window,
		c.Rate.Login.Window,
		c.Cache.Memory.DefaultTTL,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// AccessTTL parsea el TTL de access token (ya validado en Load).
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

// RefreshTTL parsea el TTL de refresh token (ya validado en Load).
func (c *Config) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.RefreshTTL)
	return d
}
