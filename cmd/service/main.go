package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/checkout"
	"github.com/dropDatabas3/hellocard/internal/config"
	"github.com/dropDatabas3/hellocard/internal/email"
	httpserver "github.com/dropDatabas3/hellocard/internal/http"
	adminctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/auth"
	billingctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/billing"
	cardsctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/cards"
	healthctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/health"
	"github.com/dropDatabas3/hellocard/internal/http/metrics"
	"github.com/dropDatabas3/hellocard/internal/http/router"
	adminsvc "github.com/dropDatabas3/hellocard/internal/http/services/admin"
	authsvc "github.com/dropDatabas3/hellocard/internal/http/services/auth"
	billingsvc "github.com/dropDatabas3/hellocard/internal/http/services/billing"
	cardssvc "github.com/dropDatabas3/hellocard/internal/http/services/cards"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
	"github.com/dropDatabas3/hellocard/internal/rate"
	"github.com/dropDatabas3/hellocard/internal/session"
	"github.com/dropDatabas3/hellocard/internal/store"
	"github.com/dropDatabas3/hellocard/internal/store/pg"
	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"
)

var version = "dev" // se inyecta con -ldflags en el build

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// readSeed lee la seed ed25519 (base64) desde el archivo configurado.
// Vacío = clave efímera, que sólo sirve para dev.
func readSeed(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func printConfigSummary(c *config.Config) {
	log.Printf(`CONFIG:
  app.env=%s
  server(addr=%s, base=%s, cors=%v)

  storage.dsn_set=%t postgres(open=%d, idle=%d, lifetime=%s)

  cache.kind=%s redis(addr=%s, db=%d, prefix=%s)

  jwt(issuer=%s, key_file=%s, access_ttl=%s, refresh_ttl=%s)

  auth(login=%s, dashboard=%s, verify_ttl=%s)

  rate(enabled=%t, window=%s, max=%d, login=%d/%s)

  smtp(host=%s, port=%d, from=%s, tls=%s)
  email(debug_echo_links=%t)

  checkout(poll=%s, pending_ttl=%s)
`,
		c.App.Env,
		c.Server.Addr, c.Server.PublicBaseURL, c.Server.CORSAllowedOrigins,
		c.Storage.DSN != "", c.Storage.Postgres.MaxOpenConns, c.Storage.Postgres.MaxIdleConns, c.Storage.Postgres.ConnMaxLifetime,
		c.Cache.Kind, c.Cache.Redis.Addr, c.Cache.Redis.DB, c.Cache.Redis.Prefix,
		c.JWT.Issuer, c.JWT.KeyFile, c.JWT.AccessTTL, c.JWT.RefreshTTL,
		c.Auth.LoginPath, c.Auth.DashboardPath, c.Auth.Verify.TTL,
		c.Rate.Enabled, c.Rate.Window, c.Rate.MaxRequests, c.Rate.Login.Limit, c.Rate.Login.Window,
		c.SMTP.Host, c.SMTP.Port, c.SMTP.From, c.SMTP.TLS,
		c.Email.DebugEchoLinks,
		c.Checkout.PollInterval, c.Checkout.PendingTTL,
	)
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime config efectiva y termina")
	)
	flag.Parse()

	if *flagEnvFile != "" && fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: cargado %s", *flagEnvFile)
		}
	}

	cfgPath := *flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		if fileExists("configs/config.yaml") {
			cfgPath = "configs/config.yaml"
		} else {
			cfgPath = "configs/config.example.yaml"
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("HC_LOG_LEVEL"),
		ServiceName: "hellocard",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	zl := logger.L()

	// Destinos del route guard (defaults /login y /dashboard)
	authz.ConfigureNavigation(cfg.Auth.LoginPath, cfg.Auth.DashboardPath)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ────────────────────────── Store ──────────────────────────
	driver := "memory"
	if strings.TrimSpace(cfg.Storage.DSN) != "" {
		driver = "postgres"
	}
	st, err := store.New(rootCtx, store.Config{
		Driver: driver,
		DSN:    cfg.Storage.DSN,
		PG: pg.PoolConfig{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		},
	})
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()
	if driver == "memory" {
		zl.Warn("store en memoria: los datos viven en RAM (sólo dev)")
	}

	// ────────────────────────── Cache ──────────────────────────
	memTTL, _ := time.ParseDuration(cfg.Cache.Memory.DefaultTTL)
	cc, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: memTTL,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	defer func() { _ = cc.Close() }()

	// ────────────────────────── JWT ──────────────────────────
	seedB64, err := readSeed(cfg.JWT.KeyFile)
	if err != nil {
		log.Fatalf("jwt key file: %v", err)
	}
	issTag := cfg.JWT.Issuer
	if issTag == "" {
		issTag = cfg.Server.PublicBaseURL
	}
	if issTag == "" {
		issTag = "http://localhost:8080"
	}
	issuer, err := jwt.NewIssuer(issTag, seedB64, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("jwt issuer: %v", err)
	}
	if seedB64 == "" {
		zl.Warn("jwt: clave de firma efímera, los tokens mueren con el proceso")
	}

	sessions := session.NewProvider(issuer, cc, st)

	// Rate limit de login: sólo con Redis atrás; en memoria no hay
	// ventana compartida entre réplicas y preferimos no mentir.
	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled && strings.EqualFold(cfg.Cache.Kind, "redis") {
		rc := rdb.NewClient(&rdb.Options{
			Addr: cfg.Cache.Redis.Addr,
			DB:   cfg.Cache.Redis.DB,
		})
		defer func() { _ = rc.Close() }()
		win, _ := time.ParseDuration(cfg.Rate.Login.Window)
		loginLimiter = rate.NewRedisLimiter(rc, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.Login.Limit, win)
	}

	// ────────────────────────── Servicios ──────────────────────────
	var mailer authsvc.VerificationMailer
	if strings.TrimSpace(cfg.SMTP.Host) != "" {
		mailer = email.NewMailer(email.SMTPConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			From:               cfg.SMTP.From,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			TLSMode:            cfg.SMTP.TLS,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		})
	} else if !cfg.Email.DebugEchoLinks {
		log.Fatal("smtp: sin host configurado y debug_echo_links apagado, la verificación de cuentas no puede salir")
	}

	authService := authsvc.NewService(st, issuer, cc, sessions, mailer, authsvc.Options{
		PublicBaseURL:  cfg.Server.PublicBaseURL,
		RefreshTTL:     cfg.RefreshTTL(),
		VerifyTTL:      cfg.Auth.Verify.TTL,
		DebugEchoLinks: cfg.Email.DebugEchoLinks,
	})
	cardsService := cardssvc.NewService(st)
	billingService := billingsvc.NewService(st)
	adminService := adminsvc.NewService(st, sessions)

	// ────────────────────────── Métricas ──────────────────────────
	var poolFunc func() *pgxpool.Pool
	if pgStore, ok := st.(*pg.Store); ok {
		poolFunc = pgStore.Pool
	}
	metricsHandler, err := metrics.Register(metrics.Config{Pool: poolFunc})
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	handler := router.New(router.Deps{
		Sessions:           sessions,
		Auth:               authctrl.NewController(authService),
		Cards:              cardsctrl.NewController(cardsService),
		Billing:            billingctrl.NewController(billingService),
		Admin:              adminctrl.NewController(adminService),
		Health:             healthctrl.NewController(st, cc),
		MetricsHandler:     metricsHandler,
		LoginLimiter:       loginLimiter,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	zl.Info("service up",
		logger.String("addr", cfg.Server.Addr),
		logger.String("store", driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("debug_links", cfg.Email.DebugEchoLinks),
	)

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		return httpserver.Serve(gctx, cfg.Server.Addr, handler)
	})
	g.Go(func() error {
		return checkout.NewPoller(st, cfg.Checkout.PollInterval).Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("service: %v", err)
	}
	zl.Info("service stopped")
}
