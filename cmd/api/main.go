package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-sedes/internal/application/auth"
	"github.com/jhoicas/inventario-sedes/internal/bootstrap"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/inventario-sedes/internal/interfaces/http"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// @title        Inventario Sedes API
// @version      1.0
// @description  Inventario multi-sede: productos, existencias, ventas, ingresos, salidas y tickets.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer st.Close()

	// Sesiones revocadas: Redis si está configurado, memoria en otro caso.
	var sessions auth.SessionStore
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		cancel()
		sessions = session.NewRedisStore(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: las sesiones revocadas se guardan en memoria")
		sessions = session.NewMemoryStore()
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	issuer := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	svc := bootstrap.NewServices(st, issuer, sessions, m)

	loginLimiter := httpRouter.NewIPRateLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst).
		OnReject(func(ip string) {
			m.LoginRejected.Inc()
			log.Warn().Str("ip", ip).Msg("login bloqueado por límite de intentos")
		})
	stopCleanup := make(chan struct{})
	go loginLimiter.RunCleanup(time.Minute, stopCleanup)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024, // importación CSV
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Inventario Sedes API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          svc.Auth,
		UserUC:          svc.Users,
		SedeUC:          svc.Sedes,
		CategoryUC:      svc.Categories,
		ProviderUC:      svc.Providers,
		ProductUC:       svc.Products,
		TicketUC:        svc.Tickets,
		StockUC:         svc.Stock,
		ReplenishmentUC: svc.Replenishment,
		SaleUC:          svc.Sales,
		StockEntryUC:    svc.Entries,
		StockExitUC:     svc.Exits,
		DashboardUC:     svc.Dashboard,
		LoginLimiter:    loginLimiter,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(stopCleanup)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
