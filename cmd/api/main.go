package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appnfe "github.com/jhoicas/nfe-emissor/internal/application/nfe"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
	httpRouter "github.com/jhoicas/nfe-emissor/internal/interfaces/http"
	"github.com/jhoicas/nfe-emissor/pkg/config"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("uf_code", cfg.NFE.UFCode).
		Str("model", cfg.NFE.Model).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET vacío: las rutas /api/nfe no pueden validar tokens")
	}

	loc, err := cfg.NFE.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria NF-e")
	}

	// Sin ruta configurada el servicio arma documentos pero no exige certificado.
	var certs appnfe.CertificateSource
	if cfg.NFE.CertPath != "" {
		loader := infranfe.NewCertificateLoader(log.Component("certificate"))
		loader.UseConfiguredCredentials(cfg.NFE.CertPath, cfg.NFE.CertPassword)
		certs = infranfe.NewCertificatePool(loader, cfg.NFE.CertWorkers, cfg.NFE.CertTimeoutDuration())
	} else {
		log.Warn().Msg("NFE_CERT_PATH vacío: /api/nfe/preview no verificará certificado")
	}

	previewSvc := appnfe.NewPreviewService(appnfe.Options{
		UFCode:   cfg.NFE.UFCode,
		Model:    cfg.NFE.Model,
		Location: loc,
		Logger:   log.Component("preview"),
	}, certs)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    2 * 1024 * 1024, // .pfx en base64 + ítems
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		NFE:       httpRouter.NewNFEHandler(previewSvc, log.Component("http"), cfg.NFE.DefaultSeries),
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		AppName:   cfg.App.Name,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
