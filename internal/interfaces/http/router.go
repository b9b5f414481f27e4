package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	NFE       *NFEHandler
	JWTSecret string
	JWTIssuer string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Rutas protegidas (requieren Bearer Token)
	nfe := app.Group("/api/nfe", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	nfe.Post("/issuer/validate", deps.NFE.ValidateIssuer)
	nfe.Post("/preview", deps.NFE.Preview)
	nfe.Post("/access-key/parse", deps.NFE.ParseAccessKey)
	nfe.Post("/certificate/check", deps.NFE.CheckCertificate)
}
