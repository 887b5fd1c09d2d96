package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"noteapi/internal/service"
)

// Options configures route registration.
type Options struct {
	// Gate is the admission-control middleware applied to the notes and
	// attachments groups. Health and docs endpoints stay unguarded.
	Gate fiber.Handler
	// LegacyValidation500 maps validation failures to 500 instead of 422,
	// reproducing the original API for compatibility testing.
	LegacyValidation500 bool
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, noteSvc service.NoteService, attSvc service.AttachmentService, opts Options) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Readiness probe: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	notes := app.Group("/notes")
	attachments := app.Group("/attachments")
	if opts.Gate != nil {
		notes.Use(opts.Gate)
		attachments.Use(opts.Gate)
	}

	notes.Get("/", ListNotes(noteSvc))
	notes.Post("/", CreateNote(noteSvc, opts.LegacyValidation500))
	notes.Get("/:id", GetNote(noteSvc))
	notes.Put("/:id", UpdateNote(noteSvc, opts.LegacyValidation500))
	notes.Delete("/:id", DeleteNote(noteSvc))

	notes.Get("/:id/attachments", ListAttachments(attSvc))
	notes.Post("/:id/attachments", UploadAttachment(attSvc))

	attachments.Get("/:id/url", AttachmentDownloadURL(attSvc))
	attachments.Delete("/:id", DeleteAttachment(attSvc))
}
