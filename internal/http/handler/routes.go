package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"radicado/internal/model"
	"radicado/internal/service"
)

// ActorHeader names the authenticated actor for workflow operations. Identity
// verification happens upstream; this layer only requires the id.
const ActorHeader = "X-Actor-ID"

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, radSvc service.RadicationService) {
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

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/documents", CreateDraft(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	app.Patch("/documents/:id", UpdateDraft(docSvc))
	app.Get("/documents/:id/audit", ListAudit(docSvc))
	app.Get("/documents/:id/download", DownloadDocument(docSvc))

	app.Post("/documents/:id/transition", TransitionDocument(radSvc))
	app.Post("/documents/:id/delegate", DelegateDocument(radSvc))
	app.Post("/documents/:id/sign", SignDocument(radSvc))
	app.Post("/documents/:id/void", VoidDocument(radSvc))
}

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListDocuments lists documents with limit & offset.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateDraft accepts a multipart draft upload (field name: file) plus the
// classification form fields.
func CreateDraft(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID := c.Get(ActorHeader)
		if actorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.CreateDraft(c.UserContext(), f, service.CreateDraftInput{
			ProjectID:     c.FormValue("project_id"),
			ProjectPrefix: c.FormValue("project_prefix"),
			Title:         c.FormValue("title"),
			Series:        model.Series(c.FormValue("series")),
			Direction:     model.Direction(c.FormValue("direction")),
			ActorID:       actorID,
			Filename:      fh.Filename,
			ContentType:   ct,
			Size:          fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns a document by ID.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDraft revises a draft's title and optionally its content. The file
// field is optional; without it only the title changes.
func UpdateDraft(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		actorID := c.Get(ActorHeader)
		if actorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}

		in := service.UpdateDraftInput{
			ActorID: actorID,
			Title:   c.FormValue("title"),
		}
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.Reader = f
			in.Filename = fh.Filename
			in.ContentType = ct
			in.Size = fh.Size
		}

		doc, err := svc.UpdateDraft(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ListAudit returns the document's audit trail.
func ListAudit(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		entries, err := svc.ListAudit(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": entries})
	}
}

// DownloadDocument returns a presigned URL for the authoritative artifact.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.DownloadURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

type transitionRequest struct {
	Target string `json:"target"`
}

// TransitionDocument moves the document along a lifecycle edge.
func TransitionDocument(svc service.RadicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		actorID := c.Get(ActorHeader)
		if actorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}
		var req transitionRequest
		if err := c.BodyParser(&req); err != nil || req.Target == "" {
			return writeError(c, fiber.StatusBadRequest, "TARGET_REQUIRED", "target status is required")
		}

		doc, err := svc.Transition(c.UserContext(), id, actorID, model.Status(req.Target))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type delegateRequest struct {
	SignerID string `json:"signer_id"`
}

// DelegateDocument records a signing authorization for a named signer.
func DelegateDocument(svc service.RadicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		actorID := c.Get(ActorHeader)
		if actorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}
		var req delegateRequest
		if err := c.BodyParser(&req); err != nil || req.SignerID == "" {
			return writeError(c, fiber.StatusBadRequest, "SIGNER_REQUIRED", "signer_id is required")
		}

		doc, err := svc.Delegate(c.UserContext(), id, actorID, req.SignerID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type signRequest struct {
	PIN string `json:"pin"`
}

// SignDocument radicates the document: case code, stamp and status flip.
func SignDocument(svc service.RadicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		actorID := c.Get(ActorHeader)
		if actorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}
		var req signRequest
		if err := c.BodyParser(&req); err != nil || req.PIN == "" {
			return writeError(c, fiber.StatusBadRequest, "PIN_REQUIRED", "pin is required")
		}

		doc, err := svc.Radicate(c.UserContext(), service.RadicateInput{
			DocumentID: id,
			ActorID:    actorID,
			PIN:        req.PIN,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type voidRequest struct {
	Reason string `json:"reason"`
}

// VoidDocument marks the document void with a mandatory reason.
func VoidDocument(svc service.RadicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		actorID := c.Get(ActorHeader)
		if actorID == "" {
			return writeError(c, fiber.StatusBadRequest, "ACTOR_REQUIRED", "X-Actor-ID header is required")
		}
		var req voidRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "REASON_REQUIRED", "reason is required")
		}

		doc, err := svc.Void(c.UserContext(), id, actorID, req.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

func documentIDParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
