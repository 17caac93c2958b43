package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"streamapi/internal/service"
	"streamapi/internal/stream"
)

// pullRequest is the request body for POST /videos.
type pullRequest struct {
	URL               string `json:"url"`
	Name              string `json:"name"`
	RequireSignedURLs bool   `json:"require_signed_urls"`
	WatermarkUID      string `json:"watermark_uid"`
}

// videoListResponse wraps the list endpoint payload.
type videoListResponse struct {
	Items []map[string]any `json:"data"`
	Total int              `json:"total"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, svc service.VideoService) {
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

	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())

	app.Get("/videos", ListVideos(svc))
	app.Post("/videos", PullVideo(svc))
	app.Get("/videos/:uid", GetVideo(svc))
	app.Delete("/videos/:uid", DeleteVideo(svc))
	app.Get("/videos/:uid/download", DownloadURL(svc))
	app.Get("/videos/:uid/token", PlaybackToken(svc))

	app.Get("/usage", GetUsage(svc))

	app.Post("/keys", CreateSigningKeys(svc))
	app.Get("/keys", ListSigningKeys(svc))
}

// HealthCheck verifies Cloudflare API reachability with a short read.
func HealthCheck(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if _, err := svc.Usage(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListVideos returns every video in the account.
func ListVideos(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		videos, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(videoListResponse{Items: videos, Total: len(videos)})
	}
}

// GetVideo returns the Cloudflare metadata envelope for one video.
func GetVideo(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		env, err := svc.Get(c.UserContext(), c.Params("uid"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(env)
	}
}

// PullVideo asks Cloudflare to ingest a video from a URL. The ingest is
// asynchronous; the response carries the new uid while the video is still
// downloading remotely.
func PullVideo(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pullRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Pull(c.UserContext(), req.URL, req.Name, stream.PullOptions{
			RequireSignedURLs: req.RequireSignedURLs,
			WatermarkUID:      req.WatermarkUID,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(res)
	}
}

// DeleteVideo removes a video by uid.
func DeleteVideo(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("uid")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadURL returns an MP4 download URL for a video. With ?wait=true the
// handler blocks until the download is ready or the poll budget runs out.
func DownloadURL(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wait, err := strconv.ParseBool(c.Query("wait", "false"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_WAIT", "invalid wait flag")
		}

		uid := c.Params("uid")
		u, err := svc.DownloadURL(c.UserContext(), uid, wait)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"uid": uid, "url": u})
	}
}

// PlaybackToken returns a signed playback token for a video.
func PlaybackToken(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := c.Params("uid")
		tok, err := svc.PlaybackToken(c.UserContext(), uid)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"uid": uid, "token": tok})
	}
}

// GetUsage returns the account storage plan summary in minutes.
func GetUsage(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usage, err := svc.Usage(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(usage)
	}
}

// CreateSigningKeys creates a new signing key pair. The PEM and JWK in the
// response are shown once and cannot be fetched again.
func CreateSigningKeys(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, err := svc.CreateSigningKeys(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(key)
	}
}

// ListSigningKeys lists existing signing key ids.
func ListSigningKeys(svc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		env, err := svc.ListSigningKeys(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(env)
	}
}
