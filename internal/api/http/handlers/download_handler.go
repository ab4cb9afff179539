package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/config"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// maxDownloadBytes caps how much of a remote result image is buffered.
const maxDownloadBytes = 20 << 20

// DownloadHandler streams remote result images as attachments so the browser
// saves instead of navigating. Targets are restricted to https URLs on an
// allowlisted host.
type DownloadHandler struct {
	allowedHosts []string
	client       *http.Client
}

// NewDownloadHandler constructs handler.
func NewDownloadHandler(cfg config.DownloadConfig) *DownloadHandler {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DownloadHandler{
		allowedHosts: cfg.AllowedHosts,
		client:       &http.Client{Timeout: timeout},
	}
}

// Get handles GET /api/download?url=&filename=.
func (h *DownloadHandler) Get(c *fiber.Ctx) error {
	rawURL := c.Query("url")
	if rawURL == "" {
		return apperrors.NewValidationError("url is required", nil)
	}

	target, err := url.Parse(rawURL)
	if err != nil || target.Scheme != "https" || target.Hostname() == "" {
		return apperrors.NewValidationError("url must be a valid https address", nil)
	}
	if !h.hostAllowed(target.Hostname()) {
		return apperrors.NewForbidden("download host not allowed")
	}

	req, err := http.NewRequestWithContext(c.UserContext(), http.MethodGet, target.String(), nil)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError("download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewUpstreamError(
			fmt.Sprintf("download failed with status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return apperrors.NewUpstreamError("download interrupted", err)
	}
	if len(data) > maxDownloadBytes {
		return apperrors.NewUpstreamError("download exceeds the size limit", nil)
	}

	filename := sanitizeFilename(c.Query("filename"))
	if filename == "" {
		filename = "result.jpg"
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.Send(data)
}

func (h *DownloadHandler) hostAllowed(host string) bool {
	for _, allowed := range h.allowedHosts {
		if strings.EqualFold(host, allowed) ||
			strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '\n', '\r':
			return '_'
		}
		return r
	}, name)
}
