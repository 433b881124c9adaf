// Package handler exposes the HTTP handlers of the achievement site: the
// landing page and the JSON API over the achievement registry.
package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/achievement-registry/internal/achievement"
	"github.com/iliyamo/achievement-registry/internal/logger"
	"github.com/iliyamo/achievement-registry/internal/queue"
)

// EventPublisher delivers unlock events to downstream consumers.
type EventPublisher interface {
	PublishUnlocked(ctx context.Context, ev queue.AchievementUnlockedEvent) error
}

// AchievementHandler serves the registry over HTTP. It owns no state of its
// own; the registry is injected so every test can use a fresh one.
type AchievementHandler struct {
	Registry  *achievement.Registry
	Publisher EventPublisher
	Log       *zap.Logger

	// PublishTimeout bounds a single background publish.
	PublishTimeout time.Duration

	pending sync.WaitGroup
}

// NewAchievementHandler wires a handler. A nil publisher or logger is
// replaced by a no-op.
func NewAchievementHandler(reg *achievement.Registry, pub EventPublisher, log *zap.Logger) *AchievementHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AchievementHandler{
		Registry:       reg,
		Publisher:      pub,
		Log:            log,
		PublishTimeout: 5 * time.Second,
	}
}

type unlockResponse struct {
	Success     bool   `json:"success"`
	Achievement string `json:"achievement,omitempty"`
}

type landingPage struct {
	Title        string
	Achievements []achievement.Entry
}

// Home handles GET / and renders the landing page.
func (h *AchievementHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", landingPage{
		Title:        "Digital Garden",
		Achievements: achievement.Catalog(),
	})
}

// List handles GET /api/achievements and returns every flag.
func (h *AchievementHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Registry.Snapshot())
}

// Catalog handles GET /api/achievements/catalog and returns names with titles.
func (h *AchievementHandler) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": achievement.Catalog()})
}

// Unlock handles POST /api/achievements/:achievement. The path segment is
// percent-decoded first. Unknown or undecodable names get a 400 with
// {"success": false} and leave the registry untouched.
func (h *AchievementHandler) Unlock(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("achievement"))
	if err != nil {
		return h.unknown(c)
	}
	first, err := h.Registry.Unlock(name)
	if err != nil {
		if errors.Is(err, achievement.ErrUnknownAchievement) {
			return h.unknown(c)
		}
		return err
	}
	if first {
		h.publish(name)
	}
	return c.JSON(http.StatusOK, unlockResponse{Success: true, Achievement: name})
}

// unknown answers an unlock for a name outside the registry. The request is
// kept out of the access log.
func (h *AchievementHandler) unknown(c echo.Context) error {
	logger.Quiet(c)
	return c.JSON(http.StatusBadRequest, unlockResponse{Success: false})
}

// publish sends the unlock event in the background. The response never
// depends on the outcome.
func (h *AchievementHandler) publish(name string) {
	if h.Publisher == nil {
		return
	}
	ev := queue.AchievementUnlockedEvent{
		Achievement: name,
		Title:       achievement.Title(name),
		UnlockedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		timeout := h.PublishTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := h.Publisher.PublishUnlocked(ctx, ev); err != nil {
			h.Log.Warn("publish unlock event failed", zap.String("achievement", name), zap.Error(err))
		}
	}()
}

// Wait blocks until background publishes have finished.
func (h *AchievementHandler) Wait() {
	h.pending.Wait()
}
