// Package http wires the gin router: WebSocket endpoint behind bearer
// auth, plus a small read-only ops API.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/openclass/live/internal/adapters/signal"
	"github.com/openclass/live/internal/app"
	"github.com/openclass/live/internal/config"
	"github.com/openclass/live/internal/identity"
)

// AuthMiddleware verifies the bearer credential exactly once, before the
// upgrade. Browsers cannot set headers on WebSocket requests, so a `token`
// query parameter is accepted as a fallback. Missing or bad credentials
// close the request before any event is processed.
func AuthMiddleware(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			credential = strings.TrimPrefix(h, "Bearer ")
		} else {
			credential = c.Query("token")
		}

		user, err := verifier.Verify(c.Request.Context(), credential)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("handshake rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set("identity", user)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, gw *app.Gateway, verifier identity.Verifier) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": gw.ConnCount()})
	})

	// Read-only room views for operators; membership is mutated over the
	// WebSocket protocol only.
	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": gw.ChatRooms()})
	})
	api.GET("/video-rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": gw.VideoRooms()})
	})

	ctrl := signal.NewController(gw, cfg.ReadLimit, cfg.PingPeriod)
	r.GET("/ws", AuthMiddleware(verifier), func(c *gin.Context) {
		ctrl.HandleWS(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
