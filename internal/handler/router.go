package handler

import (
	"log/slog"
	"net/http"

	"github.com/faizanTadvi/SIHP1/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

func NewRouter(i *do.Injector) (http.Handler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	h := do.MustInvoke[*Handler](i)
	logger := do.MustInvoke[*slog.Logger](i)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), cors.New(corsConfig(cfg)))

	api := router.Group("/api")
	api.POST("/predict", h.Predict)
	api.GET("/health", h.Health)
	return router, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
	}
	if cfg.AllowsAnyOrigin() {
		c.AllowAllOrigins = true
		// the wildcard does not cover Authorization, so it is listed explicitly
		c.AllowHeaders = append(c.AllowHeaders, "*", "Authorization")
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
