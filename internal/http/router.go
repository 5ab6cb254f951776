package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/churn_guard/backend/internal/auth"
	"github.com/churn_guard/backend/internal/config"
	"github.com/churn_guard/backend/internal/dataset"
	"github.com/churn_guard/backend/internal/http/handlers"
	"github.com/churn_guard/backend/internal/http/middleware"
	"github.com/churn_guard/backend/internal/service"

	_ "github.com/churn_guard/backend/docs"
)

type Deps struct {
	Predictions *service.PredictionService
	Dataset     *dataset.Analyzer
	Auth        *auth.Authenticator
	DB          handlers.Pinger
	Metrics     metrics.Registry
}

func Router(cfg config.Config, deps Deps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(deps.Metrics))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Predictions: deps.Predictions,
		Dataset:     deps.Dataset,
		Auth:        deps.Auth,
		DB:          deps.DB,
		Metrics:     deps.Metrics,
		Validator:   validator.New(),
		Logger:      logger,
	}

	r.GET("/healthz", h.Healthz)

	session := r.Group("/auth")
	{
		session.POST("/login", h.Login)
		session.POST("/logout", h.Logout)
		session.GET("/status", h.AuthStatus)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(deps.Auth))
	{
		api.GET("/model/info", h.ModelInfo)
		api.GET("/predict/defaults", h.PredictDefaults)
		api.POST("/predict", h.Predict)
		api.GET("/history", h.History)
		api.GET("/dataset/overview", h.DatasetOverview)
		api.GET("/dataset/eda", h.DatasetEDA)
		api.GET("/metrics", h.MetricsSnapshot)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
