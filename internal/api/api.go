// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pharmaretail/dss-go/internal/api/handlers"
	"github.com/pharmaretail/dss-go/internal/api/middleware"
	"github.com/pharmaretail/dss-go/internal/cache"
	"github.com/pharmaretail/dss-go/internal/report"
	"github.com/pharmaretail/dss-go/internal/service"
)

type Services struct {
	Metrics         *service.MetricsService
	Restocks        *service.RestockService
	Seasonal        *service.SeasonalService
	Recommendations *service.RecommendationService
	Customers       *service.CustomerService
	Expiry          *service.ExpiryService
	Reports         *report.Service
	Results         cache.ResultCache
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if services != nil {
		dssHandler := handlers.NewDSSHandler(
			services.Metrics,
			services.Restocks,
			services.Seasonal,
			services.Recommendations,
			services.Customers,
			services.Expiry,
			services.Results,
		)

		dssGroup := router.Group("/dss")
		{
			dssGroup.GET("", dssHandler.GetProductMetrics)
			dssGroup.GET("/restocks", dssHandler.GetRestocks)
			dssGroup.GET("/seasonal", dssHandler.GetSeasonal)
			dssGroup.GET("/recommendations", dssHandler.GetRecommendations)
			dssGroup.GET("/customer-patterns", dssHandler.GetCustomerPatterns)
			dssGroup.GET("/expiry-alerts", dssHandler.GetExpiryAlerts)
		}

		if services.Reports != nil {
			reportHandler := handlers.NewReportHandler(services.Reports)
			reportGroup := dssGroup.Group("/reports")
			{
				reportGroup.GET("/expiry", reportHandler.Expiry)
				reportGroup.GET("/restock", reportHandler.Restock)
				reportGroup.GET("/seasonal", reportHandler.Seasonal)
				reportGroup.GET("/customer-patterns", reportHandler.CustomerPatterns)
				reportGroup.GET("/smart-recommendations", reportHandler.SmartRecommendations)
				reportGroup.GET("/profit-margin", reportHandler.ProfitMargin)
				reportGroup.GET("/download/:filename", reportHandler.Download)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
