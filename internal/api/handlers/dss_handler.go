package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pharmaretail/dss-go/internal/cache"
	"github.com/pharmaretail/dss-go/internal/service"
)

// DSSHandler exposes the analytics jobs over HTTP. Every GET triggers a full
// recompute unless a cached result is still fresh; an empty input set maps to
// 404, anything else that fails maps to 500.
type DSSHandler struct {
	metrics         *service.MetricsService
	restocks        *service.RestockService
	seasonal        *service.SeasonalService
	recommendations *service.RecommendationService
	customers       *service.CustomerService
	expiry          *service.ExpiryService
	results         cache.ResultCache
}

func NewDSSHandler(
	metrics *service.MetricsService,
	restocks *service.RestockService,
	seasonal *service.SeasonalService,
	recommendations *service.RecommendationService,
	customers *service.CustomerService,
	expiry *service.ExpiryService,
	results cache.ResultCache,
) *DSSHandler {
	if results == nil {
		results = cache.NewNoopResultCache()
	}
	return &DSSHandler{
		metrics:         metrics,
		restocks:        restocks,
		seasonal:        seasonal,
		recommendations: recommendations,
		customers:       customers,
		expiry:          expiry,
		results:         results,
	}
}

func (h *DSSHandler) GetProductMetrics(c *gin.Context) {
	respond(c, h.results, "kpi", "No sales data available", func(ctx context.Context) (any, error) {
		return h.metrics.Run(ctx)
	})
}

func (h *DSSHandler) GetRestocks(c *gin.Context) {
	respond(c, h.results, "restocks", "No products with sales history", func(ctx context.Context) (any, error) {
		return h.restocks.Run(ctx)
	})
}

func (h *DSSHandler) GetSeasonal(c *gin.Context) {
	respond(c, h.results, "seasonal", "No sales history available", func(ctx context.Context) (any, error) {
		return h.seasonal.Run(ctx)
	})
}

func (h *DSSHandler) GetRecommendations(c *gin.Context) {
	respond(c, h.results, "recommendations", "No products available", func(ctx context.Context) (any, error) {
		return h.recommendations.Run(ctx)
	})
}

func (h *DSSHandler) GetCustomerPatterns(c *gin.Context) {
	respond(c, h.results, "customer-patterns", "No customer purchases available", func(ctx context.Context) (any, error) {
		return h.customers.Run(ctx)
	})
}

func (h *DSSHandler) GetExpiryAlerts(c *gin.Context) {
	respond(c, h.results, "expiry-alerts", "", func(ctx context.Context) (any, error) {
		return h.expiry.Run(ctx)
	})
}

// respond serves a cached payload when one exists, otherwise runs the job and
// caches its result. Cache failures only log; the job result still goes out.
func respond(c *gin.Context, results cache.ResultCache, job, noDataMessage string, run func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()

	if payload, ok, err := results.Get(ctx, job); err == nil && ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	} else if err != nil {
		log.Warn().Err(err).Str("job", job).Msg("result cache get failed")
	}

	result, err := run(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": noDataMessage})
			return
		}
		log.Error().Err(err).Str("job", job).Msg("dss job failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := results.Set(ctx, job, result); err != nil {
		log.Warn().Err(err).Str("job", job).Msg("result cache set failed")
	}

	c.JSON(http.StatusOK, result)
}
