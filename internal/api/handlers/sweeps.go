package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/api/models"
	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/output"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/scenario"
)

const (
	resultTTL          = time.Hour
	cacheSweepInterval = 10 * time.Minute
)

// SweepHandler runs abatement cost sweeps and serves cached results.
type SweepHandler struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewSweepHandler creates a sweep handler with an in-process result
// cache.
func NewSweepHandler(logger *zap.Logger) *SweepHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepHandler{
		cache:  cache.New(resultTTL, cacheSweepInterval),
		logger: logger,
	}
}

// RunSweep handles POST /api/v1/sweeps.
func (h *SweepHandler) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	cfg := &config.Config{Scenario: req.Scenario, Options: req.Options}
	if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	scn, err := scenario.NewStylized(&cfg.Scenario, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	calc := policycost.NewCalculator(scn, policycost.Config{
		GasName:           cfg.Options.AbatedGas(),
		NumPoints:         cfg.Options.NumPoints(),
		DiscountRate:      cfg.Options.DiscountRate(),
		DiscountStartYear: cfg.Options.DiscountStartYear(),
		MarketCheckRegion: cfg.Options.MarketCheckRegion(),
	}, h.logger)

	result, err := calc.CalculateAbatementCostCurve(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SWEEP_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	if !result.Ran {
		c.JSON(http.StatusOK, models.SweepResponse{
			Status:   models.StatusSkipped,
			Scenario: result.ScenarioName,
			Gas:      result.GasName,
			Success:  result.Success,
		})
		return
	}

	h.cache.Set(result.RunID, result, cache.DefaultExpiration)
	c.JSON(http.StatusOK, buildSweepResponse(result))
}

// GetSweep handles GET /api/v1/sweeps/:id. The format query parameter
// selects any registered report format; json is the default.
func (h *SweepHandler) GetSweep(c *gin.Context) {
	id := c.Param("id")
	cached, found := h.cache.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SWEEP_NOT_FOUND",
				Message: fmt.Sprintf("no sweep cached under id %s", id),
			},
		})
		return
	}
	result := cached.(*domain.SweepResult)

	format := c.DefaultQuery("format", "json")
	data, err := output.GenerateReport(result, format)
	if err != nil {
		if errors.Is(err, output.ErrNoCostOutput) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "NO_COST_OUTPUT",
					Message: err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_FORMAT",
				Message: err.Error(),
			},
		})
		return
	}

	c.Data(http.StatusOK, contentTypeFor(output.NormalizeFormatName(format)), data)
}

// ListFormats handles GET /api/v1/formats.
func (h *SweepHandler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, models.FormatsResponse{
		Formats: output.AvailableFormatterNames(),
		Aliases: output.AvailableFormatAliases(),
	})
}

func buildSweepResponse(result *domain.SweepResult) models.SweepResponse {
	solved := 0
	for _, ok := range result.TrialSucceeded {
		if ok {
			solved++
		}
	}

	summary := models.CostSummary{
		Regional:             make(map[string]models.RegionCost, len(result.Summary.Regional)),
		GlobalCost:           result.Summary.GlobalCost,
		GlobalDiscountedCost: result.Summary.GlobalDiscountedCost,
	}
	for region, cost := range result.Summary.Regional {
		summary.Regional[region] = models.RegionCost{
			Undiscounted: cost.Undiscounted,
			Discounted:   cost.Discounted,
		}
	}

	return models.SweepResponse{
		ID:           result.RunID,
		Status:       models.StatusCompleted,
		Scenario:     result.ScenarioName,
		Gas:          result.GasName,
		TrialsSolved: solved,
		TrialCount:   len(result.TrialSucceeded),
		Success:      result.Success,
		Summary:      &summary,
	}
}

func contentTypeFor(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "csv", "detailed-csv":
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}
