package handlers

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/internal/optimizer"
	"github.com/fpltools/squad-optimizer/internal/store"
	"github.com/fpltools/squad-optimizer/pkg/cache"
	"github.com/fpltools/squad-optimizer/pkg/config"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// SelectionRequest asks for one squad-selection run over a pre-scored pool.
// When Pool is empty the stored candidate pool is used.
type SelectionRequest struct {
	Strategy string       `json:"strategy" binding:"required"`
	Pool     []fpl.PoolRow `json:"pool"`
	Budget   int          `json:"budget"`
	MaxDraws int          `json:"max_draws"`
}

// SelectionResult is the response for a completed selection run.
type SelectionResult struct {
	SelectionID     string       `json:"selection_id"`
	Strategy        string       `json:"strategy"`
	Squad           []fpl.Player `json:"squad"`
	Team            []fpl.Player `json:"team"`
	Captain         string       `json:"captain"`
	ViceCaptain     string       `json:"vice_captain"`
	SquadCost       int          `json:"squad_cost"`
	TeamCost        int          `json:"team_cost"`
	PredictedPoints float64      `json:"predicted_points"`
	CreatedAt       time.Time    `json:"created_at"`
}

// SelectionHandler handles squad-selection endpoints
type SelectionHandler struct {
	store  *store.Store
	cache  *cache.SelectionCache
	config *config.Config
	logger *logrus.Logger
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(
	st *store.Store,
	ca *cache.SelectionCache,
	cfg *config.Config,
	logger *logrus.Logger,
) *SelectionHandler {
	return &SelectionHandler{
		store:  st,
		cache:  ca,
		config: cfg,
		logger: logger,
	}
}

// OptimizeSquad runs one selection over the request pool
func (h *SelectionHandler) OptimizeSquad(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	// The roster model validates against the fixed cap, so a larger request
	// budget could only produce squads that fail wrapping downstream.
	if req.Budget < 0 || req.Budget > fpl.Budget {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Budget out of range",
			Code:  "INVALID_BUDGET",
			Details: map[string]string{
				"budget": fmt.Sprintf("must be between 0 and %d", fpl.Budget),
			},
		})
		return
	}

	pool := req.Pool
	if len(pool) == 0 && h.store != nil {
		stored, err := h.store.LoadPool(c.Request.Context())
		if err != nil {
			h.logger.WithError(err).Error("Failed to load stored candidate pool")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to load candidate pool",
				Code:  "POOL_LOAD_ERROR",
			})
			return
		}
		pool = stored
	}
	if len(pool) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Candidate pool is empty",
			Code:  "EMPTY_POOL",
		})
		return
	}

	// Random draws fresh squads; caching would pin one draw forever.
	cacheable := req.Strategy != "random"
	cacheKey := h.generateCacheKey(req, pool)
	if cacheable {
		var cached SelectionResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			h.logger.WithField("cache_key", cacheKey).Info("Returning cached selection result")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	maxDraws := req.MaxDraws
	if maxDraws == 0 {
		maxDraws = h.config.RandomMaxDraws
	}
	opt, err := optimizer.New(req.Strategy, optimizer.Config{
		Budget:   req.Budget,
		MaxDraws: maxDraws,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Unknown strategy",
			Code:  "UNKNOWN_STRATEGY",
			Details: map[string]string{
				"strategy":  req.Strategy,
				"available": strings.Join(optimizer.StrategyNames(), ","),
			},
		})
		return
	}

	candidates, err := optimizer.CandidatesFromRows(pool)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid candidate pool",
			Code:  "INVALID_POOL",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	startTime := time.Now()
	players, err := opt.Optimise(candidates)
	if err != nil {
		if optimizer.IsInfeasible(err) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: "No feasible squad for the given pool",
				Code:  "INFEASIBLE",
				Details: map[string]string{
					"error": err.Error(),
				},
			})
			return
		}
		h.logger.WithError(err).Error("Selection failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Selection failed",
			Code:  "SELECTION_ERROR",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	squad, err := fpl.NewSquad(players)
	if err != nil {
		h.logger.WithError(err).Error("Selected players failed roster validation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Selected squad failed validation",
			Code:  "INVALID_SQUAD",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	result := SelectionResult{
		SelectionID:     uuid.New().String(),
		Strategy:        req.Strategy,
		Squad:           squad.Squad(),
		Team:            squad.Team(),
		Captain:         squad.Captain().Name,
		ViceCaptain:     squad.ViceCaptain().Name,
		SquadCost:       squad.SquadCost(),
		TeamCost:        squad.TeamCost(),
		PredictedPoints: predictedPoints(squad.Squad(), pool),
		CreatedAt:       time.Now().UTC(),
	}

	if cacheable {
		expiry := time.Duration(h.config.CacheExpirySecs) * time.Second
		if err := h.cache.Set(c.Request.Context(), cacheKey, &result, expiry); err != nil {
			h.logger.WithError(err).Warn("Failed to cache selection result")
		}
	}

	if h.store != nil {
		record := &store.SquadRecord{
			Strategy:        result.Strategy,
			SquadCost:       result.SquadCost,
			TeamCost:        result.TeamCost,
			PredictedPoints: result.PredictedPoints,
			Captain:         result.Captain,
			ViceCaptain:     result.ViceCaptain,
			PlayerNames:     joinNames(result.Squad),
		}
		if err := h.store.SaveSquad(c.Request.Context(), record); err != nil {
			h.logger.WithError(err).Warn("Failed to persist selection result")
		}
	}

	h.logger.WithFields(logrus.Fields{
		"selection_id":   result.SelectionID,
		"strategy":       result.Strategy,
		"squad_cost":     result.SquadCost,
		"execution_time": time.Since(startTime),
	}).Info("Selection completed successfully")

	c.JSON(http.StatusOK, result)
}

// ListStrategies returns the selectable strategy names
func (h *SelectionHandler) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"strategies": optimizer.StrategyNames(),
		"default":    h.config.DefaultStrategy,
	})
}

// RecentSquads returns the latest persisted selections
func (h *SelectionHandler) RecentSquads(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Persistence is not configured",
			Code:  "STORE_UNAVAILABLE",
		})
		return
	}
	records, err := h.store.RecentSquads(c.Request.Context(), 20)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load recent squads")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load recent squads",
			Code:  "STORE_ERROR",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"squads": records})
}

// ReplacePool overwrites the stored candidate pool
func (h *SelectionHandler) ReplacePool(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Persistence is not configured",
			Code:  "STORE_UNAVAILABLE",
		})
		return
	}
	var rows []fpl.PoolRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid pool format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}
	if err := h.store.ReplacePool(c.Request.Context(), rows); err != nil {
		h.logger.WithError(err).Error("Failed to replace candidate pool")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to replace candidate pool",
			Code:  "STORE_ERROR",
		})
		return
	}

	// A new pool invalidates every cached selection.
	if err := h.cache.Flush(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("Failed to flush selection cache")
	}

	c.JSON(http.StatusOK, gin.H{"players": len(rows)})
}

// GetPool returns the stored candidate pool
func (h *SelectionHandler) GetPool(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Persistence is not configured",
			Code:  "STORE_UNAVAILABLE",
		})
		return
	}
	rows, err := h.store.LoadPool(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load candidate pool")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load candidate pool",
			Code:  "STORE_ERROR",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": rows})
}

// generateCacheKey hashes the strategy and pool so identical requests share a
// cache entry.
func (h *SelectionHandler) generateCacheKey(req SelectionRequest, pool []fpl.PoolRow) string {
	data, _ := json.Marshal(struct {
		Strategy string        `json:"strategy"`
		Budget   int           `json:"budget"`
		Pool     []fpl.PoolRow `json:"pool"`
	}{req.Strategy, req.Budget, pool})
	return fmt.Sprintf("%x", md5.Sum(data))
}

func predictedPoints(players []fpl.Player, pool []fpl.PoolRow) float64 {
	scores := make(map[string]float64, len(pool))
	for _, row := range pool {
		scores[row.FullName()] = row.PredictedPoints
	}
	total := 0.0
	for _, p := range players {
		total += scores[p.Name]
	}
	return total
}

func joinNames(players []fpl.Player) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
