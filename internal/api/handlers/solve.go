package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jaydenshimshi/LineUp-sub000/internal/services"
	"github.com/jaydenshimshi/LineUp-sub000/internal/solver"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/cache"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/utils"
)

// SolveHandler handles team generation endpoints
type SolveHandler struct {
	service *services.TeamService
	cache   *cache.SolveCacheService
	logger  *logrus.Logger
}

// NewSolveHandler creates a new solve handler
func NewSolveHandler(service *services.TeamService, solveCache *cache.SolveCacheService, logger *logrus.Logger) *SolveHandler {
	return &SolveHandler{
		service: service,
		cache:   solveCache,
		logger:  logger,
	}
}

// PlayerInput is one roster entry as posted by the check-in app. Positions
// arrive free-form ("goalie", "def", "striker") and are normalized on ingress.
type PlayerInput struct {
	ID           string     `json:"id" binding:"required"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	Rating       int        `json:"rating"`
	MainPosition string     `json:"mainPosition"`
	AltPosition  string     `json:"altPosition"`
	CheckedInAt  *time.Time `json:"checkedInAt"`
}

// SolveOptions tunes a single solve without touching server config.
type SolveOptions struct {
	Seed           int64 `json:"seed"`
	UseExactSolver *bool `json:"useExactSolver"`
}

// SolveRequest is the body of POST /api/v1/solve. RequestID ties the solve
// to a WebSocket progress subscription; omit it and one is generated.
type SolveRequest struct {
	RequestID string        `json:"requestId"`
	Players   []PlayerInput `json:"players" binding:"required"`
	Options   SolveOptions  `json:"options"`
}

func toPlayers(inputs []PlayerInput) []solver.Player {
	players := make([]solver.Player, 0, len(inputs))
	for _, in := range inputs {
		var alt solver.Position
		if in.AltPosition != "" && solver.PositionRecognized(in.AltPosition) {
			alt = solver.NormalizePosition(in.AltPosition)
		}
		players = append(players, solver.Player{
			ID:          in.ID,
			Name:        in.Name,
			Age:         in.Age,
			Rating:      in.Rating,
			MainPos:     solver.NormalizePosition(in.MainPosition),
			AltPos:      alt,
			CheckedInAt: in.CheckedInAt,
		})
	}
	return players
}

// positionWarnings flags free-form position strings the normalizer does not
// recognize. Those players still solve, defaulting to midfield.
func positionWarnings(inputs []PlayerInput) []string {
	warnings := []string{}
	for _, in := range inputs {
		if in.MainPosition != "" && !solver.PositionRecognized(in.MainPosition) {
			warnings = append(warnings, fmt.Sprintf("Player %q position %q not recognized, will play midfield", in.ID, in.MainPosition))
		}
		if in.AltPosition != "" && !solver.PositionRecognized(in.AltPosition) {
			warnings = append(warnings, fmt.Sprintf("Player %q alternate position %q not recognized, will be ignored", in.ID, in.AltPosition))
		}
	}
	return warnings
}

// GenerateTeams splits a roster into balanced teams
func (h *SolveHandler) GenerateTeams(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	requestID := req.RequestID
	if requestID == "" {
		if fromMiddleware, ok := c.Get("request_id"); ok {
			requestID = fromMiddleware.(string)
		} else {
			requestID = uuid.New().String()
		}
	}
	c.Header("X-Request-ID", requestID)

	opts := services.SolveOptions{
		Seed:           req.Options.Seed,
		UseExactSolver: req.Options.UseExactSolver,
	}
	result, err := h.service.GenerateTeams(c.Request.Context(), requestID, toPlayers(req.Players), opts)
	if err != nil {
		utils.SendValidationError(c, "Invalid roster", err.Error())
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, utils.Response{
			Success: false,
			Data:    result,
			Error:   utils.NewAppError(utils.ErrCodeValidation, result.Message),
		})
		return
	}

	utils.SendSuccess(c, result)
}

// ValidateRoster checks a roster without solving it
func (h *SolveHandler) ValidateRoster(c *gin.Context) {
	var req struct {
		Players []PlayerInput `json:"players" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	players := toPlayers(req.Players)
	errs, warnings := solver.ValidateRoster(players)
	warnings = append(warnings, positionWarnings(req.Players)...)

	utils.SendSuccess(c, gin.H{
		"valid":       len(errs) == 0,
		"errors":      errs,
		"warnings":    warnings,
		"playerCount": len(players),
	})
}

// GetCacheStatus returns solve cache statistics
func (h *SolveHandler) GetCacheStatus(c *gin.Context) {
	utils.SendSuccess(c, h.cache.GetStatus(c.Request.Context()))
}

// FlushCache clears all cached solve results
func (h *SolveHandler) FlushCache(c *gin.Context) {
	if err := h.cache.FlushSolveCache(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to flush solve cache")
		utils.SendInternalError(c, "Failed to flush solve cache")
		return
	}
	utils.SendSuccess(c, gin.H{"flushed": true})
}
