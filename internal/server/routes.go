package server

import (
	"fmt"
	"net/http"
	"strconv"

	"steward/internal/constants"
	"steward/internal/logger"

	"github.com/labstack/echo/v4"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Liveness probe
	s.echo.GET("/healthz", s.handleHealth)

	// API group
	api := s.echo.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/status/ws", s.handleStatusStream)
	api.GET("/transitions", s.handleTransitions)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": constants.Version,
	})
}

// handleStatus renders the lifecycle status snapshot as
// {service, status, uptime, version}.
func (s *Server) handleStatus(c echo.Context) error {
	if s.status == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "status source not available")
	}
	return c.JSON(http.StatusOK, s.status.StatusReport())
}

// handleTransitions lists recent lifecycle transitions, newest first.
// Responses are cached for a short TTL keyed by the requested limit.
func (s *Server) handleTransitions(c echo.Context) error {
	if s.transitions == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "transition journal not available")
	}

	limit := constants.DefaultTransitionLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	key := fmt.Sprintf("transitions:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return c.JSON(http.StatusOK, TransitionsResponse{Transitions: cached, Total: len(cached)})
	}

	transitions, err := s.transitions.Recent(c.Request().Context(), limit)
	if err != nil {
		logger.GetLogger(c).WithError(err).Error("Failed to list transitions")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list transitions")
	}

	s.cache.Set(key, transitions)
	return c.JSON(http.StatusOK, TransitionsResponse{Transitions: transitions, Total: len(transitions)})
}
