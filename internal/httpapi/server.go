// Package httpapi exposes the sweepd decision engine and preferences store
// over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// Server provides the sweepd HTTP endpoints.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	store   Store
	logger  *zap.Logger
	metrics *Metrics
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
	// CORSOrigins lists allowed origins; empty allows all. The API is
	// called from browser, mobile, and TV players.
	CORSOrigins []string
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(eng *engine.Engine, st Store, logger *zap.Logger, cfg *Config) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "0.0.0.0", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins(cfg.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:    e,
		engine:  eng,
		store:   st,
		logger:  logger,
		metrics: NewMetrics(logger),
		config:  cfg,
	}
	s.registerRoutes()
	return s, nil
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (s *Server) registerRoutes() {
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/users", s.handleCreateUser)
	api.GET("/users/:id/preferences", s.handleGetPreferences)
	api.PUT("/users/:id/preferences", s.handleUpdatePreferences)
	api.POST("/analyze", s.handleAnalyze)

	// The structured decision endpoint lives at the root: media players
	// post caption events here and must always get a well-formed decision.
	s.echo.POST("/event", s.handleEvent)
}

// Echo returns the underlying echo instance, for tests and route grafting.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "sweepd",
		Version: s.config.Version,
	})
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil || req.Username == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username is required"})
	}

	user, err := s.store.CreateUser(c.Request().Context(), &store.User{
		UID:      uuid.NewString(),
		Username: req.Username,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already exists"})
		}
		s.logger.Error("user creation failed", zap.String("username", req.Username), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}

	prefs, err := s.store.GetPreferences(c.Request().Context(), user.ID)
	if err != nil {
		s.logger.Error("default preferences lookup failed", zap.Int32("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusCreated, CreateUserResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Preferences: prefs,
	})
}

func (s *Server) handleGetPreferences(c echo.Context) error {
	userID, err := parseUserID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	}
	if _, err := s.store.GetUser(c.Request().Context(), userID); err != nil {
		return s.userLookupError(c, userID, err)
	}

	prefs, err := s.store.GetPreferences(c.Request().Context(), userID)
	if err != nil {
		return s.userLookupError(c, userID, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(c echo.Context) error {
	userID, err := parseUserID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	}
	if _, err := s.store.GetUser(c.Request().Context(), userID); err != nil {
		return s.userLookupError(c, userID, err)
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Request body is required"})
	}

	// Sensitivity values are a closed set; reject unknowns at the boundary
	// so the engine never sees a misconfigured record.
	for field, value := range map[string]*string{
		"language_sensitivity":       req.LanguageSensitivity,
		"sexual_content_sensitivity": req.SexualContentSensitivity,
		"violence_sensitivity":       req.ViolenceSensitivity,
	} {
		if value == nil {
			continue
		}
		if _, err := engine.ParseSensitivity(*value); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("Invalid %s. Must be one of: low, medium, high", field),
			})
		}
	}

	update := &store.UpdatePreferences{
		UserID:                   userID,
		LanguageFilter:           req.LanguageFilter,
		SexualContentFilter:      req.SexualContentFilter,
		ViolenceFilter:           req.ViolenceFilter,
		LanguageSensitivity:      req.LanguageSensitivity,
		SexualContentSensitivity: req.SexualContentSensitivity,
		ViolenceSensitivity:      req.ViolenceSensitivity,
	}
	if update.IsEmpty() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Request body is required"})
	}

	prefs, err := s.store.UpdatePreferences(c.Request().Context(), update)
	if err != nil {
		s.logger.Error("preferences update failed", zap.Int32("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update preferences"})
	}

	return c.JSON(http.StatusOK, UpdatePreferencesResponse{
		Message:     "Preferences updated successfully",
		Preferences: prefs,
	})
}

// handleAnalyze is the simple-mode decision endpoint: action only, with the
// input echoed back.
func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil || req.UserID == nil || req.Text == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id and text are required"})
	}

	if _, err := s.store.GetUser(c.Request().Context(), *req.UserID); err != nil {
		return s.userLookupError(c, *req.UserID, err)
	}

	start := time.Now()
	action := s.engine.Analyze(c.Request().Context(), *req.UserID, *req.Text)
	s.metrics.RecordDecision(c.Request().Context(), "/api/analyze", string(action), "", time.Since(start))

	return c.JSON(http.StatusOK, AnalyzeResponse{
		Action: string(action),
		Text:   *req.Text,
		UserID: *req.UserID,
	})
}

// handleEvent is the structured-mode decision endpoint. It always answers
// 200 with a well-formed decision; malformed input and unknown users are
// reported in the reason field so a media client is never left without an
// action.
func (s *Server) handleEvent(c echo.Context) error {
	start := time.Now()

	var req EventRequest
	if err := c.Bind(&req); err != nil || req.Text == nil {
		return s.eventDecision(c, engine.InvalidPayloadDecision(), start)
	}
	userID, ok := coerceUserID(req.UserID)
	if !ok {
		return s.eventDecision(c, engine.InvalidPayloadDecision(), start)
	}

	decision := s.engine.Decide(c.Request().Context(), engine.DecideRequest{
		UserID:     userID,
		Text:       *req.Text,
		Confidence: req.Confidence,
	})
	return s.eventDecision(c, decision, start)
}

func (s *Server) eventDecision(c echo.Context, d engine.Decision, start time.Time) error {
	category := ""
	if d.MatchedCategory != nil {
		category = string(*d.MatchedCategory)
	}
	s.metrics.RecordDecision(c.Request().Context(), "/event", string(d.Action), category, time.Since(start))
	return c.JSON(http.StatusOK, d)
}

// userLookupError maps store errors on user-scoped endpoints.
func (s *Server) userLookupError(c echo.Context, userID int32, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	}
	s.logger.Error("user lookup failed", zap.Int32("user_id", userID), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

func parseUserID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return int32(id), nil
}

// coerceUserID accepts the user_id shapes JSON clients actually send:
// numbers and numeric strings.
func coerceUserID(v any) (int32, bool) {
	switch id := v.(type) {
	case float64:
		if id != float64(int64(id)) || id <= 0 || id > float64(1<<31-1) {
			return 0, false
		}
		return int32(id), true
	case string:
		parsed, err := strconv.ParseInt(id, 10, 32)
		if err != nil || parsed <= 0 {
			return 0, false
		}
		return int32(parsed), true
	default:
		return 0, false
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
