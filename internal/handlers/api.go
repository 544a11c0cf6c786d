package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sysdash/internal/middleware"
)

// APIHandlers serves the command surface over HTTP.
type APIHandlers struct {
	dispatcher *Dispatcher
	stats      StatsProvider
	auth       *middleware.AuthService
}

// NewAPIHandlers wires the handlers. auth may be nil when authentication is
// disabled, in which case login is not available.
func NewAPIHandlers(dispatcher *Dispatcher, stats StatsProvider, auth *middleware.AuthService) *APIHandlers {
	return &APIHandlers{dispatcher: dispatcher, stats: stats, auth: auth}
}

// APISystemStats handles GET /api/system-stats.
func (h *APIHandlers) APISystemStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.SystemStats(c.Request.Context()))
}

// APIGreet handles GET /api/greet?name=.
func (h *APIHandlers) APIGreet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": Greet(c.Query("name"))})
}

// InvokeRequest is the body of POST /api/invoke.
type InvokeRequest struct {
	Cmd  string          `json:"cmd" validate:"required"`
	Args json.RawMessage `json:"args"`
}

// APIInvoke handles POST /api/invoke, the generic command entry point.
func (h *APIHandlers) APIInvoke(c *gin.Context) {
	var req InvokeRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	result, err := h.dispatcher.Invoke(c.Request.Context(), req.Cmd, req.Args)
	switch {
	case errors.Is(err, ErrUnknownCommand):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidArgs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// APILogin handles POST /api/login.
func (h *APIHandlers) APILogin(c *gin.Context) {
	if h.auth == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "authentication is disabled"})
		return
	}
	var req LoginRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	token, retryAfter, err := h.auth.Login(c.ClientIP(), req.Password)
	switch {
	case errors.Is(err, middleware.ErrLockedOut):
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error(), "retry_after": int(retryAfter.Seconds())})
	case errors.Is(err, middleware.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		middleware.SetAuthCookie(c, token)
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
