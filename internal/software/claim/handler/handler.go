package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/user"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/general/logger"
	"trip-claims/internal/general/websocket"
	"trip-claims/internal/ports"
)

// ClaimHTTPHandler adapts HTTP requests to the ClaimService.
type ClaimHTTPHandler struct {
	svc       ports.ClaimService
	logger    *logger.Logger
	auth      *jwt.Manager
	websocket *websocket.WebSocket
}

// NewClaimHTTPHandler wires an HTTP handler around the ClaimService.
func NewClaimHTTPHandler(
	svc ports.ClaimService,
	logger *logger.Logger,
	auth *jwt.Manager,
	ws *websocket.WebSocket,
) *ClaimHTTPHandler {
	return &ClaimHTTPHandler{svc: svc, logger: logger, auth: auth, websocket: ws}
}

// RegisterRoutes mounts claim endpoints on the provided mux.
func (handler *ClaimHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /trips/open",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleListOpenTrips),
	)
	mux.HandleFunc("POST /trips/{trip_id}/claims",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleSubmitClaim),
	)

	// the socket authenticates itself from the query token
	mux.HandleFunc("GET /ws/driver/{driver_id}", handler.websocket.ConnectDriver)

	mux.HandleFunc("GET /claims/health", handler.handleHealth)
	mux.HandleFunc("POST /tokens", handler.handleCreateToken)
}

func (handler *ClaimHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok", "service": "claim-service"})
}

// ----- general helpers -----

type TokenRequest struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      user.Role `json:"role"`
}

// handleCreateToken generates JWT tokens for testing
func (handler *ClaimHTTPHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	tokenString, claims, err := handler.auth.IssueUserToken(req.UserID, req.Role)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	response := TokenResponse{
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    req.UserID,
		Role:      req.Role,
	}

	handler.logger.Info(ctx, "token_generated", "JWT token generated successfully",
		map[string]any{"user_id": req.UserID, "role": req.Role.String()})

	handler.jsonResponse(ctx, w, http.StatusCreated, response)
}

// jsonResponse takes any type of data and encode it to HTTP response.
func (handler *ClaimHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *ClaimHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// claimError renders a typed claim rejection with its kind and retry hint.
// Rejections are expected outcomes, logged at INFO rather than ERROR.
func (handler *ClaimHTTPHandler) claimError(ctx context.Context, w http.ResponseWriter, ce *claim.Error) {
	type rejectionBody struct {
		Error             string `json:"error"`
		Kind              string `json:"kind"`
		RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
	}

	status := claimStatusCode(ce.Kind)
	body := rejectionBody{Error: ce.Message, Kind: string(ce.Kind)}
	if ce.RetryAfter > 0 {
		body.RetryAfterSeconds = int64(ce.RetryAfter.Seconds())
		w.Header().Set("Retry-After", formatRetryAfter(ce.RetryAfter))
	}

	handler.logger.Info(ctx, "claim_rejected_response", ce.Message, map[string]any{
		"kind":   string(ce.Kind),
		"status": status,
	})
	handler.jsonResponse(ctx, w, status, body)
}

// claimStatusCode maps a rejection kind to its HTTP status.
func claimStatusCode(kind claim.Kind) int {
	switch kind {
	case claim.KindNotFound:
		return http.StatusNotFound
	case claim.KindNotEligible:
		return http.StatusForbidden
	case claim.KindNotAvailable, claim.KindWindowClosed, claim.KindCapacityExceeded, claim.KindDuplicateClaim:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// formatRetryAfter renders a duration as whole seconds for the Retry-After header.
func formatRetryAfter(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *ClaimHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
