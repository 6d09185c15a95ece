package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/user"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/general/logger"
	"trip-claims/internal/ports"
)

// ReviewHTTPHandler adapts HTTP requests to the ReviewService.
type ReviewHTTPHandler struct {
	svc    ports.ReviewService
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewReviewHTTPHandler wires an HTTP handler around the ReviewService.
func NewReviewHTTPHandler(
	svc ports.ReviewService,
	logger *logger.Logger,
	auth *jwt.Manager,
) *ReviewHTTPHandler {
	return &ReviewHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts review endpoints on the provided mux.
func (handler *ReviewHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /bookings/{booking_id}/shortlist",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleShortlist),
	)
	mux.HandleFunc("POST /bookings/{booking_id}/review",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleStartReview),
	)
	mux.HandleFunc("POST /offers/{offer_id}/decision",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleRecordDecision),
	)

	mux.HandleFunc("GET /review/health", handler.handleHealth)
}

func (handler *ReviewHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok", "service": "review-service"})
}

// ----- general helpers -----

// jsonResponse takes any type of data and encode it to HTTP response.
func (handler *ReviewHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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
func (handler *ReviewHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// claimError renders a typed rejection with its kind.
func (handler *ReviewHTTPHandler) claimError(ctx context.Context, w http.ResponseWriter, ce *claim.Error) {
	type rejectionBody struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}

	status := http.StatusConflict
	if ce.Kind == claim.KindNotFound {
		status = http.StatusNotFound
	}

	handler.logger.Info(ctx, "review_rejected_response", ce.Message, map[string]any{
		"kind":   string(ce.Kind),
		"status": status,
	})
	handler.jsonResponse(ctx, w, status, rejectionBody{Error: ce.Message, Kind: string(ce.Kind)})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *ReviewHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
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

// serviceTimeout bounds every review service call.
const serviceTimeout = 5 * time.Second
