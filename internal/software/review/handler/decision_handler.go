package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/offer"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// --- Request DTO (HTTP boundary) ---

type recordDecisionRequest struct {
	Status string `json:"status"`
}

// ----- Handler: POST /offers/{offer_id}/decision -----

func (handler *ReviewHTTPHandler) handleRecordDecision(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// check the content type
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	// limit body size
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	offerID := strings.TrimSpace(r.PathValue("offer_id"))
	if offerID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing offer_id in path", nil)
		return
	}

	// the deciding admin comes from the token subject
	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	// decode strictly
	var req recordDecisionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if strings.TrimSpace(req.Status) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "status is required", nil)
		return
	}

	in := ports.RecordDecisionInput{
		OfferID:   offerID,
		Status:    req.Status,
		DecidedBy: strings.TrimSpace(claims.Subject),
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()

	res, err := handler.svc.RecordDecision(ctxWithTimeout, in)
	if err != nil {
		if ce, ok := claim.AsError(err); ok {
			handler.claimError(ctxWithTimeout, w, ce)
			return
		}
		if errors.Is(err, offer.ErrInvalidStatus) {
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, "unknown offer status: "+req.Status, err)
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to record decision", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
