package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// --- Request DTO (HTTP boundary) ---

// submitClaimRequest is optional: the trip comes from the path and the driver
// from the token, so an empty body is accepted.
type submitClaimRequest struct {
	Note string `json:"note,omitempty"`
}

// ----- Handler: POST /trips/{trip_id}/claims -----

func (handler *ClaimHTTPHandler) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// limit body size
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	// fetch and check the trip id
	tripID := strings.TrimSpace(r.PathValue("trip_id"))
	if tripID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing trip_id in path", nil)
		return
	}

	// obtain the JWT claims; the subject is the claiming driver
	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}
	driverID := strings.TrimSpace(claims.Subject)
	if driverID == "" {
		handler.httpError(ctx, w, http.StatusUnauthorized, "token has no subject", errors.New("empty subject"))
		return
	}

	// decode strictly when a body is present
	var req submitClaimRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	in := ports.SubmitClaimInput{
		TripID:   tripID,
		DriverID: driverID,
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.SubmitClaim(ctxWithTimeout, in)
	if err != nil {
		// typed rejections carry their own status and retry hint
		if ce, ok := claim.AsError(err); ok {
			handler.claimError(ctxWithTimeout, w, ce)
			return
		}
		// distinguish DB failures from validation errors
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to submit claim", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
