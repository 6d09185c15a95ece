package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"trip-claims/internal/domain/claim"

	"github.com/jackc/pgx/v5/pgconn"
)

// ----- Handler: POST /bookings/{booking_id}/review -----

func (handler *ReviewHTTPHandler) handleStartReview(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	bookingID := strings.TrimSpace(r.PathValue("booking_id"))
	if bookingID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing booking_id in path", nil)
		return
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()

	res, err := handler.svc.StartReview(ctxWithTimeout, bookingID)
	if err != nil {
		if ce, ok := claim.AsError(err); ok {
			handler.claimError(ctxWithTimeout, w, ce)
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to start review", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
