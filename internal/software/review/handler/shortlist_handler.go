package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/offer"

	"github.com/jackc/pgx/v5/pgconn"
)

// ----- Handler: GET /bookings/{booking_id}/shortlist -----

func (handler *ReviewHTTPHandler) handleShortlist(w http.ResponseWriter, r *http.Request) {
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

	res, err := handler.svc.Shortlist(ctxWithTimeout, bookingID)
	if err != nil {
		if ce, ok := claim.AsError(err); ok {
			handler.claimError(ctxWithTimeout, w, ce)
			return
		}
		if errors.Is(err, offer.ErrMixedCurrency) {
			type mixedBody struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			handler.jsonResponse(ctxWithTimeout, w, http.StatusUnprocessableEntity,
				mixedBody{Error: err.Error(), Kind: "MIXED_CURRENCY"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to compute shortlist", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
