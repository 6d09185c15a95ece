package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/general/jwt"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// ----- Handler: GET /trips/open -----

func (handler *ClaimHTTPHandler) handleListOpenTrips(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// the token subject is the driver the listing is annotated for
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

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	views, err := handler.svc.ListOpenTrips(ctxWithTimeout, driverID)
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
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to list open trips", err)
		return
	}

	type listResponse struct {
		Trips []ports.OpenTripView `json:"trips"`
		Count int                  `json:"count"`
	}
	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, listResponse{Trips: views, Count: len(views)})
}
