package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/footylytics/rating-engine/internal/usecase"
)

type purgeMatchesRequest struct {
	RetentionDays int `json:"retentionDays" validate:"required,gt=0"`
	Workers       int `json:"workers" validate:"gte=0"`
}

type purgeMatchesResponse struct {
	Cutoff  string `json:"cutoff"`
	Scanned int    `json:"scanned"`
	Purged  int    `json:"purged"`
	Failed  int    `json:"failed"`
}

// RunPurgeMatchesJob removes matches older than the retention window together
// with their rating entries. Guarded by the internal job token.
func (h *Handler) RunPurgeMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPurgeMatchesJob")
	defer span.End()

	var req purgeMatchesRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: retentionDays must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -req.RetentionDays)
	result, err := h.maintenanceService.PurgeMatchesOlderThan(ctx, cutoff, req.Workers)
	if err != nil {
		h.logger.ErrorContext(ctx, "purge matches job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, purgeMatchesResponse{
		Cutoff:  formatDate(result.Cutoff),
		Scanned: result.Scanned,
		Purged:  result.Purged,
		Failed:  result.Failed,
	})
}
