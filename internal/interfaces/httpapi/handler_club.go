package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/usecase"
)

type clubRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive active inactive"`
}

type clubUpdateRequest struct {
	Name   string `json:"name" validate:"omitempty,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive active inactive"`
}

type clubDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type clubStandingDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Rating    float64 `json:"rating"`
	NetRating float64 `json:"netRating"`
}

func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateClub")
	defer span.End()

	var req clubRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.clubService.CreateClub(ctx, usecase.ClubInput{Name: req.Name, Status: req.Status})
	if err != nil {
		h.logger.WarnContext(ctx, "create club failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, clubToDTO(ctx, created))
}

func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClub")
	defer span.End()

	clubID := r.PathValue("clubID")
	c, err := h.clubService.GetClub(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "get club failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubToDTO(ctx, c))
}

func (h *Handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateClub")
	defer span.End()

	clubID := r.PathValue("clubID")
	var req clubUpdateRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.clubService.UpdateClub(ctx, clubID, usecase.ClubInput{Name: req.Name, Status: req.Status})
	if err != nil {
		h.logger.WarnContext(ctx, "update club failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubToDTO(ctx, updated))
}

func (h *Handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteClub")
	defer span.End()

	clubID := r.PathValue("clubID")
	if err := h.clubService.DeleteClub(ctx, clubID); err != nil {
		h.logger.WarnContext(ctx, "delete club failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": clubID})
}

// ListClubs serves the ranked club table.
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubs")
	defer span.End()

	opts, err := parseListOptions(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.standingsService.ListClubs(ctx, opts)
	if err != nil {
		h.logger.WarnContext(ctx, "list clubs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubStandingDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, clubStandingDTO{
			ID:        row.ID,
			Name:      row.Name,
			Status:    string(row.Status),
			Rating:    row.Rating,
			NetRating: row.NetRating,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, pageEnvelope{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
}

func (h *Handler) ListActiveClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveClubs")
	defer span.End()

	clubs, err := h.clubService.ListActiveClubs(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list active clubs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubDTO, 0, len(clubs))
	for _, c := range clubs {
		items = append(items, clubToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// ListClubPlayers serves the club squad, current by default or as of ?date=.
func (h *Handler) ListClubPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubPlayers")
	defer span.End()

	clubID := r.PathValue("clubID")
	at, err := parseOptionalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.playerService.ListClubSquad(ctx, clubID, at)
	if err != nil {
		h.logger.WarnContext(ctx, "list club squad failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	asOf := time.Now()
	items := make([]playerDTO, 0, len(squad))
	for _, p := range squad {
		items = append(items, playerToDTO(ctx, p, asOf))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func clubToDTO(ctx context.Context, c club.Club) clubDTO {
	ctx, span := startSpan(ctx, "httpapi.clubToDTO")
	defer span.End()

	return clubDTO{
		ID:     c.ID,
		Name:   c.Name,
		Status: string(c.Status),
	}
}
