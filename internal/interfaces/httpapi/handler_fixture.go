package httpapi

import (
	"context"
	"net/http"

	"github.com/footylytics/rating-engine/internal/usecase"
)

type fixtureRequest struct {
	Type       string `json:"type" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Hour       string `json:"hour" validate:"max=10"`
	Venue      string `json:"venue" validate:"max=200"`
	League     string `json:"league" validate:"max=200"`
	HomeTeamID string `json:"homeTeamId" validate:"required"`
	AwayTeamID string `json:"awayTeamId" validate:"required"`
}

type fixtureDTO struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Date         string  `json:"date"`
	Hour         string  `json:"hour,omitempty"`
	Venue        string  `json:"venue,omitempty"`
	League       string  `json:"league,omitempty"`
	HomeTeamID   string  `json:"homeTeamId"`
	HomeTeamName string  `json:"homeTeamName"`
	AwayTeamID   string  `json:"awayTeamId"`
	AwayTeamName string  `json:"awayTeamName"`
	RatingDiff   float64 `json:"ratingDiff"`
}

func (h *Handler) AddFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddFixture")
	defer span.End()

	var req fixtureRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.fixtureService.AddFixture(ctx, usecase.FixtureInput{
		Kind:       req.Type,
		Date:       date,
		Hour:       req.Hour,
		Venue:      req.Venue,
		League:     req.League,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add fixture failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fixtureViewToDTO(ctx, view))
}

func (h *Handler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	if err := h.fixtureService.DeleteFixture(ctx, fixtureID); err != nil {
		h.logger.WarnContext(ctx, "delete fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": fixtureID})
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	query := r.URL.Query()
	opts := usecase.FixtureListOptions{Search: query.Get("search")}

	var err error
	if opts.Page, err = parseIntParam(query.Get("page"), "page"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if opts.PerPage, err = parseIntParam(query.Get("perPage"), "perPage"); err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.fixtureService.ListFixtures(ctx, opts)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(page.Items))
	for _, view := range page.Items {
		items = append(items, fixtureViewToDTO(ctx, view))
	}

	writeSuccess(ctx, w, http.StatusOK, pageEnvelope{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
}

func fixtureViewToDTO(ctx context.Context, view usecase.FixtureView) fixtureDTO {
	ctx, span := startSpan(ctx, "httpapi.fixtureViewToDTO")
	defer span.End()

	f := view.Fixture
	return fixtureDTO{
		ID:           f.ID,
		Type:         string(f.Kind),
		Date:         formatDate(f.Date),
		Hour:         f.Hour,
		Venue:        f.Venue,
		League:       f.League,
		HomeTeamID:   f.HomeTeamID,
		HomeTeamName: view.HomeTeamName,
		AwayTeamID:   f.AwayTeamID,
		AwayTeamName: view.AwayTeamName,
		RatingDiff:   view.RatingDiff,
	}
}
