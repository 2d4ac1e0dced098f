package httpapi

import (
	"net/http"
	"time"
)

type teamStandingDTO struct {
	ID        string  `json:"id"`
	Country   string  `json:"country"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"`
	NetRating float64 `json:"netRating"`
}

// ListNationalTeams serves the ranked national-team table.
func (h *Handler) ListNationalTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNationalTeams")
	defer span.End()

	opts, err := parseListOptions(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.standingsService.ListNationalTeams(ctx, opts)
	if err != nil {
		h.logger.WarnContext(ctx, "list national teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamStandingDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, teamStandingDTO{
			ID:        row.ID,
			Country:   row.Country,
			Type:      row.Type,
			Name:      row.Country + " " + row.Type,
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

// ListNationalTeamPlayers serves the squad of a national side, now by default
// or as of ?date=.
func (h *Handler) ListNationalTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNationalTeamPlayers")
	defer span.End()

	teamID := r.PathValue("teamID")
	at, err := parseOptionalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.playerService.ListNationalTeamSquad(ctx, teamID, at)
	if err != nil {
		h.logger.WarnContext(ctx, "list national team squad failed", "team_id", teamID, "error", err)
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
