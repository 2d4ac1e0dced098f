package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/rating"
	"github.com/footylytics/rating-engine/internal/usecase"
)

type lineupEntryRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Starter  bool   `json:"starter"`
}

type matchSideRequest struct {
	TeamID string               `json:"teamId" validate:"required"`
	Score  int                  `json:"score" validate:"gte=0"`
	Lineup []lineupEntryRequest `json:"lineup" validate:"required,min=1,dive"`
}

type oddsRequest struct {
	HomeWin float64 `json:"homeWin" validate:"gte=0"`
	Draw    float64 `json:"draw" validate:"gte=0"`
	AwayWin float64 `json:"awayWin" validate:"gte=0"`
}

type matchRequest struct {
	Type  string           `json:"type" validate:"required"`
	Date  string           `json:"date" validate:"required"`
	Venue string           `json:"venue" validate:"required,max=200"`
	Odds  oddsRequest      `json:"odds" validate:"required"`
	Home  matchSideRequest `json:"home" validate:"required"`
	Away  matchSideRequest `json:"away" validate:"required"`
}

type lineupEntryDTO struct {
	PlayerID string `json:"playerId"`
	Starter  bool   `json:"starter"`
}

type matchSideDTO struct {
	TeamID   string           `json:"teamId"`
	TeamName string           `json:"teamName"`
	Score    int              `json:"score"`
	Lineup   []lineupEntryDTO `json:"lineup"`
}

type oddsDTO struct {
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`
}

type outcomeDTO struct {
	HomeChange float64 `json:"homeChange"`
	AwayChange float64 `json:"awayChange"`
}

type matchDTO struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"`
	Date    string       `json:"date"`
	Venue   string       `json:"venue"`
	Odds    oddsDTO      `json:"odds"`
	Home    matchSideDTO `json:"home"`
	Away    matchSideDTO `json:"away"`
	Outcome outcomeDTO   `json:"outcome"`
}

type availabilityDTO struct {
	HasMatch     bool   `json:"hasMatch"`
	TeamName     string `json:"teamName"`
	OpponentName string `json:"opponentName,omitempty"`
	Venue        string `json:"venue,omitempty"`
	Date         string `json:"date,omitempty"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	input, err := h.decodeMatchInput(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchService.CreateMatch(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "venue", input.Venue, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchViewToDTO(ctx, view))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	input, err := h.decodeMatchInput(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchService.UpdateMatch(ctx, matchID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchViewToDTO(ctx, view))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.matchService.DeleteMatch(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": matchID})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	view, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchViewToDTO(ctx, view))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	query := r.URL.Query()
	filter := match.ListFilter{Search: query.Get("search")}

	var err error
	if filter.Page, err = parseIntParam(query.Get("page"), "page"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.PerPage, err = parseIntParam(query.Get("perPage"), "perPage"); err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.matchService.ListMatches(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(page.Items))
	for _, view := range page.Items {
		items = append(items, matchViewToDTO(ctx, view))
	}

	writeSuccess(ctx, w, http.StatusOK, pageEnvelope{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
}

// CheckTeamAvailability probes whether a team already plays on a day.
func (h *Handler) CheckTeamAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckTeamAvailability")
	defer span.End()

	query := r.URL.Query()
	day, err := parseDate(query.Get("date"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	availability, err := h.matchService.CheckTeamAvailability(ctx, query.Get("type"), query.Get("teamId"), day)
	if err != nil {
		h.logger.WarnContext(ctx, "check team availability failed", "team_id", query.Get("teamId"), "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := availabilityDTO{
		HasMatch:     availability.HasMatch,
		TeamName:     availability.TeamName,
		OpponentName: availability.OpponentName,
		Venue:        availability.Venue,
	}
	if availability.HasMatch {
		dto.Date = formatDate(availability.Date)
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) decodeMatchInput(ctx context.Context, r *http.Request) (usecase.MatchInput, error) {
	var req matchRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		return usecase.MatchInput{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.MatchInput{}, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return usecase.MatchInput{}, err
	}

	return usecase.MatchInput{
		Kind:  req.Type,
		Date:  date,
		Venue: req.Venue,
		Odds:  rating.Odds{HomeWin: req.Odds.HomeWin, Draw: req.Odds.Draw, AwayWin: req.Odds.AwayWin},
		Home:  sideInputFromRequest(req.Home),
		Away:  sideInputFromRequest(req.Away),
	}, nil
}

func sideInputFromRequest(req matchSideRequest) usecase.MatchSideInput {
	lineup := make([]usecase.LineupEntryInput, 0, len(req.Lineup))
	for _, entry := range req.Lineup {
		lineup = append(lineup, usecase.LineupEntryInput{PlayerID: entry.PlayerID, Starter: entry.Starter})
	}

	return usecase.MatchSideInput{TeamID: req.TeamID, Score: req.Score, Lineup: lineup}
}

func matchViewToDTO(ctx context.Context, view usecase.MatchView) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchViewToDTO")
	defer span.End()

	m := view.Match
	return matchDTO{
		ID:    m.ID,
		Type:  string(m.Kind),
		Date:  m.Date.UTC().Format(time.RFC3339),
		Venue: m.Venue,
		Odds:  oddsDTO{HomeWin: m.Odds.HomeWin, Draw: m.Odds.Draw, AwayWin: m.Odds.AwayWin},
		Home:  sideToDTO(m.Home, view.HomeTeamName),
		Away:  sideToDTO(m.Away, view.AwayTeamName),
		Outcome: outcomeDTO{
			HomeChange: m.Outcome.HomeChange,
			AwayChange: m.Outcome.AwayChange,
		},
	}
}

func sideToDTO(side match.Side, teamName string) matchSideDTO {
	lineup := make([]lineupEntryDTO, 0, len(side.Lineup))
	for _, entry := range side.Lineup {
		lineup = append(lineup, lineupEntryDTO{PlayerID: entry.PlayerID, Starter: entry.Starter})
	}

	return matchSideDTO{
		TeamID:   side.TeamID,
		TeamName: teamName,
		Score:    side.Score,
		Lineup:   lineup,
	}
}
