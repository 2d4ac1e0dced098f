package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/usecase"
)

type clubStintRequest struct {
	ClubID string `json:"clubId" validate:"required"`
	From   string `json:"from" validate:"required"`
	To     string `json:"to"`
}

type tenureRequest struct {
	Country  string `json:"country" validate:"required"`
	TeamType string `json:"teamType" validate:"required"`
	From     string `json:"from" validate:"required"`
	To       string `json:"to"`
}

type registerPlayerRequest struct {
	Name          string             `json:"name" validate:"required,max=200"`
	DateOfBirth   string             `json:"dateOfBirth" validate:"required"`
	Position      string             `json:"position" validate:"max=50"`
	Country       string             `json:"country" validate:"max=100"`
	CurrentClub   *clubStintRequest  `json:"currentClub"`
	PreviousClubs []clubStintRequest `json:"previousClubs" validate:"dive"`
	NationalTeams []tenureRequest    `json:"nationalTeams" validate:"dive"`
	InitialRating *float64           `json:"initialRating"`
}

type updatePlayerRequest struct {
	Name             *string            `json:"name"`
	Position         *string            `json:"position"`
	Country          *string            `json:"country"`
	CurrentClub      *clubStintRequest  `json:"currentClub"`
	PreviousClubs    []clubStintRequest `json:"previousClubs" validate:"dive"`
	NationalTeams    []tenureRequest    `json:"nationalTeams" validate:"dive"`
	RatingAdjustment *float64           `json:"ratingAdjustment"`
	AdjustmentDate   string             `json:"adjustmentDate"`
}

type clubStintDTO struct {
	ClubID string `json:"clubId"`
	From   string `json:"from"`
	To     string `json:"to,omitempty"`
}

type tenureDTO struct {
	Country  string `json:"country"`
	TeamType string `json:"teamType"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
}

type ratingEntryDTO struct {
	Date    string  `json:"date"`
	Delta   float64 `json:"delta"`
	Type    string  `json:"type"`
	MatchID string  `json:"matchId,omitempty"`
}

type playerDTO struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	DateOfBirth   string           `json:"dateOfBirth"`
	Age           int              `json:"age"`
	Position      string           `json:"position"`
	Country       string           `json:"country"`
	CurrentClub   *clubStintDTO    `json:"currentClub,omitempty"`
	PreviousClubs []clubStintDTO   `json:"previousClubs,omitempty"`
	NationalTeams []tenureDTO      `json:"nationalTeams,omitempty"`
	RatingHistory []ratingEntryDTO `json:"ratingHistory"`
	TotalRating   float64          `json:"totalRating"`
	NetRating     float64          `json:"netRating"`
}

type playerRowDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Position  string  `json:"position"`
	Country   string  `json:"country"`
	ClubID    string  `json:"clubId,omitempty"`
	ClubName  string  `json:"clubName,omitempty"`
	Rating    float64 `json:"rating"`
	NetRating float64 `json:"netRating"`
}

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := registerInputFromRequest(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.playerService.RegisterPlayer(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "register player failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(ctx, p, time.Now()))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	p, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, p, time.Now()))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	var req updatePlayerRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := updateInputFromRequest(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.playerService.UpdatePlayer(ctx, playerID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, p, time.Now()))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	base, err := parseListOptions(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	opts := usecase.PlayerListOptions{
		ListOptions: base,
		AgeGroup:    r.URL.Query().Get("ageGroup"),
		Position:    r.URL.Query().Get("position"),
	}

	page, err := h.standingsService.ListPlayers(ctx, opts)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerRowDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, playerRowDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, pageEnvelope{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
}

func (h *Handler) CheckPlayerDuplicate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckPlayerDuplicate")
	defer span.End()

	name := r.URL.Query().Get("name")
	dob, err := parseDate(r.URL.Query().Get("dateOfBirth"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	taken, err := h.playerService.CheckDuplicate(ctx, name, dob)
	if err != nil {
		h.logger.WarnContext(ctx, "check duplicate failed", "name", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"exists": taken})
}

func registerInputFromRequest(req registerPlayerRequest) (usecase.RegisterPlayerInput, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return usecase.RegisterPlayerInput{}, err
	}

	currentClub, err := stintInputFromRequest(req.CurrentClub)
	if err != nil {
		return usecase.RegisterPlayerInput{}, err
	}
	previous, err := stintInputsFromRequest(req.PreviousClubs)
	if err != nil {
		return usecase.RegisterPlayerInput{}, err
	}
	tenures, err := tenureInputsFromRequest(req.NationalTeams)
	if err != nil {
		return usecase.RegisterPlayerInput{}, err
	}

	return usecase.RegisterPlayerInput{
		Name:          req.Name,
		DateOfBirth:   dob,
		Position:      req.Position,
		Country:       req.Country,
		CurrentClub:   currentClub,
		PreviousClubs: previous,
		NationalTeams: tenures,
		InitialRating: req.InitialRating,
	}, nil
}

func updateInputFromRequest(req updatePlayerRequest) (usecase.UpdatePlayerInput, error) {
	currentClub, err := stintInputFromRequest(req.CurrentClub)
	if err != nil {
		return usecase.UpdatePlayerInput{}, err
	}
	previous, err := stintInputsFromRequest(req.PreviousClubs)
	if err != nil {
		return usecase.UpdatePlayerInput{}, err
	}
	tenures, err := tenureInputsFromRequest(req.NationalTeams)
	if err != nil {
		return usecase.UpdatePlayerInput{}, err
	}
	adjustmentDate, err := parseOptionalDate(req.AdjustmentDate)
	if err != nil {
		return usecase.UpdatePlayerInput{}, err
	}

	return usecase.UpdatePlayerInput{
		Name:             req.Name,
		Position:         req.Position,
		Country:          req.Country,
		CurrentClub:      currentClub,
		PreviousClubs:    previous,
		NationalTeams:    tenures,
		RatingAdjustment: req.RatingAdjustment,
		AdjustmentDate:   adjustmentDate,
	}, nil
}

func stintInputFromRequest(req *clubStintRequest) (*usecase.ClubStintInput, error) {
	if req == nil {
		return nil, nil
	}

	from, err := parseDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		return nil, err
	}

	return &usecase.ClubStintInput{ClubID: req.ClubID, From: from, To: to}, nil
}

func stintInputsFromRequest(reqs []clubStintRequest) ([]usecase.ClubStintInput, error) {
	if reqs == nil {
		return nil, nil
	}

	out := make([]usecase.ClubStintInput, 0, len(reqs))
	for i := range reqs {
		stint, err := stintInputFromRequest(&reqs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *stint)
	}

	return out, nil
}

func tenureInputsFromRequest(reqs []tenureRequest) ([]usecase.TenureInput, error) {
	if reqs == nil {
		return nil, nil
	}

	out := make([]usecase.TenureInput, 0, len(reqs))
	for _, req := range reqs {
		from, err := parseDate(req.From)
		if err != nil {
			return nil, err
		}
		to, err := parseOptionalDate(req.To)
		if err != nil {
			return nil, err
		}
		out = append(out, usecase.TenureInput{
			Country:  req.Country,
			TeamType: req.TeamType,
			From:     from,
			To:       to,
		})
	}

	return out, nil
}

func playerToDTO(ctx context.Context, p player.Player, asOf time.Time) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	history := make([]ratingEntryDTO, 0, len(p.RatingHistory))
	for _, e := range p.RatingHistory {
		history = append(history, ratingEntryDTO{
			Date:    formatDate(e.Date),
			Delta:   e.NewRating,
			Type:    string(e.Type),
			MatchID: e.MatchID,
		})
	}

	dto := playerDTO{
		ID:            p.ID,
		Name:          p.Name,
		DateOfBirth:   formatDate(p.DateOfBirth),
		Age:           p.Age(asOf),
		Position:      p.Position,
		Country:       p.Country,
		RatingHistory: history,
		TotalRating:   p.TotalRating(),
		NetRating:     p.NetRating(asOf),
	}
	if p.CurrentClub != nil {
		dto.CurrentClub = &clubStintDTO{
			ClubID: p.CurrentClub.ClubID,
			From:   formatDate(p.CurrentClub.From),
			To:     formatOptionalDate(p.CurrentClub.To),
		}
	}
	for _, s := range p.PreviousClubs {
		dto.PreviousClubs = append(dto.PreviousClubs, clubStintDTO{
			ClubID: s.ClubID,
			From:   formatDate(s.From),
			To:     formatOptionalDate(s.To),
		})
	}
	for _, t := range p.NationalTeams {
		dto.NationalTeams = append(dto.NationalTeams, tenureDTO{
			Country:  t.Country,
			TeamType: t.TeamType,
			From:     formatDate(t.From),
			To:       formatOptionalDate(t.To),
		})
	}

	return dto
}
