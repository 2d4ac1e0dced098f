package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/footylytics/rating-engine/internal/platform/logging"
	"github.com/footylytics/rating-engine/internal/usecase"
)

type Handler struct {
	playerService      *usecase.PlayerService
	clubService        *usecase.ClubService
	matchService       *usecase.MatchService
	fixtureService     *usecase.FixtureService
	standingsService   *usecase.StandingsService
	maintenanceService *usecase.MaintenanceService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	clubService *usecase.ClubService,
	matchService *usecase.MatchService,
	fixtureService *usecase.FixtureService,
	standingsService *usecase.StandingsService,
	maintenanceService *usecase.MaintenanceService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:      playerService,
		clubService:        clubService,
		matchService:       matchService,
		fixtureService:     fixtureService,
		standingsService:   standingsService,
		maintenanceService: maintenanceService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSON(body io.Reader, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", usecase.ErrInvalidInput)
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD or RFC3339", usecase.ErrInvalidInput, value)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func parseListOptions(query url.Values) (usecase.ListOptions, error) {
	opts := usecase.ListOptions{
		Search:    query.Get("search"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}

	var err error
	if opts.Page, err = parseIntParam(query.Get("page"), "page"); err != nil {
		return usecase.ListOptions{}, err
	}
	if opts.PerPage, err = parseIntParam(query.Get("perPage"), "perPage"); err != nil {
		return usecase.ListOptions{}, err
	}

	return opts, nil
}

func parseIntParam(value, name string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}

	return n, nil
}

type pageEnvelope struct {
	Items   any `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return formatDate(*t)
}
