package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/footylytics/rating-engine/internal/domain/rating"
	"github.com/footylytics/rating-engine/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
		wantCode   string
	}{
		{
			name:       "invalidInput",
			err:        fmt.Errorf("%w: name is required", usecase.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidInput",
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "notFound",
			err:        fmt.Errorf("%w: player p1", usecase.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantReason: "notFound",
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "conflict",
			err:        fmt.Errorf("%w: Riverside FC already plays that day", usecase.ErrConflict),
			wantStatus: http.StatusConflict,
			wantReason: "conflict",
			wantCode:   "CONFLICT",
		},
		{
			name:       "unauthorized",
			err:        usecase.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthorized",
			wantCode:   "UNAUTHENTICATED",
		},
		{
			name:       "dependencyUnavailable",
			err:        usecase.ErrDependencyUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantReason: "dependencyUnavailable",
			wantCode:   "UNAVAILABLE",
		},
		{
			name:       "invalidOdds",
			err:        fmt.Errorf("create match: %w", rating.ErrInvalidOdds),
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidMatchData",
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "invalidScore",
			err:        rating.ErrInvalidScore,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidMatchData",
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantReason: "internalError",
			wantCode:   "INTERNAL",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := mapError(context.Background(), tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("HTTPStatus = %d, want %d", mapped.HTTPStatus, tc.wantStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("Reason = %q, want %q", mapped.Reason, tc.wantReason)
			}
			if mapped.Status != tc.wantCode {
				t.Fatalf("Status = %q, want %q", mapped.Status, tc.wantCode)
			}
		})
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: club c1", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("apiVersion = %q, want %q", envelope.APIVersion, googleAPIVersion)
	}
	if envelope.Error == nil {
		t.Fatal("error body missing")
	}
	if envelope.Error.Code != http.StatusNotFound || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("error body = %+v", envelope.Error)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("error items = %+v", envelope.Error.Errors)
	}
}

func TestWriteInternalErrorHidesDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Message != "internal server error" {
		t.Fatalf("error body = %+v", envelope.Error)
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"id": "club-1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var envelope struct {
		APIVersion string            `json:"apiVersion"`
		Data       map[string]string `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if envelope.APIVersion != googleAPIVersion || envelope.Data["id"] != "club-1" {
		t.Fatalf("envelope = %+v", envelope)
	}
}
