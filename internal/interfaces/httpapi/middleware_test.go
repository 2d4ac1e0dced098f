package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func nextProbe(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		configured  string
		provided    string
		wantStatus  int
		wantForward bool
	}{
		{name: "validToken", configured: "s3cret", provided: "s3cret", wantStatus: http.StatusOK, wantForward: true},
		{name: "wrongToken", configured: "s3cret", provided: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missingToken", configured: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "tokenNotConfigured", configured: "", provided: "anything", wantStatus: http.StatusServiceUnavailable},
		{name: "whitespaceTrimmed", configured: "  s3cret  ", provided: "s3cret", wantStatus: http.StatusOK, wantForward: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			called := false
			handler := RequireInternalJobToken(tc.configured, nextProbe(&called))

			req := httptest.NewRequest(http.MethodPost, "/internal/jobs/purge-matches", nil)
			if tc.provided != "" {
				req.Header.Set("X-Internal-Job-Token", tc.provided)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if called != tc.wantForward {
				t.Fatalf("next called = %v, want %v", called, tc.wantForward)
			}
		})
	}
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	t.Parallel()

	called := false
	handler := CORS([]string{"https://app.example.com"}, nextProbe(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("next handler not called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("Vary = %q", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	t.Parallel()

	called := false
	handler := CORS([]string{"https://app.example.com"}, nextProbe(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("next handler not called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	t.Parallel()

	called := false
	handler := CORS([]string{"*"}, nextProbe(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	t.Parallel()

	called := false
	handler := CORS([]string{"*"}, nextProbe(&called))

	req := httptest.NewRequest(http.MethodOptions, "/v1/matches", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("preflight reached the next handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Fatal("Access-Control-Allow-Headers missing on preflight")
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: "/HEALTHZ", want: false},
		{path: "/readyz", want: false},
		{path: "/v1/players", want: true},
		{path: "/internal/jobs/purge-matches", want: true},
	}

	for _, tc := range tests {
		if got := shouldTraceRequest(tc.path); got != tc.want {
			t.Fatalf("shouldTraceRequest(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	if !shouldCreateHTTPAPISpan("httpapi.Handler.GetPlayer") {
		t.Fatal("handler span suppressed")
	}
	if shouldCreateHTTPAPISpan("httpapi.writeJSON") {
		t.Fatal("helper span not suppressed")
	}
}
