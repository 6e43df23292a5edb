package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"skip-selector/internal/catalog"
	"skip-selector/internal/metrics"
	"skip-selector/internal/session"
	"skip-selector/pkg/api"
	"skip-selector/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeQuery struct {
	calls  atomic.Int32
	result catalog.Result
}

func (f *fakeQuery) Fetch(ctx context.Context) catalog.Result {
	f.calls.Add(1)
	return f.result
}

func sixYarder() []api.Skip {
	return []api.Skip{{
		ID:               11,
		Size:             6,
		HirePeriodDays:   14,
		PriceBeforeVAT:   decimal.NewFromInt(200),
		VAT:              decimal.NewFromInt(20),
		AllowedOnRoad:    true,
		AllowsHeavyWaste: false,
	}}
}

type testServer struct {
	redis  *miniredis.Miniredis
	router *gin.Engine
	query  *fakeQuery
	cookie *http.Cookie
}

func newTestServer(t *testing.T, res catalog.Result) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rc := redis.New(mr.Addr(), "", 0)
	t.Cleanup(rc.Close)

	reg := prometheus.NewRegistry()
	q := &fakeQuery{result: res}
	h := NewHandler(session.NewManager(rc, time.Hour), q, metrics.New(reg), zap.NewNop())

	r, err := NewRouter(h, reg)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	return &testServer{redis: mr, router: r, query: q}
}

func (s *testServer) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) mount(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	w := s.do(http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			s.cookie = c
		}
	}
	if s.cookie == nil {
		t.Fatal("session cookie not set")
	}
	return w
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(nil))

	w := s.do(http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestIndex_RendersSkeleton(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))

	w := s.mount(t)
	body := w.Body.String()
	if got := strings.Count(body, "data-placeholder="); got != 6 {
		t.Errorf("Incorrect placeholder count, got %d, want 6", got)
	}
	if strings.Contains(body, "data-card=") {
		t.Error("Skeleton must not contain cards")
	}
	if s.query.calls.Load() != 0 {
		t.Error("Index must not fetch")
	}
}

func TestGrid_RendersCards(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))
	s.mount(t)

	w := s.do(http.MethodGet, "/grid")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"£240.00",
		"/skips/skip-sizes/6-yarder-skip.jpg",
		"6 Yard Skip",
		"Road Legal",
		"Light Waste Only",
		"Select This Skip",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "data-summary=") {
		t.Error("No summary without selection")
	}

	s.do(http.MethodGet, "/grid")
	if got := s.query.calls.Load(); got != 1 {
		t.Errorf("Incorrect fetch count, got %d, want 1 per mount", got)
	}

	s.mount(t)
	s.do(http.MethodGet, "/grid")
	if got := s.query.calls.Load(); got != 2 {
		t.Errorf("Remount should fetch again, got %d", got)
	}
}

func TestGrid_FetchFailure(t *testing.T) {
	s := newTestServer(t, catalog.Failed(errors.New("down")))
	s.mount(t)

	w := s.do(http.MethodGet, "/grid")
	body := w.Body.String()
	if !strings.Contains(body, "Error loading skips") || !strings.Contains(body, "Please try again later") {
		t.Errorf("Error panel missing: %s", body)
	}
	if strings.Contains(body, "data-card=") {
		t.Error("Error view must not render cards")
	}
}

func TestGrid_UnknownSession(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))

	if w := s.do(http.MethodGet, "/grid"); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without cookie, got %d", w.Code)
	}

	s.cookie = &http.Cookie{Name: sessionCookie, Value: "expired"}
	if w := s.do(http.MethodGet, "/grid"); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown session, got %d", w.Code)
	}
}

func TestToggle(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))
	s.mount(t)
	s.do(http.MethodGet, "/grid")

	w := s.do(http.MethodPost, "/skips/11/toggle")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `data-summary="11"`) || !strings.Contains(body, "Deselect Skip") {
		t.Errorf("Selection not rendered: %s", body)
	}
	if !strings.Contains(body, "Continue to Booking") {
		t.Error("Summary action missing")
	}

	w = s.do(http.MethodPost, "/skips/11/toggle")
	if strings.Contains(w.Body.String(), "data-summary=") {
		t.Error("Second toggle should clear the selection")
	}
}

func TestToggle_BeforeGridKeepsSkeleton(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))
	s.mount(t)

	w := s.do(http.MethodPost, "/skips/11/toggle")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if got := strings.Count(body, "data-placeholder="); got != 6 {
		t.Errorf("Incorrect placeholder count, got %d, want 6", got)
	}
	if strings.Contains(body, `data-view="grid"`) || strings.Contains(body, "data-summary=") {
		t.Errorf("Pending screen must render the skeleton only: %s", body)
	}
}

func TestToggle_InvalidID(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))
	s.mount(t)

	if w := s.do(http.MethodPost, "/skips/abc/toggle"); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestContinue(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))
	s.mount(t)
	s.do(http.MethodGet, "/grid")

	if w := s.do(http.MethodPost, "/continue"); w.Code != http.StatusConflict {
		t.Errorf("expected status 409 without selection, got %d", w.Code)
	}

	s.do(http.MethodPost, "/skips/11/toggle")
	if w := s.do(http.MethodPost, "/continue"); w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}

	w := s.do(http.MethodGet, "/metrics")
	if !strings.Contains(w.Body.String(), "skipselector_continue_total 1") {
		t.Errorf("continue not counted:\n%s", w.Body.String())
	}
}

func TestMount_ResetsSelection(t *testing.T) {
	s := newTestServer(t, catalog.Succeeded(sixYarder()))
	s.mount(t)
	s.do(http.MethodGet, "/grid")
	s.do(http.MethodPost, "/skips/11/toggle")

	old := s.cookie
	s.mount(t)
	if s.cookie.Value == old.Value {
		t.Fatal("Remount should issue a new session")
	}
	if s.redis.Exists("session:" + old.Value) {
		t.Error("Previous session should be dropped on remount")
	}
	w := s.do(http.MethodGet, "/grid")
	if strings.Contains(w.Body.String(), "data-summary=") {
		t.Error("Selection must not survive a reload")
	}
}
