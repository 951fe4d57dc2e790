package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage/memory"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *planner.Planner) {
	t.Helper()
	gw := planner.NewGateway(memory.New(nil), planner.WithLogger(applog.Discard()))
	p := planner.New(gw,
		planner.WithPlannerLogger(applog.Discard()),
		planner.WithUserNotifier(crud.LogNotifier{Logger: applog.Discard()}))
	if err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	opts = append([]Option{WithLogger(applog.Discard()), WithRateLimit(1000, 1000)}, opts...)
	return NewServer(":0", p, opts...), p
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthAndReadiness(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d", rec.Code)
	}

	down, _ := newTestServer(t, WithReadiness(func(context.Context) error { return errors.New("store gone") }))
	if rec := do(t, down, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz when down = %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	for header, want := range map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": DefaultHeadersConfig().CSP,
		"Permissions-Policy":      DefaultHeadersConfig().PermissionsPolicy,
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing request id")
	}
}

func TestGetDocument(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/document", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[documentResponse](t, rec)
	if len(got.Document.Budget) != len(core.StarterBudgetCategories) {
		t.Fatalf("budget categories = %d", len(got.Document.Budget))
	}
}

func TestPutDocumentRejectsIncompleteDocument(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/document", `{"guests": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestPutDocumentReplaces(t *testing.T) {
	s, p := newTestServer(t)
	raw, err := core.Encode(core.DefaultDocument())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc := strings.Replace(string(raw), `"guests":[]`, `"guests":[{"id":"g1","name":"Asha","familyMembers":[]}]`, 1)

	rec := do(t, s, http.MethodPut, "/api/v1/document", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if guests := p.Document().Guests; len(guests) != 1 || guests[0].Name != "Asha" {
		t.Fatalf("guests = %+v", guests)
	}
}

func TestDocumentKey(t *testing.T) {
	s, p := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/v1/document/weddingInfo", `{"brideName":"Meera","groomName":"Arjun","totalBudget":1500000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put = %d, body %s", rec.Code, rec.Body)
	}
	if info := p.Document().WeddingInfo; info.BrideName != "Meera" || info.TotalBudget != 1500000 {
		t.Fatalf("weddingInfo = %+v", info)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"read key", http.MethodGet, "/api/v1/document/weddingInfo", "", http.StatusOK},
		{"unknown key", http.MethodGet, "/api/v1/document/honeymoon", "", http.StatusNotFound},
		{"null value", http.MethodPut, "/api/v1/document/guests", `null`, http.StatusBadRequest},
		{"wrong type", http.MethodPut, "/api/v1/document/guests", `{"a":1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, tt.method, tt.path, tt.body); rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestGuestLifecycle(t *testing.T) {
	s, p := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/guests", `{"name":"Ravi","side":"groom","rsvp":"confirmed","familyMembers":[]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}
	created := decode[core.Guest](t, rec)
	if created.ID == "" || created.Name != "Ravi" {
		t.Fatalf("created = %+v", created)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/guests", "")
	list := decode[listResponse[core.Guest]](t, rec)
	if list.Count != 1 {
		t.Fatalf("count = %d", list.Count)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/guests/"+created.ID, `{"name":"Ravi Kumar","side":"groom","familyMembers":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d, body %s", rec.Code, rec.Body)
	}
	if got := p.Document().Guests[0]; got.Name != "Ravi Kumar" || got.ID != created.ID {
		t.Fatalf("after update %+v", got)
	}

	if rec = do(t, s, http.MethodDelete, "/api/v1/guests/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec = do(t, s, http.MethodGet, "/api/v1/guests/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted = %d", rec.Code)
	}
	if rec = do(t, s, http.MethodDelete, "/api/v1/guests/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete twice = %d", rec.Code)
	}
}

func TestCreateValidationError(t *testing.T) {
	s, p := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/guests", `{"email":"not-an-email","familyMembers":[]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decode[ErrorResponse](t, rec)
	if resp.Fields["name"] == "" || resp.Fields["email"] == "" {
		t.Fatalf("fields = %v", resp.Fields)
	}
	if len(p.Document().Guests) != 0 {
		t.Fatal("invalid guest was saved")
	}
}

func TestRepeatedGuestIDsAreRejected(t *testing.T) {
	s, p := newTestServer(t)
	family := `{"name":"Verma family","isFamily":true,"familyMembers":[{"id":"m1","name":"Raj"},{"id":"m1","name":"Priya"}]}`
	rec := do(t, s, http.MethodPost, "/api/v1/guests", family)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Fields["id"] == "" {
		t.Fatalf("fields = %v", resp.Fields)
	}

	twice := `[{"id":"g1","name":"Meera","familyMembers":[]},{"id":"g1","name":"Meera","familyMembers":[]}]`
	if rec := do(t, s, http.MethodPut, "/api/v1/document/guests", twice); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("put key status = %d, body %s", rec.Code, rec.Body)
	}
	if len(p.Document().Guests) != 0 {
		t.Fatalf("guests saved: %+v", p.Document().Guests)
	}
}

func TestCreateInvalidJSON(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodPost, "/api/v1/tasks", `{"title":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBudgetCategoryKeepsChosenName(t *testing.T) {
	s, p := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/budget", `{"category":"Mehendi Artist","planned":25000,"subcategories":[]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[core.BudgetCategory](t, rec); got.Category != "mehendi-artist" {
		t.Fatalf("category = %q", got.Category)
	}
	if rec = do(t, s, http.MethodPost, "/api/v1/budget", `{"category":"venue","subcategories":[]}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate = %d", rec.Code)
	}
	if n := len(p.Document().Budget); n != len(core.StarterBudgetCategories)+1 {
		t.Fatalf("budget categories = %d", n)
	}
}

func TestNestedCollections(t *testing.T) {
	s, p := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/shopping/bride", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("shopping = %d", rec.Code)
	}
	events := decode[listResponse[core.ShoppingEvent]](t, rec)
	if events.Count == 0 {
		t.Fatal("expected starter shopping events")
	}

	path := "/api/v1/shopping/bride/" + events.Items[0].ID + "/items"
	rec = do(t, s, http.MethodPost, path, `{"name":"Lehenga","budget":80000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item = %d, body %s", rec.Code, rec.Body)
	}
	if items := p.Document().Shopping.Bride[0].Items; len(items) != 1 || items[0].Name != "Lehenga" {
		t.Fatalf("items = %+v", items)
	}

	if rec = do(t, s, http.MethodGet, "/api/v1/shopping/cousins", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown side = %d", rec.Code)
	}
	if rec = do(t, s, http.MethodGet, "/api/v1/gifts/unknown", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown gift list = %d", rec.Code)
	}
	if rec = do(t, s, http.MethodGet, "/api/v1/guests/missing/members", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("members of missing guest = %d", rec.Code)
	}
}

func TestSummary(t *testing.T) {
	s, _ := newTestServer(t)
	for _, view := range []string{"budget", "gifts", "shopping", "menus", "vendors", "guests", "tasks", "timeline"} {
		if rec := do(t, s, http.MethodGet, "/api/v1/summary/"+view, ""); rec.Code != http.StatusOK {
			t.Errorf("%s = %d", view, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/summary/horoscope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown view = %d", rec.Code)
	}
}

func TestMutationRateLimit(t *testing.T) {
	s, _ := newTestServer(t, WithRateLimit(0.001, 1))

	if rec := do(t, s, http.MethodPost, "/api/v1/tasks", `{"title":"Book pandit"}`); rec.Code != http.StatusCreated {
		t.Fatalf("first = %d, body %s", rec.Code, rec.Body)
	}
	rec := do(t, s, http.MethodPost, "/api/v1/tasks", `{"title":"Print cards"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	// reads are never limited
	for i := 0; i < 5; i++ {
		if rec := do(t, s, http.MethodGet, "/api/v1/tasks", ""); rec.Code != http.StatusOK {
			t.Fatalf("read %d = %d", i, rec.Code)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&crud.ValidationError{Fields: map[string]string{"name": "is required"}}, http.StatusUnprocessableEntity},
		{core.ErrInvalidDocument, http.StatusBadRequest},
		{core.ErrKeyType, http.StatusBadRequest},
		{core.ErrUnknownKey, http.StatusNotFound},
		{crud.ErrNotFound, http.StatusNotFound},
		{memory.ErrCapacityExceeded, http.StatusInsufficientStorage},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSuspiciousRequestsAreCounted(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/wp-admin/setup.php", "")
	do(t, s, http.MethodGet, "/api/v1/guests", "")
	if got := s.suspicious.Load(); got != 1 {
		t.Fatalf("suspicious = %d, want 1", got)
	}
}
