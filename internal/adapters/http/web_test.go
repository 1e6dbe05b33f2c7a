package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/adapters/http/perf"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/state"
	"goodlife/internal/config"
)

const adminPassword = "front-desk-123"

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testNow    = time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)
)

func init() {
	RateLimitPerSecond = 10000
}

type testServer struct {
	srv     *Server
	handler http.Handler
	state   *state.Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	c := state.New(state.Seed(), nil)
	var (
		mu sync.Mutex
		n  int
	)
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
	now := func() time.Time { return testNow }

	err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Email:    state.SeedAdminEmail,
		Password: adminPassword,
	}, orchestrators.StaffDeps{State: c, GenerateID: ids, Now: now})
	require.NoError(t, err)

	srv := NewServer(Deps{
		Config: config.Config{
			SessionSecret: testSecret,
			CSRFKey:       testSecret,
			PublicURL:     "http://localhost:8080",
			MomoNumber:    "0551336976",
		},
		State:      c,
		Collector:  perf.NewCollector(100),
		Now:        now,
		GenerateID: ids,
	})
	return &testServer{srv: srv, handler: srv.Handler(), state: c}
}

// do sends a JSON request; body may be nil.
func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/api/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/api/health", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "local", body["mode"])
}

func TestPortalRequiresSession(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/dashboard", "/api/members", "/api/session", "/api/admin/perf"} {
		rr := ts.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/login", map[string]string{"email": state.SeedAdminEmail, "password": "nope-nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"invalid email or password"}`, rr.Body.String())
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/login", map[string]string{"email": state.SeedAdminEmail, "pass": adminPassword}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("session restored from cookie", func(t *testing.T) {
		cookie := ts.login(t, state.SeedAdminEmail, adminPassword)
		rr := ts.do(t, http.MethodGet, "/api/session", nil, cookie)
		require.Equal(t, http.StatusOK, rr.Code)

		body := decode[map[string]any](t, rr)
		assert.Equal(t, "SUPER_ADMIN", body["role"])
		assert.Equal(t, "dashboard", body["currentPage"])
		assert.NotEmpty(t, body["csrfToken"])
	})
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, state.SeedAdminEmail, adminPassword)
	require.Equal(t, 1, ts.srv.Sessions().Active())

	rr := ts.do(t, http.MethodPost, "/api/logout", map[string]bool{"acknowledgeShift": false}, cookie)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, ts.srv.Sessions().Active())

	rr = ts.do(t, http.MethodGet, "/api/session", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDashboard_SeedFigures(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, state.SeedAdminEmail, adminPassword)

	rr := ts.do(t, http.MethodGet, "/api/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[struct {
		Distribution struct {
			Total int `json:"total"`
		} `json:"distribution"`
		TotalRevenue float64 `json:"totalRevenue"`
	}](t, rr)
	assert.Equal(t, 3, body.Distribution.Total)
	assert.InDelta(t, 3600.0, body.TotalRevenue, 0.001)
}

func TestStaffWithoutPrivileges_IsForbidden(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, state.SeedAdminEmail, adminPassword)

	rr := ts.do(t, http.MethodPost, "/api/staff", map[string]any{
		"fullName": "Ama Desk",
		"email":    "ama@goodlife.com",
		"role":     "STAFF",
		"position": "Front Desk",
		"phone":    "0244555666",
		"password": "desk-pass-1",
	}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "desk-pass-1")

	desk := ts.login(t, "ama@goodlife.com", "desk-pass-1")
	for _, path := range []string{"/api/members", "/api/payments", "/api/dashboard/revenue", "/api/staff", "/api/admin/perf"} {
		rr := ts.do(t, http.MethodGet, path, nil, desk)
		assert.Equal(t, http.StatusForbidden, rr.Code, path)
	}

	rr = ts.do(t, http.MethodDelete, "/api/members/1", nil, desk)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"`+restricted+`"}`, rr.Body.String())
}

func TestDeletedStaff_SessionIsDropped(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, state.SeedAdminEmail, adminPassword)
	rr := ts.do(t, http.MethodPost, "/api/staff", map[string]any{
		"fullName": "Kofi Temp", "email": "kofi@goodlife.com", "role": "STAFF",
		"position": "Trainer", "phone": "0201112222", "password": "trainer-99",
	}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]any](t, rr)

	kofi := ts.login(t, "kofi@goodlife.com", "trainer-99")
	rr = ts.do(t, http.MethodDelete, "/api/staff/"+created["id"].(string), nil, admin)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = ts.do(t, http.MethodGet, "/api/session", nil, kofi)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMembers_NotFound(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, state.SeedAdminEmail, adminPassword)

	rr := ts.do(t, http.MethodDelete, "/api/members/missing", nil, admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckout_RecordsPendingRegistration(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"fullName":      "Efua Boateng",
		"email":         "efua@example.com",
		"phone":         "0277000111",
		"plan":          "Monthly",
		"transactionId": "TX-9001",
		"momoPhone":     "0277000111",
		"network":       "MTN",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	body := decode[orchestrators.PaymentResult](t, rr)
	assert.True(t, body.Payment.IsPendingMember)
	assert.Empty(t, body.Payment.MemberID)
	assert.Equal(t, "Pending", string(body.Payment.Status))

	admin := ts.login(t, state.SeedAdminEmail, adminPassword)
	rr = ts.do(t, http.MethodGet, "/api/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"pendingPayments":1`)
}

func TestQRCodes(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/checkout/qr", "/api/checkins/qr?size=128"} {
		rr := ts.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")), path)
	}

	rr := ts.do(t, http.MethodGet, "/api/checkins/qr?size=5000", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckIns_FlowAndExport(t *testing.T) {
	ts := newTestServer(t)
	visit := map[string]string{"fullName": "Yaw Asante", "phone": "0244999000"}

	rr := ts.do(t, http.MethodPost, "/api/checkins", visit, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]any](t, rr)

	rr = ts.do(t, http.MethodPost, "/api/checkins", visit, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/checkins/"+created["id"].(string)+"/checkout", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	admin := ts.login(t, state.SeedAdminEmail, adminPassword)
	rr = ts.do(t, http.MethodGet, "/api/checkins/export", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Goodlife_CheckIns_")

	lines := strings.Split(rr.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Yaw Asante"`)
	assert.Contains(t, lines[1], `"Checked Out"`)
}

func TestSessionPage_RejectsHiddenPage(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, state.SeedAdminEmail, adminPassword)

	rr := ts.do(t, http.MethodPut, "/api/session/page", map[string]string{"page": "members"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			updated = c
		}
	}
	require.NotNil(t, updated)
	rr = ts.do(t, http.MethodGet, "/api/session", nil, updated)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "members", decode[map[string]any](t, rr)["currentPage"])
}

func TestPerf_SuperAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, state.SeedAdminEmail, adminPassword)
	ts.do(t, http.MethodGet, "/api/plans", nil, nil)

	rr := ts.do(t, http.MethodGet, "/api/admin/perf?minutes=5", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	snap := decode[perf.Snapshot](t, rr)
	assert.Positive(t, snap.TotalRecorded)
}

func TestEmailConfig_LocalMode(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, state.SeedAdminEmail, adminPassword)

	rr := ts.do(t, http.MethodGet, "/api/email/config", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, false, body["configured"])
	assert.Equal(t, false, body["apiKeySet"])
}
