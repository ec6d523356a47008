package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/adapters/http/perf"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/domain/registration"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/testkit"
)

const testPassword = "password123"

type harness struct {
	t       *testing.T
	backend testkit.Backend
	dir     testkit.Directory
	perf    *perf.Collector
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := testkit.OpenBackend(t)
	h := &harness{t: t, backend: b, dir: testkit.SeedDirectory(t, b.Service.DB()), perf: perf.NewCollector(100)}
	handler, err := NewMux(Deps{
		Client:             b.Client,
		Server:             b.Server,
		Collector:          h.perf,
		CSRFKey:            bytes.Repeat([]byte("c"), 32),
		SessionTTL:         time.Hour,
		RateLimitPerSecond: 10000,
		Now:                func() time.Time { return testkit.Now },
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	h.handler = handler
	return h
}

// do sends a request. A non-nil body is sent as JSON; token is the session cookie.
func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

// provisionAdmin creates an admin the way the operator CLI does.
func (h *harness) provisionAdmin(email, role, scopeID string) {
	h.t.Helper()
	_, err := orchestrators.ExecuteCreateAdminUser(context.Background(), orchestrators.CreateAdminUserInput{
		Email: email, Password: testPassword, Role: role, ScopeID: scopeID, Operator: true,
	}, orchestrators.CreateAdminUserDeps{
		Admin:     h.backend.Server.Admin(),
		Directory: h.backend.Server.Schools(),
		Tx:        h.backend.Server.WithTx,
		Now:       func() time.Time { return testkit.Now },
	})
	if err != nil {
		h.t.Fatalf("provision %s: %v", email, err)
	}
}

// signIn posts credentials to a portal and returns the session cookie value.
func (h *harness) signIn(portalPath, email, password string) string {
	h.t.Helper()
	rr := h.do("POST", portalPath, map[string]string{"email": email, "password": password}, "")
	if rr.Code != http.StatusOK {
		h.t.Fatalf("sign in %s at %s: status %d: %s", email, portalPath, rr.Code, rr.Body.String())
	}
	return sessionCookie(h.t, rr)
}

// registerStudent submits the wizard, confirms the email and signs in.
func (h *harness) registerStudent(email string) string {
	h.t.Helper()
	if rr := h.do("POST", "/register", registrationForm(email), ""); rr.Code != http.StatusCreated {
		h.t.Fatalf("register %s: status %d: %s", email, rr.Code, rr.Body.String())
	}
	token := h.backend.ConfirmationToken(h.t, email)
	if rr := h.do("GET", "/auth/confirm?token="+token, nil, ""); rr.Code != http.StatusOK {
		h.t.Fatalf("confirm %s: status %d", email, rr.Code)
	}
	return h.signIn("/student/login", email, "huddle-up-2024")
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge > 0 {
			return c.Value
		}
	}
	t.Fatalf("no session cookie in response")
	return ""
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func registrationForm(email string) registration.Form {
	return registration.Form{
		Email:                 email,
		Password:              "huddle-up-2024",
		ConfirmPassword:       "huddle-up-2024",
		FirstName:             "Avery",
		LastName:              "Brooks",
		Mobile:                "502-555-0199",
		Grade:                 "11th",
		GraduationYear:        "2026",
		GPA:                   "3.5",
		ChurchName:            "Southeast Christian",
		Relationship:          "yes",
		Sports:                []string{"Basketball"},
		SchoolName:            "Central High School",
		HuddleName:            "Central FCA",
		Address:               student.Address{Street: "9 Oak Ave", City: "Louisville", State: "KY", Zip: "40203"},
		EmergencyContactName:  "Dana Brooks",
		EmergencyContactPhone: "502-555-0198",
		Parent1:               registration.ParentForm{Name: "Dana Brooks", Phone: "502-555-0198", Email: "dana@example.com", Relationship: "Mother"},
		ConsentCommunications: true,
		ShirtSize:             "L",
	}
}

func contains(body *bytes.Buffer, s string) bool {
	return strings.Contains(body.String(), s)
}

func (h *harness) doAccept(method, path, token, accept string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", accept)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	return serve(h, req)
}

// seedOtherSchool adds a Tennessee school outside the default directory and returns its id.
func (h *harness) seedOtherSchool() string {
	h.t.Helper()
	return testkit.SeedSchool(h.t, h.backend.Service.DB(), "TN", "Nashville", "Hillsboro High School", "Hillsboro FCA").School.ID
}

func newFormRequest(path string, body io.Reader) *http.Request {
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h *harness, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}
