package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRateLimiter_BucketRefills(t *testing.T) {
	now := time.Date(2024, 9, 3, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request within the interval should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("another client has its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("bucket should refill after one interval")
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 9, 3, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second)
	rl.now = func() time.Time { return now }
	rl.Allow("10.0.0.1")

	now = now.Add(visitorTTL + time.Minute)
	rl.Allow("10.0.0.2")
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor should have been swept")
	}
}

func TestRateLimit_UsesRemoteHost(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, time.Hour))(http.HandlerFunc(ok))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.7:" + []string{"5000", "5001"}[i]
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("request %d status = %d, want %d", i, rr.Code, want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(ok)).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

func TestCSRF_FormPostWithoutTokenRejected(t *testing.T) {
	handler := CSRF([]byte(strings.Repeat("x", 32)))(http.HandlerFunc(ok))

	req := httptest.NewRequest("POST", "/register", strings.NewReader("email=a@b.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestCSRF_JSONExempt(t *testing.T) {
	handler := CSRF([]byte(strings.Repeat("x", 32)))(http.HandlerFunc(ok))

	req := httptest.NewRequest("PATCH", "/api/student/profile", strings.NewReader(`{"mobile":"555-0100"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestAuth_ResolvesCookie(t *testing.T) {
	resolve := func(_ context.Context, token string) (Principal, bool) {
		return Principal{UserID: "u1", Role: "SCHOOL", AccessToken: token}, token == "good"
	}
	var got Principal
	var found bool
	handler := Auth(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = PrincipalFrom(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !found || got.UserID != "u1" || got.AccessToken != "good" {
		t.Errorf("principal = %+v, %v", got, found)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if found {
		t.Error("stale token must not resolve")
	}
}

func TestRequireRole(t *testing.T) {
	isSchool := func(role string) bool { return role == "SCHOOL" }
	handler := RequireRole("/admin", isSchool)(http.HandlerFunc(ok))

	tests := []struct {
		name      string
		path      string
		principal *Principal
		want      int
	}{
		{"anonymous page redirects", "/admin/dashboard", nil, http.StatusSeeOther},
		{"anonymous api is unauthorized", "/api/admin/overview", nil, http.StatusUnauthorized},
		{"wrong role forbidden", "/admin/dashboard", &Principal{Role: "STUDENT"}, http.StatusForbidden},
		{"allowed role passes", "/admin/dashboard", &Principal{Role: "SCHOOL"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.principal != nil {
				req = req.WithContext(ContextWithPrincipal(req.Context(), *tt.principal))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusSeeOther && rr.Header().Get("Location") != "/admin" {
				t.Errorf("Location = %q", rr.Header().Get("Location"))
			}
		})
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "tok", time.Hour)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Fatalf("cookie = %+v", cookies)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	if SessionToken(req) != "tok" {
		t.Errorf("SessionToken = %q", SessionToken(req))
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr)
	if c := rr.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("clear cookie = %+v", c)
	}
}
