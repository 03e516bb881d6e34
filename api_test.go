package folio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// setupServerApp wires the full middleware chain and route table so requests
// travel the same path they would on a running server.
func setupServerApp(t *testing.T) *App {
	t.Helper()
	a := setupTestApp(t)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

// loginAdmin seeds a credential, logs in through the server, and returns the
// session cookies for follow-up requests.
func loginAdmin(t *testing.T, a *App) []*http.Cookie {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := a.Store.CreateUser("admin", string(hash), "admin"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	rec := serve(a, jsonRequest(http.MethodPost, "/admin/login/", `{"username":"admin","password":"s3cret"}`, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	return rec.Result().Cookies()
}

func apiError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestServerLoginInvalidCredentials(t *testing.T) {
	a := setupServerApp(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := a.Store.CreateUser("admin", string(hash), "admin"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := serve(a, jsonRequest(http.MethodPost, "/admin/login/", `{"username":"admin","password":"wrong"}`, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (body %s)", rec.Code, rec.Body.String())
	}
	if msg := apiError(t, rec); msg != "invalid credentials" {
		t.Errorf("error = %q, want invalid credentials", msg)
	}
}

func TestServerMutationsRequireSession(t *testing.T) {
	a := setupServerApp(t)
	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/blogs", `{"title":"x","content":"c","author":"a"}`},
		{http.MethodPut, "/blogs/1", `{"title":"x"}`},
		{http.MethodDelete, "/blogs/1", ""},
		{http.MethodPost, "/upload", ""},
	}
	for _, tt := range tests {
		rec := serve(a, jsonRequest(tt.method, tt.target, tt.body, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401 (body %s)", tt.method, tt.target, rec.Code, rec.Body.String())
		}
	}
}

func TestServerCreateValidationAndConflict(t *testing.T) {
	a := setupServerApp(t)
	cookies := loginAdmin(t, a)

	rec := serve(a, jsonRequest(http.MethodPost, "/blogs", `{"title":"Only Title"}`, cookies))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if msg := apiError(t, rec); !strings.Contains(msg, "content") || !strings.Contains(msg, "author") {
		t.Errorf("error = %q, want the missing fields named", msg)
	}

	body := `{"title":"Stack Post","content":"c","author":"a","isPublished":true}`
	rec = serve(a, jsonRequest(http.MethodPost, "/blogs", body, cookies))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	rec = serve(a, jsonRequest(http.MethodPost, "/blogs", body, cookies))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate slug: status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestServerUpdateAndDeleteMissing(t *testing.T) {
	a := setupServerApp(t)
	cookies := loginAdmin(t, a)

	rec := serve(a, jsonRequest(http.MethodPut, "/blogs/9999", `{"title":"x"}`, cookies))
	if rec.Code != http.StatusNotFound {
		t.Errorf("update: status = %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}

	rec = serve(a, jsonRequest(http.MethodDelete, "/blogs/9999", "", cookies))
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete: status = %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestServerPublicReadThroughStack(t *testing.T) {
	a := setupServerApp(t)
	cookies := loginAdmin(t, a)

	body := `{"title":"Stacked Read","content":"c","author":"a","isPublished":true}`
	rec := serve(a, jsonRequest(http.MethodPost, "/blogs", body, cookies))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = serve(a, jsonRequest(http.MethodGet, "/blogs/stacked-read", "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("read: status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var post BlogPost
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1", post.ViewCount)
	}
}
