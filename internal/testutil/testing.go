package testutil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/mocks"
	"secure-auth-app/internal/models"
	"secure-auth-app/internal/view"
	"testing"

	"go.uber.org/mock/gomock"
)

const TestExternalURL = "https://app.example.com"

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext       *middlewares.AppContext
	Request          *http.Request
	Response         *httptest.ResponseRecorder
	MockController   *gomock.Controller
	MockSession      *mocks.MockSessionProvider
	MockOidcProvider *mocks.MockOIDCProvider
	LogHandler       *TestLogHandler
	Reports          *ReportRecorder
}

// NewTestConfig returns a validated-looking config for handler tests.
func NewTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			ExternalURL: TestExternalURL,
		},
		OIDC: config.OIDCConfig{
			IssuerURL:   "https://auth.example.com/",
			ClientID:    "client-id",
			RedirectURI: TestExternalURL,
			Scopes:      []string{"openid", "profile", "email"},
		},
		Sessions: config.DefaultSessionConfig,
	}
}

// NewTestContextWithURL creates a complete test setup with sensible defaults
func NewTestContextWithURL(t *testing.T, method, url string) *TestContext {
	t.Helper()

	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)

	mockSession := mocks.NewMockSessionProvider(ctrl)
	mockOidcProvider := mocks.NewMockOIDCProvider(ctrl)

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("Could not create renderer: %v", err)
	}

	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()

	appCtx := &middlewares.AppContext{
		Context:        req.Context(),
		Config:         NewTestConfig(),
		Logger:         logger,
		SessionManager: mockSession,
		OIDCProvider:   mockOidcProvider,
		Renderer:       renderer,
		Request:        req,
		Response:       rr,
	}

	tc := &TestContext{
		AppContext:       appCtx,
		Request:          req,
		Response:         rr,
		MockController:   ctrl,
		MockSession:      mockSession,
		MockOidcProvider: mockOidcProvider,
		LogHandler:       logHandler,
		Reports:          &ReportRecorder{},
	}
	tc.WithBoundary(boundary.Healthy)

	return tc
}

// Finish should be called at the end of tests to clean up mocks
func (tc *TestContext) Finish() {
	if tc.MockController != nil {
		tc.MockController.Finish()
	}
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// WithBoundary replaces the request's error boundary with one in state that
// reports into tc.Reports.
func (tc *TestContext) WithBoundary(state boundary.State) *TestContext {
	tc.AppContext.Boundary = boundary.New(
		boundary.WithState(state),
		boundary.WithFallback(tc.AppContext.Renderer.Fallback()),
		boundary.WithReporter(tc.Reports.Report),
		boundary.WithComponent(tc.Request.URL.Path),
	)
	return tc
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// Helper to add query parameters to the request
func (tc *TestContext) WithQueryParam(key, value string) *TestContext {
	q := tc.Request.URL.Query()
	q.Add(key, value)
	tc.Request.URL.RawQuery = q.Encode()
	return tc
}

// Helper to add headers
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// ExpectAnonymous sets up the session lookups of a visitor without a session.
func (tc *TestContext) ExpectAnonymous() {
	tc.MockSession.EXPECT().IsUserAuthenticated(tc.AppContext).Return(false).AnyTimes()
}

// ExpectAuthenticated sets up the session lookups of a logged in user. A nil user
// models a session whose user record is not available yet.
func (tc *TestContext) ExpectAuthenticated(user *models.User) {
	tc.MockSession.EXPECT().IsUserAuthenticated(tc.AppContext).Return(true).AnyTimes()
	tc.MockSession.EXPECT().GetUser(tc.AppContext).Return(user, user != nil).AnyTimes()
}

func (tc *TestContext) AssertLogsContainMessage(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d", expectedStatus, tc.Response.Code)
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

func (tc *TestContext) AssertLocationHeader(t *testing.T, expected string) {
	t.Helper()
	if location := tc.Response.Header().Get("Location"); location != expected {
		t.Errorf("Expected Location header %q, got %q", expected, location)
	}
}

// Page parses the response body as an HTML document.
func (tc *TestContext) Page(t *testing.T) *Page {
	t.Helper()
	return NewPage(t, tc.Response.Body.String())
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

// AssertJSONField checks a specific field in a JSON response
func (tc *TestContext) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	if actual, ok := response[field]; !ok || actual != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, response[field])
	}
}

func (tc *TestContext) AssertJSONBool(t *testing.T, field string, expected bool) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualBool, ok := actual.(bool)
	if !ok {
		t.Errorf("Expected %s to be a boolean, got %T", field, actual)
		return
	}

	if actualBool != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, actualBool)
	}
}

// AssertUser validates the profile fields of a user object in the JSON response
func (tc *TestContext) AssertUser(t *testing.T, field string, expected *models.User) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	user, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be a user object, got %T", field, actual)
		return
	}

	want := map[string]string{
		"sub":     expected.Sub,
		"name":    expected.Name,
		"email":   expected.Email,
		"picture": expected.Picture,
	}
	for key, expectedValue := range want {
		if expectedValue == "" {
			continue
		}
		if actualValue := user[key]; actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

// AssertNoField checks that field is absent from the JSON response
func (tc *TestContext) AssertNoField(t *testing.T, field string) {
	t.Helper()
	if actual, exists := tc.GetJSONResponse(t)[field]; exists {
		t.Errorf("Expected no %s in response, got %v", field, actual)
	}
}

// ReportRecorder collects boundary reports.
type ReportRecorder struct {
	Errors []error
	Infos  []boundary.Info
}

func (r *ReportRecorder) Report(err error, info boundary.Info) {
	r.Errors = append(r.Errors, err)
	r.Infos = append(r.Infos, info)
}

// NewTestContext creates a bare AppContext for tests that build their own
// requests, with a real renderer and no session or provider.
func NewTestContext(t *testing.T) *middlewares.AppContext {
	t.Helper()

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("Could not create renderer: %v", err)
	}

	return middlewares.NewAppContext(context.Background(), NewTestConfig(), slog.New(NewTestLogHandler()), nil, nil, renderer)
}
