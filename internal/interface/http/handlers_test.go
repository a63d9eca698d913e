package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/rizkypratama/go-accounts/config"
	"github.com/rizkypratama/go-accounts/internal/application"
	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/internal/domain/entity"
	"github.com/rizkypratama/go-accounts/internal/domain/repository"
	"github.com/rizkypratama/go-accounts/internal/infrastructure/memory"
	"github.com/rizkypratama/go-accounts/internal/interface/middleware"
	"github.com/rizkypratama/go-accounts/internal/view"
	"github.com/rizkypratama/go-accounts/pkg/flash"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
	"github.com/rizkypratama/go-accounts/pkg/mailer"
	"github.com/rizkypratama/go-accounts/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	m.Run()
}

// fakeGateway implements auth.Gateway with an in-memory token table.
type fakeGateway struct {
	mu           sync.Mutex
	sessions     map[string]*auth.Identity // access token -> identity
	destroyed    []string
	establishErr error
	destroyErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*auth.Identity)}
}

func (g *fakeGateway) Establish(_ context.Context, u *entity.User) (auth.TokenPair, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.establishErr != nil {
		return auth.TokenPair{}, g.establishErr
	}
	tok := "tok-" + u.ID
	g.sessions[tok] = &auth.Identity{UserID: u.ID, Email: u.Email, Username: u.Username}
	now := time.Now()
	return auth.TokenPair{
		AccessToken:        tok,
		AccessTokenExpiry:  now.Add(time.Hour),
		RefreshToken:       "refresh-" + u.ID,
		RefreshTokenExpiry: now.Add(24 * time.Hour),
	}, nil
}

func (g *fakeGateway) Resolve(_ context.Context, accessToken string) (*auth.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.sessions[accessToken]
	if !ok {
		return nil, auth.ErrNoSession
	}
	return id, nil
}

func (g *fakeGateway) Destroy(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyErr != nil {
		return g.destroyErr
	}
	for tok, id := range g.sessions {
		if id.UserID == userID {
			delete(g.sessions, tok)
		}
	}
	g.destroyed = append(g.destroyed, userID)
	return nil
}

// fakeTokenStore implements auth.TokenStore in memory.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string)}
}

func (s *fakeTokenStore) Save(_ context.Context, token, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.tokens[token]
	if !ok {
		return "", auth.ErrTokenNotFound
	}
	return uid, nil
}

func (s *fakeTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// recordingAudit keeps audit events in memory for assertions.
type recordingAudit struct {
	mu     sync.Mutex
	events []repository.AuditEvent
}

func (r *recordingAudit) Record(_ context.Context, e repository.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingAudit) byAction(action string) []repository.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.AuditEvent
	for _, e := range r.events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// fakeEnqueuer records published email jobs.
type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (f *fakeEnqueuer) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, body.(mailer.EmailJob))
	return nil
}

type testApp struct {
	engine *gin.Engine
	repo   *memory.UserRepository
	svc    *application.AccountService
	gw     *fakeGateway
	tokens *fakeTokenStore
	mails  *fakeEnqueuer
	audits *recordingAudit
	logs   *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo := memory.NewUserRepository()
	logs := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(logs)
	svc := application.NewAccountService(repo, logger)
	gw := newFakeGateway()
	tokens := newFakeTokenStore()
	mails := &fakeEnqueuer{}
	audits := &recordingAudit{}
	fm := flash.NewManager("", false)
	cookies := helpers.NewCookie("", false)

	v, err := view.New()
	require.NoError(t, err)

	cfg := &config.Config{
		SiteName:        "Testsite",
		BaseURL:         "http://testsite.local",
		MailSendEnabled: true,
	}

	ah := NewAccountHandler(svc, gw, audits, logger, cookies, fm, v)
	rh := NewPasswordResetHandler(svc, tokens, mails, audits, logger, cfg, fm, v)

	r := gin.New()
	r.GET("/register/", ah.RegisterForm)
	r.POST("/register/", ah.Register)
	r.GET("/login/", ah.LoginForm)
	r.POST("/login/", ah.Login)
	r.GET("/logout/confirm/", ah.LogoutConfirm)
	r.POST("/logout/", ah.Logout)

	protected := r.Group("/")
	protected.Use(middleware.SessionGuard(gw, "/login/"))
	protected.GET("/dashboard/", ah.Dashboard)

	r.GET("/password-reset/", rh.Form)
	r.POST("/password-reset/", rh.Request)
	r.GET("/password-reset/done/", rh.Done)
	r.GET("/password-reset/confirm/", rh.ConfirmForm)
	r.POST("/password-reset/confirm/", rh.Confirm)

	return &testApp{engine: r, repo: repo, svc: svc, gw: gw, tokens: tokens, mails: mails, audits: audits, logs: logs}
}

// registerUser creates a user through the service and returns it.
func (a *testApp) registerUser(t *testing.T, username, email, password string) *entity.User {
	t.Helper()
	u, err := a.svc.Register(context.Background(), application.RegisterInput{
		Username:  username,
		FirstName: "Existing",
		LastName:  "User",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	return u
}

// loginAs establishes a fake session and returns the access cookie.
func (a *testApp) loginAs(t *testing.T, u *entity.User) *http.Cookie {
	t.Helper()
	pair, err := a.gw.Establish(context.Background(), u)
	require.NoError(t, err)
	return &http.Cookie{Name: "access_token", Value: pair.AccessToken}
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func validRegistration() url.Values {
	return url.Values{
		"username":   {"testuser"},
		"first_name": {"Test"},
		"last_name":  {"User"},
		"email":      {"test@example.com"},
		"password1":  {"testpass123"},
		"password2":  {"testpass123"},
	}
}
