// Package session tracks the authentication state of each dashboard visitor.
package session

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// Navigation targets used by the route guard.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

const (
	msgLoginDefault     = "حدث خطأ أثناء تسجيل الدخول"
	msgLoginCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	msgLoginBadInput    = "يرجى التحقق من البيانات المدخلة"
	msgLoginRateLimited = "تم تجاوز عدد المحاولات المسموحة. يرجى المحاولة لاحقاً"
	msgLoginServer      = "خطأ في الخادم. يرجى المحاولة لاحقاً"
	msgLoginNoNetwork   = "تعذر الاتصال بالخادم. يرجى التحقق من اتصال الإنترنت"
)

// Authenticator is the subset of service.AuthService the manager drives.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AdminUser, error)
	Logout(ctx context.Context)
	IsAuthenticated(ctx context.Context) bool
	VerifyAuthentication(ctx context.Context) bool
	CurrentUser(ctx context.Context) *models.AdminUser
	ClearAuthData(ctx context.Context)
}

// Observer is notified whenever a session settles into a state.
type Observer interface {
	RecordSessionTransition(state models.SessionState)
}

// LoginResult is the outcome of Manager.Login. Error is a display message.
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Manager holds one visitor's session state. It is safe for concurrent use.
type Manager struct {
	auth     Authenticator
	observer Observer
	logger   *zap.Logger

	initOnce sync.Once
	mu       sync.RWMutex
	state    models.SessionState
	loading  bool
	user     *models.AdminUser
}

// NewManager constructs a manager in the loading state. observer may be nil.
func NewManager(auth Authenticator, observer Observer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		auth:     auth,
		observer: observer,
		logger:   logger,
		state:    models.SessionUnknown,
		loading:  true,
	}
}

// newSignedOutManager returns a manager that is already settled as unauthenticated and
// skips the platform validation in Init.
func newSignedOutManager(auth Authenticator, observer Observer, logger *zap.Logger) *Manager {
	m := NewManager(auth, observer, logger)
	m.initOnce.Do(func() {
		m.state = models.SessionUnauthenticated
		m.loading = false
	})
	return m
}

// Init restores the session from the local store and re-validates it with the platform.
// Only the first call does any work; concurrent callers wait for it to finish. The
// validation is not cancelled when ctx is.
func (m *Manager) Init(ctx context.Context) {
	m.initOnce.Do(func() {
		m.restore(context.WithoutCancel(ctx))
	})
}

func (m *Manager) restore(ctx context.Context) {
	if m.auth.IsAuthenticated(ctx) {
		cached := m.auth.CurrentUser(ctx)
		if cached == nil {
			m.auth.ClearAuthData(ctx)
			m.settle(models.SessionUnauthenticated, nil)
			return
		}

		m.mu.Lock()
		m.state = models.SessionAuthenticated
		m.user = cached
		m.mu.Unlock()

		if m.auth.VerifyAuthentication(ctx) {
			m.settle(models.SessionAuthenticated, m.auth.CurrentUser(ctx))
			return
		}
		m.logger.Info("cached session rejected by platform")
		m.auth.ClearAuthData(ctx)
		m.settle(models.SessionUnauthenticated, nil)
		return
	}

	if m.auth.VerifyAuthentication(ctx) {
		m.settle(models.SessionAuthenticated, m.auth.CurrentUser(ctx))
		return
	}
	m.settle(models.SessionUnauthenticated, nil)
}

// Login authenticates against the platform. Failures are reported in the result.
func (m *Manager) Login(ctx context.Context, phone, password string) LoginResult {
	user, err := m.auth.Login(ctx, models.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		m.logger.Warn("login failed", zap.Error(err))
		return LoginResult{Success: false, Error: loginErrorMessage(err)}
	}
	m.settle(models.SessionAuthenticated, user)
	return LoginResult{Success: true}
}

// Logout ends the platform session on a best-effort basis, always clears local state
// and returns the path to navigate to.
func (m *Manager) Logout(ctx context.Context) string {
	m.auth.Logout(ctx)
	m.settle(models.SessionUnauthenticated, nil)
	return LoginPath
}

// RefreshUserProfile re-validates an authenticated session and logs out when the
// platform no longer accepts it.
func (m *Manager) RefreshUserProfile(ctx context.Context) {
	m.mu.RLock()
	authenticated := m.state == models.SessionAuthenticated
	m.mu.RUnlock()
	if !authenticated {
		return
	}
	if m.auth.VerifyAuthentication(ctx) {
		m.settle(models.SessionAuthenticated, m.auth.CurrentUser(ctx))
		return
	}
	m.Logout(ctx)
}

// Redirect returns where a request for path must be sent, or "" to let it through.
func (m *Manager) Redirect(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loading {
		return ""
	}
	authenticated := m.state == models.SessionAuthenticated
	switch {
	case !authenticated && strings.HasPrefix(path, DashboardPath):
		return LoginPath
	case authenticated && path == LoginPath:
		return DashboardPath
	default:
		return ""
	}
}

// Snapshot returns a consistent copy of the session state.
func (m *Manager) Snapshot() models.SessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := models.SessionSnapshot{
		State:           m.state,
		IsLoading:       m.loading,
		IsAuthenticated: m.state == models.SessionAuthenticated,
	}
	if m.user != nil {
		user := *m.user
		snap.User = &user
	}
	return snap
}

// Authenticated reports whether the session is settled and authenticated.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.loading && m.state == models.SessionAuthenticated
}

func (m *Manager) settle(state models.SessionState, user *models.AdminUser) {
	m.mu.Lock()
	m.state = state
	m.user = user
	m.loading = false
	m.mu.Unlock()
	if m.observer != nil {
		m.observer.RecordSessionTransition(state)
	}
}

func loginErrorMessage(err error) string {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return msgLoginDefault
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		return msgLoginCredentials
	case http.StatusBadRequest:
		return msgLoginBadInput
	case http.StatusTooManyRequests:
		return msgLoginRateLimited
	case http.StatusInternalServerError:
		return msgLoginServer
	case 0:
		return msgLoginNoNetwork
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgLoginDefault
	}
}
