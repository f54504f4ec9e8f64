package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/repository"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

// Workspace bundles everything that belongs to one visitor: the cookie-carrying API
// client, the services bound to it and the session manager.
type Workspace struct {
	VisitorID  string
	Client     *apiclient.Client
	Auth       *service.AuthService
	Leads      *service.LeadService
	Courses    *service.CourseService
	Categories *service.CategoryService
	Session    *Manager

	lastSeen atomic.Int64
}

// Sources exposes the workspace readers used by the analytics overview.
func (w *Workspace) Sources() service.AnalyticsSources {
	return service.AnalyticsSources{Leads: w.Leads, Courses: w.Courses, Categories: w.Categories}
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, w.lastSeen.Load()))
}

// RegistryConfig configures workspace construction.
type RegistryConfig struct {
	BaseURL string
	Timeout time.Duration
	// TTL is how long an idle workspace is kept. Zero keeps workspaces forever.
	TTL time.Duration
	// GuestTTL is how long an idle unauthenticated workspace is kept. Zero uses TTL.
	GuestTTL time.Duration
	// Redis backs the visitor local stores. Nil uses in-memory stores.
	Redis   *redis.Client
	Metrics *service.MetricsService
	Logger  *zap.Logger
}

// Registry maps visitor ids to workspaces.
type Registry struct {
	cfg    RegistryConfig
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry constructs an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GuestTTL <= 0 || (cfg.TTL > 0 && cfg.GuestTTL > cfg.TTL) {
		cfg.GuestTTL = cfg.TTL
	}
	return &Registry{
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace of visitorID without creating one.
func (r *Registry) Get(visitorID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[visitorID]
	if ok {
		ws.touch(r.now())
	}
	return ws, ok
}

// Resolve returns the workspace of visitorID, creating it on first use.
func (r *Registry) Resolve(visitorID string) (*Workspace, error) {
	return r.resolve(visitorID, false)
}

// Open registers the workspace of a visitor id that was just issued. Its cookie jar is
// empty, so the session starts unauthenticated without asking the platform.
func (r *Registry) Open(visitorID string) (*Workspace, error) {
	return r.resolve(visitorID, true)
}

// Guest returns an unregistered, unauthenticated workspace for a visitor that has not
// presented a cookie yet. Nothing is retained and no platform call is made.
func (r *Registry) Guest(visitorID string) (*Workspace, error) {
	if visitorID == "" {
		return nil, appErrors.ErrSessionMissing
	}
	return r.build(visitorID, repository.NewMemorySessionStore(), true)
}

func (r *Registry) resolve(visitorID string, fresh bool) (*Workspace, error) {
	if visitorID == "" {
		return nil, appErrors.ErrSessionMissing
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.workspaces[visitorID]; ok {
		ws.touch(r.now())
		return ws, nil
	}
	var store service.LocalStore
	if r.cfg.Redis != nil {
		store = repository.NewRedisSessionStore(r.cfg.Redis, visitorID, r.cfg.TTL)
	} else {
		store = repository.NewMemorySessionStore()
	}
	ws, err := r.build(visitorID, store, fresh)
	if err != nil {
		return nil, err
	}
	ws.touch(r.now())
	r.workspaces[visitorID] = ws
	r.cfg.Metrics.WorkspaceOpened()
	r.logger.Debug("workspace opened", zap.String("visitor_id", visitorID))
	return ws, nil
}

func (r *Registry) build(visitorID string, store service.LocalStore, signedOut bool) (*Workspace, error) {
	logger := r.logger.With(zap.String("visitor_id", visitorID))
	var observer apiclient.Observer
	if r.cfg.Metrics != nil {
		observer = r.cfg.Metrics.ObserveUpstreamRequest
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:  r.cfg.BaseURL,
		Timeout:  r.cfg.Timeout,
		Observer: observer,
		Logger:   logger,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create api client")
	}

	auth := service.NewAuthService(client, store, logger)
	var transitions Observer
	if r.cfg.Metrics != nil {
		transitions = r.cfg.Metrics
	}
	manager := NewManager(auth, transitions, logger)
	if signedOut {
		manager = newSignedOutManager(auth, transitions, logger)
	}
	return &Workspace{
		VisitorID:  visitorID,
		Client:     client,
		Auth:       auth,
		Leads:      service.NewLeadService(client, logger),
		Courses:    service.NewCourseService(client, logger),
		Categories: service.NewCategoryService(client, logger),
		Session:    manager,
	}, nil
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep drops workspaces idle for longer than the TTL, or the guest TTL when the session
// is not authenticated, and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.cfg.TTL <= 0 && r.cfg.GuestTTL <= 0 {
		return 0
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.workspaces {
		ttl := r.cfg.TTL
		if !ws.Session.Authenticated() {
			ttl = r.cfg.GuestTTL
		}
		if ttl > 0 && ws.idleSince(now) > ttl {
			delete(r.workspaces, id)
			r.cfg.Metrics.WorkspaceClosed()
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("idle workspaces swept", zap.Int("removed", removed))
	}
	return removed
}

// Run sweeps idle workspaces every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// LeadsFor lists the leads visible to an authenticated visitor. Background jobs use it
// to act on behalf of the visitor that queued them.
func (r *Registry) LeadsFor(ctx context.Context, visitorID string) ([]models.Lead, error) {
	ws, ok := r.Get(visitorID)
	if !ok || !ws.Session.Authenticated() {
		return nil, appErrors.ErrSessionMissing
	}
	list, err := ws.Leads.GetAllLeads(ctx)
	if err != nil {
		return nil, err
	}
	return list.Leads, nil
}
