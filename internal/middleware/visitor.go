package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/session"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
	"github.com/noah-isme/academy-admin/pkg/logger"
	"github.com/noah-isme/academy-admin/pkg/response"
)

// ContextWorkspaceKey is the gin context key storing the visitor workspace.
const ContextWorkspaceKey = "workspace"

const visitorAudience = "dashboard-visitor"

// VisitorConfig configures the visitor cookie.
type VisitorConfig struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
	// LoginPath is the POST route that opens a workspace for a visitor without a cookie.
	LoginPath string
}

// VisitorTokens issues and validates the signed visitor cookie value.
type VisitorTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewVisitorTokens constructs a token codec. A non-positive ttl defaults to 24h.
func NewVisitorTokens(secret string, ttl time.Duration) *VisitorTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &VisitorTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for visitorID.
func (t *VisitorTokens) Issue(visitorID string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("visitor secret missing")
	}
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   visitorID,
		Audience:  jwt.ClaimStrings{visitorAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign visitor token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse returns the visitor id and expiry carried by token.
func (t *VisitorTokens) Parse(token string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(visitorAudience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid visitor token: %w", err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil || claims.ExpiresAt == nil {
		return "", time.Time{}, errors.New("invalid visitor token: bad subject")
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}

// Visitor identifies the browser through a signed cookie, resolves its workspace and
// makes sure the session has been initialised before the request continues. A request
// without a valid cookie only gets a registered workspace when it is a login; anything
// else is answered from a throwaway signed-out workspace.
func Visitor(registry *session.Registry, cfg VisitorConfig, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "dashboard_visitor"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/auth/login"
	}
	tokens := NewVisitorTokens(cfg.Secret, cfg.TTL)

	return func(c *gin.Context) {
		visitorID := ""
		var expiresAt time.Time
		if raw, err := c.Cookie(cfg.CookieName); err == nil && raw != "" {
			if id, exp, err := tokens.Parse(raw); err == nil {
				visitorID, expiresAt = id, exp
			} else {
				log.Debug("discarding visitor cookie", zap.Error(err))
			}
		}

		fresh := visitorID == ""
		if fresh || expiresAt.Sub(tokens.now()) < tokens.ttl/2 {
			if fresh {
				visitorID = uuid.NewString()
			}
			token, exp, err := tokens.Issue(visitorID)
			if err != nil {
				log.Error("issue visitor cookie", zap.Error(err))
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start session"))
				c.Abort()
				return
			}
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    token,
				Path:     "/",
				Expires:  exp,
				MaxAge:   int(tokens.ttl.Seconds()),
				Secure:   cfg.Secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(logger.VisitorKey, visitorID)
		var (
			ws  *session.Workspace
			err error
		)
		switch {
		case !fresh:
			ws, err = registry.Resolve(visitorID)
		case c.Request.Method == http.MethodPost && c.Request.URL.Path == cfg.LoginPath:
			ws, err = registry.Open(visitorID)
		default:
			ws, err = registry.Guest(visitorID)
		}
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextWorkspaceKey, ws)
		ws.Session.Init(c.Request.Context())
		c.Next()
	}
}

// WorkspaceFrom returns the workspace attached by Visitor.
func WorkspaceFrom(c *gin.Context) (*session.Workspace, bool) {
	v, ok := c.Get(ContextWorkspaceKey)
	if !ok {
		return nil, false
	}
	ws, ok := v.(*session.Workspace)
	return ws, ok && ws != nil
}
