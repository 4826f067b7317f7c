package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/telemetry"
	"resume-maker/internal/users"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	errNotConfigured = apperr.NotFound("Google sign-in is not enabled")
	errBadState      = apperr.Validation("invalid or expired state")
	errProfile       = apperr.New(apperr.KindRenderFailed, "failed to fetch user profile")
)

// Accounts resolves an OAuth identity to a local account.
type Accounts interface {
	EnsureOAuthUser(ctx context.Context, email, name string) (users.User, error)
}

// SessionStarter logs a user in on the current response.
type SessionStarter interface {
	StartSession(c *gin.Context, user users.User) error
}

// GoogleService handles the Google OAuth sign-in flow.
type GoogleService struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	accounts    Accounts
	sessions    SessionStarter
	stateTTL    time.Duration
	stateStore  *stateStore
}

// NewGoogleService builds a GoogleService from cfg.
func NewGoogleService(cfg config.GoogleConfig, accounts Accounts, sessions SessionStarter) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
		accounts:    accounts,
		sessions:    sessions,
		stateTTL:    5 * time.Minute,
		stateStore:  newStateStore(time.Now),
	}
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, errNotConfigured)
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, s.stateTTL)
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, errNotConfigured)
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" || !s.stateStore.consume(state) {
		respond.Error(c, errBadState)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, apperr.Wrap(apperr.KindValidation, "failed to exchange code", err))
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		respond.Error(c, apperr.Wrap(errProfile.Kind, errProfile.Message, err))
		return
	}
	if info.Email == "" {
		respond.Error(c, errProfile)
		return
	}

	user, err := s.accounts.EnsureOAuthUser(ctx, info.Email, info.Name)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := s.sessions.StartSession(c, user); err != nil {
		respond.Error(c, err)
		return
	}
	telemetry.Info("auth.google", map[string]any{"user_id": user.ID})
	respond.Redirect(c, users.HomePath)
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

type stateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func newStateStore(now func() time.Time) *stateStore {
	return &stateStore{items: make(map[string]time.Time), now: now}
}

func (s *stateStore) put(state string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(ttl)
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false
	}
	delete(s.items, state)
	return !s.now().After(exp)
}
