// Package auth provides identity for the reading server. The HTTP
// layer only sees the SessionProvider interface; the local provider
// backs it with password accounts, cookie sessions and API tokens.
package auth

import (
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/internal/entities"
)

// AuthType indicates how a request was authenticated.
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
)

// DefaultUserID is the single implicit account used when
// authentication is disabled.
const DefaultUserID = uint(0)

var ErrNoSession = errors.New("no active session")

// Session identifies the user behind a request.
type Session struct {
	UserID   uint
	Username string
	AuthType AuthType
}

// SessionProvider is the identity capability the HTTP layer depends
// on. Implementations decide where accounts live and how requests
// prove who they are.
type SessionProvider interface {
	// GetSession resolves the request to a user, or ErrNoSession.
	GetSession(r *http.Request) (*Session, error)

	// SignUp creates an account and signs the request in.
	SignUp(r *http.Request, username, email, password string) (*entities.User, error)

	// SignIn validates credentials and attaches a session to the request.
	SignIn(r *http.Request, username, password string) (*entities.User, error)

	// SignOut destroys the request's session.
	SignOut(r *http.Request) error

	// GetUser loads an account by id.
	GetUser(id uint) (*entities.User, error)
}

// NoneProvider is the SessionProvider used when authentication is
// disabled: every request belongs to the default user.
type NoneProvider struct{}

func (NoneProvider) GetSession(*http.Request) (*Session, error) {
	return &Session{UserID: DefaultUserID, AuthType: AuthTypeNone}, nil
}

func (NoneProvider) SignUp(*http.Request, string, string, string) (*entities.User, error) {
	return nil, errors.New("authentication is disabled")
}

func (NoneProvider) SignIn(*http.Request, string, string) (*entities.User, error) {
	return nil, errors.New("authentication is disabled")
}

func (NoneProvider) SignOut(*http.Request) error {
	return nil
}

func (NoneProvider) GetUser(uint) (*entities.User, error) {
	return &entities.User{ID: DefaultUserID}, nil
}

// LocalProvider implements SessionProvider against the local user
// database: bcrypt passwords, cookie sessions and bearer API tokens.
type LocalProvider struct {
	service  *Service
	sessions *SessionManager
}

func NewLocalProvider(service *Service, sessions *SessionManager) *LocalProvider {
	return &LocalProvider{service: service, sessions: sessions}
}

func (p *LocalProvider) GetSession(r *http.Request) (*Session, error) {
	// Bearer tokens take precedence so API clients are unaffected by
	// whatever cookies the browser sends along.
	if token := bearerToken(r); token != "" {
		user, err := p.service.ValidateToken(token)
		if err != nil {
			return nil, ErrNoSession
		}
		return &Session{UserID: user.ID, Username: user.Username, AuthType: AuthTypeBearer}, nil
	}

	userID := p.sessions.GetUserID(r)
	if userID == 0 {
		return nil, ErrNoSession
	}
	user, err := p.service.GetUserByID(userID)
	if err != nil {
		return nil, ErrNoSession
	}
	return &Session{UserID: user.ID, Username: user.Username, AuthType: AuthTypeSession}, nil
}

func (p *LocalProvider) SignUp(r *http.Request, username, email, password string) (*entities.User, error) {
	user, err := p.service.CreateUser(username, email, password)
	if err != nil {
		return nil, err
	}
	if err := p.sessions.CreateSession(r, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (p *LocalProvider) SignIn(r *http.Request, username, password string) (*entities.User, error) {
	user, err := p.service.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	if err := p.sessions.CreateSession(r, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (p *LocalProvider) SignOut(r *http.Request) error {
	return p.sessions.DestroySession(r)
}

func (p *LocalProvider) GetUser(id uint) (*entities.User, error) {
	return p.service.GetUserByID(id)
}
