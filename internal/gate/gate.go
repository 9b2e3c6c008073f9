// Package gate implements the local credential gate: a single
// username/password record plus a short-lived session that unlocks the rest
// of the application.
package gate

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inovacc/gistvault/internal/logging"
	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/store"
)

// Storage keys. They match the keys the browser app used so records can be
// carried over.
const (
	AuthKey    = "app_auth_state"
	SessionKey = "isLoggedIn"
)

const sessionKeySize = 32

// Gate guards the application behind a locally stored credential.
type Gate struct {
	durable store.Store
	session store.Store
	hasher  Hasher
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithHasher sets the hasher used for new records. Existing records verify
// with whichever format they were written in.
func WithHasher(h Hasher) Option {
	return func(g *Gate) {
		if h != nil {
			g.hasher = h
		}
	}
}

// WithSessionTTL sets how long a login stays valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) {
		g.logger = logging.OrNop(l)
	}
}

// New creates a gate. durable keeps the credential record; session keeps the
// login token and should not outlive the user's session.
func New(durable, session store.Store, opts ...Option) *Gate {
	g := &Gate{
		durable: durable,
		session: session,
		hasher:  BcryptHasher{},
		ttl:     DefaultSessionTTL,
		now:     time.Now,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Setup hashes password and stores a new credential record, replacing any
// previous one. Any existing session is ended.
func (g *Gate) Setup(username, password string) error {
	if username == "" || password == "" {
		return ErrValidation
	}

	hashed, err := g.hasher.Hash(password)
	if err != nil {
		return err
	}

	key, err := newSessionKey()
	if err != nil {
		return err
	}

	cred := &model.Credential{
		Username:       username,
		HashedPassword: hashed,
		SetupTime:      g.now().UTC(),
		SessionKey:     key,
	}

	if err := g.saveCredential(cred); err != nil {
		return err
	}

	if err := g.session.Delete(SessionKey); err != nil {
		g.logger.Warn("failed to clear session after setup", zap.Error(err))
	}

	g.logger.Info("credentials set up", zap.String("username", username), zap.String("hasher", g.hasher.Name()))

	return nil
}

// SetupCredentials is Setup reporting success as a bool.
func (g *Gate) SetupCredentials(username, password string) bool {
	if err := g.Setup(username, password); err != nil {
		g.logger.Debug("setup failed", zap.Error(err))
		return false
	}

	return true
}

// IsSetup reports whether a credential record exists.
func (g *Gate) IsSetup() bool {
	ok, err := store.Has(g.durable, AuthKey)
	if err != nil {
		g.logger.Warn("failed to read credential record", zap.Error(err))
		return false
	}

	return ok
}

// Authenticate checks username and password against the stored record and,
// on success, starts a session.
func (g *Gate) Authenticate(username, password string) error {
	if username == "" || password == "" {
		return ErrValidation
	}

	cred, err := g.loadCredential()
	if err != nil {
		return err
	}

	if cred.Username != username {
		return ErrInvalidCredentials
	}

	ok, err := verify(cred.HashedPassword, password)
	if err != nil {
		return err
	}

	if !ok {
		return ErrInvalidCredentials
	}

	// records imported from the browser app carry no signing key
	if len(cred.SessionKey) == 0 {
		if cred.SessionKey, err = newSessionKey(); err != nil {
			return err
		}

		if err := g.saveCredential(cred); err != nil {
			return err
		}
	}

	token, expires, err := g.mintSession(cred)
	if err != nil {
		return err
	}

	if err := g.session.Set(SessionKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	g.logger.Info("logged in", zap.String("username", username), zap.Time("expires", expires))

	return nil
}

// Login is Authenticate reporting success as a bool.
func (g *Gate) Login(username, password string) bool {
	if err := g.Authenticate(username, password); err != nil {
		g.logger.Debug("login failed", zap.Error(err))
		return false
	}

	return true
}

// IsLoggedIn reports whether a valid, unexpired session exists for the
// current credential record.
func (g *Gate) IsLoggedIn() bool {
	_, ok := g.activeSession()
	return ok
}

func (g *Gate) activeSession() (*sessionClaims, bool) {
	token, err := store.GetString(g.session, SessionKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			g.logger.Warn("failed to read session", zap.Error(err))
		}

		return nil, false
	}

	cred, err := g.loadCredential()
	if err != nil {
		return nil, false
	}

	claims, err := g.parseSession(cred, token)
	if err != nil {
		g.logger.Debug("session rejected", zap.Error(err))
		return nil, false
	}

	return claims, true
}

// Logout ends the session. The credential record is kept.
func (g *Gate) Logout() error {
	if err := g.session.Delete(SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// Reset deletes the credential record and the session. It cannot be undone.
func (g *Gate) Reset() error {
	if err := g.durable.Delete(AuthKey); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}

	if err := g.session.Delete(SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	g.logger.Info("credentials reset")

	return nil
}

// State derives the gate state from the stores.
func (g *Gate) State() State {
	if !g.IsSetup() {
		return NeedsSetup
	}

	if g.IsLoggedIn() {
		return Authenticated
	}

	return NeedsLogin
}

// Require returns a *StateError unless the gate is Authenticated.
func (g *Gate) Require() error {
	if s := g.State(); s != Authenticated {
		return &StateError{Want: Authenticated, Got: s}
	}

	return nil
}

// Info describes the current record and session for display.
type Info struct {
	State          State
	Username       string
	SetupTime      time.Time
	Hasher         string
	SessionExpires time.Time
}

// Info returns what is known about the record and session. The zero Info
// with NeedsSetup is returned when no record exists.
func (g *Gate) Info() (Info, error) {
	cred, err := g.loadCredential()
	if errors.Is(err, ErrNotSetup) {
		return Info{State: NeedsSetup}, nil
	}

	if err != nil {
		return Info{}, err
	}

	info := Info{
		State:     NeedsLogin,
		Username:  cred.Username,
		SetupTime: cred.SetupTime,
		Hasher:    LegacyHasher{}.Name(),
	}

	if isBcrypt(cred.HashedPassword) {
		info.Hasher = BcryptHasher{}.Name()
	}

	if claims, ok := g.activeSession(); ok {
		info.State = Authenticated
		info.SessionExpires = claims.ExpiresAt.Time
	}

	return info, nil
}

func (g *Gate) loadCredential() (*model.Credential, error) {
	raw, err := g.durable.Get(AuthKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotSetup
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var cred model.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credential record: %w", err)
	}

	return &cred, nil
}

func (g *Gate) saveCredential(cred *model.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := g.durable.Set(AuthKey, raw); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}

func newSessionKey() ([]byte, error) {
	key := make([]byte, sessionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	return key, nil
}
