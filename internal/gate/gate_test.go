package gate

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type fixture struct {
	gate    *Gate
	durable *store.Memory
	session *store.Memory
	clock   *fakeClock
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		durable: store.NewMemory(),
		session: store.NewMemory(),
		clock:   &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	opts = append([]Option{
		WithHasher(BcryptHasher{Cost: bcrypt.MinCost}),
		WithClock(f.clock.Now),
	}, opts...)

	f.gate = New(f.durable, f.session, opts...)

	return f
}

func TestFreshGate(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.gate.IsSetup())
	assert.False(t, f.gate.IsLoggedIn())
	assert.Equal(t, NeedsSetup, f.gate.State())
	assert.False(t, f.gate.Login("alice", "password123"))
	assert.ErrorIs(t, f.gate.Authenticate("alice", "password123"), ErrNotSetup)
}

func TestSetupAndLogin(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.gate.SetupCredentials("alice", "password123"))
	assert.True(t, f.gate.IsSetup())
	assert.False(t, f.gate.IsLoggedIn())
	assert.Equal(t, NeedsLogin, f.gate.State())

	assert.False(t, f.gate.Login("alice", "wrong"))
	assert.False(t, f.gate.IsLoggedIn())

	assert.True(t, f.gate.Login("alice", "password123"))
	assert.True(t, f.gate.IsLoggedIn())
	assert.Equal(t, Authenticated, f.gate.State())
	require.NoError(t, f.gate.Require())
}

func TestSetupLongPassword(t *testing.T) {
	f := newFixture(t)

	long := strings.Repeat("a", 80)
	require.NoError(t, f.gate.Setup("alice", long))

	assert.False(t, f.gate.Login("alice", strings.Repeat("a", 72)))
	assert.False(t, f.gate.Login("alice", strings.Repeat("a", 72)+"b"))
	assert.True(t, f.gate.Login("alice", long))
}

func TestSetupStoresNoPlaintext(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gate.Setup("alice", "password123"))

	raw, err := f.durable.Get(AuthKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password123")

	var cred model.Credential
	require.NoError(t, json.Unmarshal(raw, &cred))
	assert.Equal(t, "alice", cred.Username)
	assert.True(t, cred.SetupTime.Equal(f.clock.Now()))
	assert.Len(t, cred.SessionKey, sessionKeySize)
}

func TestSetupValidation(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.gate.Setup("", "pw"), ErrValidation)
	assert.ErrorIs(t, f.gate.Setup("alice", ""), ErrValidation)
	assert.False(t, f.gate.SetupCredentials("", ""))
	assert.False(t, f.gate.IsSetup())
}

func TestSetupOverwrites(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.gate.Setup("alice", "first"))
	require.NoError(t, f.gate.Setup("bob", "second"))

	assert.False(t, f.gate.Login("alice", "first"))
	assert.True(t, f.gate.Login("bob", "second"))
}

func TestAuthenticateErrors(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gate.Setup("alice", "password123"))

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"empty username", "", "password123", ErrValidation},
		{"empty password", "alice", "", ErrValidation},
		{"wrong username", "Alice", "password123", ErrInvalidCredentials},
		{"wrong password", "alice", "password1234", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.gate.Authenticate(tt.username, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, f.gate.IsLoggedIn())
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gate.Setup("alice", "password123"))
	require.True(t, f.gate.Login("alice", "password123"))

	require.NoError(t, f.gate.Logout())
	assert.False(t, f.gate.IsLoggedIn())
	assert.True(t, f.gate.IsSetup())
	assert.Equal(t, NeedsLogin, f.gate.State())

	// logging out twice is harmless
	require.NoError(t, f.gate.Logout())
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gate.Setup("alice", "password123"))
	require.True(t, f.gate.Login("alice", "password123"))

	require.NoError(t, f.gate.Reset())

	assert.False(t, f.gate.IsSetup())
	assert.False(t, f.gate.IsLoggedIn())
	assert.Equal(t, NeedsSetup, f.gate.State())
	assert.False(t, f.gate.Login("alice", "password123"))

	_, err := f.durable.Get(AuthKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.session.Get(SessionKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	f := newFixture(t, WithSessionTTL(time.Hour))
	require.NoError(t, f.gate.Setup("alice", "password123"))
	require.True(t, f.gate.Login("alice", "password123"))

	f.clock.Advance(59 * time.Minute)
	assert.True(t, f.gate.IsLoggedIn())

	f.clock.Advance(2 * time.Minute)
	assert.False(t, f.gate.IsLoggedIn())
	assert.Equal(t, NeedsLogin, f.gate.State())
}

func TestSessionVoidedBySetup(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gate.Setup("alice", "password123"))
	require.True(t, f.gate.Login("alice", "password123"))

	token, err := f.session.Get(SessionKey)
	require.NoError(t, err)

	require.NoError(t, f.gate.Reset())
	require.NoError(t, f.gate.Setup("alice", "password123"))

	// replaying the old token must not unlock the new record
	require.NoError(t, f.session.Set(SessionKey, token))
	assert.False(t, f.gate.IsLoggedIn())
}

func TestForgedSessionRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gate.Setup("alice", "password123"))

	require.NoError(t, f.session.Set(SessionKey, []byte("true")))
	assert.False(t, f.gate.IsLoggedIn())
}

func TestRequire(t *testing.T) {
	f := newFixture(t)

	err := f.gate.Require()
	var se *StateError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, NeedsSetup, se.Got)
	assert.ErrorIs(t, err, ErrNotSetup)

	require.NoError(t, f.gate.Setup("alice", "password123"))

	err = f.gate.Require()
	require.True(t, errors.As(err, &se))
	assert.Equal(t, NeedsLogin, se.Got)
	assert.Contains(t, err.Error(), "auth login")
}

func TestLegacyRecordStillVerifies(t *testing.T) {
	f := newFixture(t)

	// shape written by the browser app
	raw := `{"username":"alice","hashedPassword":"0000000000n7qt9z","setupTime":"2024-01-02T03:04:05.000Z"}`
	require.NoError(t, f.durable.Set(AuthKey, []byte(raw)))

	assert.Equal(t, NeedsLogin, f.gate.State())
	assert.False(t, f.gate.Login("alice", "wrong"))
	require.True(t, f.gate.Login("alice", "password123"))
	assert.True(t, f.gate.IsLoggedIn())

	info, err := f.gate.Info()
	require.NoError(t, err)
	assert.Equal(t, "legacy", info.Hasher)
	assert.Equal(t, Authenticated, info.State)
}

func TestLegacyHasherOption(t *testing.T) {
	f := newFixture(t, WithHasher(LegacyHasher{}))
	require.NoError(t, f.gate.Setup("alice", "password123"))

	raw, err := f.durable.Get(AuthKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"hashedPassword":"0000000000n7qt9z"`)
	assert.True(t, f.gate.Login("alice", "password123"))
}

func TestInfo(t *testing.T) {
	f := newFixture(t, WithSessionTTL(2*time.Hour))

	info, err := f.gate.Info()
	require.NoError(t, err)
	assert.Equal(t, NeedsSetup, info.State)

	require.NoError(t, f.gate.Setup("alice", "password123"))
	require.True(t, f.gate.Login("alice", "password123"))

	info, err = f.gate.Info()
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "bcrypt", info.Hasher)
	assert.Equal(t, Authenticated, info.State)
	assert.True(t, info.SessionExpires.Equal(f.clock.Now().Add(2*time.Hour)))
}

func TestSessionInFileStore(t *testing.T) {
	session, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	durable := store.NewMemory()
	g := New(durable, session, WithHasher(BcryptHasher{Cost: bcrypt.MinCost}))

	require.NoError(t, g.Setup("alice", "password123"))
	require.True(t, g.Login("alice", "password123"))

	// a second gate over the same stores sees the session
	other := New(durable, session)
	assert.True(t, other.IsLoggedIn())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "needs-setup", NeedsSetup.String())
	assert.Equal(t, "needs-login", NeedsLogin.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unknown", State(9).String())
}
