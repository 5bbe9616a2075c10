package session

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/apperrors"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/token"
)

// Manager composes the token codec and a Store into the storefront's single
// reactive session. It owns the authenticated/user state, keeps it in sync
// with the store, and recomputes it from scratch whenever the store reports a
// change made elsewhere.
type Manager struct {
	store Store
	log   *zap.Logger

	// opMu serializes login, logout and recompute so a notification-driven
	// recompute never interleaves with a half-applied mutation.
	opMu sync.Mutex

	mu            sync.RWMutex
	authenticated bool
	user          models.User
	subs          []func()

	cancel func()
}

// NewManager seeds state from whatever the store already holds and starts
// listening for external changes. Seeding is read-only: a stale persisted
// token yields unauthenticated state but is not cleared.
func NewManager(ctx context.Context, store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{store: store, log: log}
	m.recompute(ctx)

	ch, cancel := store.Subscribe(ctx)
	m.cancel = cancel
	go func() {
		for range ch {
			m.recompute(context.Background())
		}
	}()
	return m
}

// IsAuthenticated reports whether a live token is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// CurrentUser returns the stored profile, or false when no user is known.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, false
	}
	return m.user, true
}

// Token returns the persisted token, if any. Liveness is the caller's
// concern.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	val, ok, err := m.store.Get(ctx, SlotToken)
	if err != nil {
		m.log.Warn("session: token read failed", zap.Error(err))
		return "", false
	}
	return val, ok
}

// Login validates tok and, on success, persists it (and user, when given)
// and flips authenticated state. A non-live token fails with ErrInvalidToken
// and mutates nothing.
func (m *Manager) Login(ctx context.Context, tok string, user models.User) error {
	if !token.IsLive(tok) {
		return apperrors.ErrInvalidToken
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.store.Set(ctx, SlotToken, tok); err != nil {
		return apperrors.New(0, "failed to persist session", err)
	}
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return apperrors.New(0, "failed to serialize user", err)
		}
		if err := m.store.Set(ctx, SlotUser, string(data)); err != nil {
			return apperrors.New(0, "failed to persist session", err)
		}
	}

	m.mu.Lock()
	m.authenticated = true
	if user != nil {
		m.user = user
	}
	subs := append([]func(){}, m.subs...)
	m.mu.Unlock()

	m.log.Info("session: logged in")
	notify(subs)
	return nil
}

// Logout unconditionally clears both slots and the in-memory state. It never
// fails; store errors are logged and swallowed.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.store.Clear(ctx, SlotToken); err != nil {
		m.log.Warn("session: token clear failed", zap.Error(err))
	}
	if err := m.store.Clear(ctx, SlotUser); err != nil {
		m.log.Warn("session: user clear failed", zap.Error(err))
	}

	m.mu.Lock()
	m.authenticated = false
	m.user = nil
	subs := append([]func(){}, m.subs...)
	m.mu.Unlock()

	m.log.Info("session: logged out")
	notify(subs)
}

// OnChange registers fn to run after every state change.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Close stops listening for store changes.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// recompute re-reads both slots and derives state from scratch, the same
// rule as initialization. The store is never mutated here.
func (m *Manager) recompute(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	authenticated := false
	var user models.User

	tok, ok, err := m.store.Get(ctx, SlotToken)
	if err != nil {
		m.log.Warn("session: token read failed", zap.Error(err))
	}
	if ok && token.IsLive(tok) {
		authenticated = true
		raw, ok, err := m.store.Get(ctx, SlotUser)
		if err != nil {
			m.log.Warn("session: user read failed", zap.Error(err))
		}
		if ok {
			if err := json.Unmarshal([]byte(raw), &user); err != nil {
				m.log.Warn("session: malformed stored user", zap.Error(err))
				user = nil
			}
		}
	}

	m.mu.Lock()
	changed := m.authenticated != authenticated || !sameUser(m.user, user)
	m.authenticated = authenticated
	m.user = user
	subs := append([]func(){}, m.subs...)
	m.mu.Unlock()

	if changed {
		notify(subs)
	}
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

func sameUser(a, b models.User) bool {
	if len(a) != len(b) {
		return false
	}
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
