// Package auth implements the admin gate: a single shared-secret login
// with a failure-count lockout and a time-bounded session persisted in
// the key-value store.
//
// This is a deterrent against casual brute force, not a real
// authorization system: the secret is compared in-process and the
// lockout and session records share the client's storage scope.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/kv"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const (
	SessionDuration = 7 * 24 * time.Hour
	LockoutDuration = 15 * time.Minute
	MaxAttempts     = 5

	// LockoutPollInterval is the recommended interval for WatchLockout
	// while a login prompt is open.
	LockoutPollInterval = 10 * time.Second

	sessionKey = "admin_session"
	lockoutKey = "login_lockout"
)

// LoginStatus classifies the outcome of a login attempt.
type LoginStatus int

const (
	LoginOK LoginStatus = iota
	LoginIncorrect
	LoginLockedOut
)

// LoginResult reports the outcome of AttemptLogin.
// AttemptsLeft is set for LoginIncorrect, RetryAfter for LoginLockedOut,
// and Token for LoginOK.
type LoginResult struct {
	Status       LoginStatus
	AttemptsLeft int
	RetryAfter   time.Duration
	Token        string
	ExpiresAt    time.Time
}

// Gate validates the admin secret and manages the session and lockout
// records. The key-value store is injected so tests can substitute an
// in-memory fake.
type Gate struct {
	secretHash []byte
	store      kv.Store
	now        func() time.Time
}

// New creates a Gate for the configured secret.
func New(secret string, store kv.Store) (*Gate, error) {
	if secret == "" {
		return nil, errors.New("admin secret cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Gate{
		secretHash: hash,
		store:      store,
		now:        time.Now,
	}, nil
}

// AttemptLogin compares the submitted secret against the configured one.
// While a lockout is active it fails immediately with no state change.
// On success the lockout record is cleared and a fresh session is
// written; on mismatch the failure count is incremented and the fifth
// consecutive failure starts a 15 minute lockout.
func (g *Gate) AttemptLogin(secret string) (LoginResult, error) {
	now := g.now()

	var lockout models.LockoutRecord
	found, err := g.store.Get(lockoutKey, &lockout)
	if err != nil {
		return LoginResult{}, err
	}
	if found && lockout.Until > 0 {
		until := time.UnixMilli(lockout.Until)
		if now.Before(until) {
			return LoginResult{Status: LoginLockedOut, RetryAfter: until.Sub(now)}, nil
		}
		// Lockout expired: forget it before evaluating this attempt.
		if err := g.store.Delete(lockoutKey); err != nil {
			return LoginResult{}, err
		}
		lockout = models.LockoutRecord{}
	}

	if bcrypt.CompareHashAndPassword(g.secretHash, []byte(secret)) != nil {
		lockout.Attempts++
		if lockout.Attempts >= MaxAttempts {
			lockout.Until = now.Add(LockoutDuration).UnixMilli()
		}
		if err := g.store.Set(lockoutKey, &lockout); err != nil {
			return LoginResult{}, err
		}
		if lockout.Until > 0 {
			return LoginResult{Status: LoginLockedOut, RetryAfter: LockoutDuration}, nil
		}
		return LoginResult{Status: LoginIncorrect, AttemptsLeft: MaxAttempts - lockout.Attempts}, nil
	}

	if err := g.store.Delete(lockoutKey); err != nil {
		return LoginResult{}, err
	}

	token, err := generateToken()
	if err != nil {
		return LoginResult{}, err
	}
	expiresAt := now.Add(SessionDuration)
	session := models.SessionRecord{Token: token, Expiry: expiresAt.UnixMilli()}
	if err := g.store.Set(sessionKey, &session); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Status: LoginOK, Token: token, ExpiresAt: expiresAt}, nil
}

// CheckSession is invoked once at startup. It reports whether a valid
// session exists; an expired record is deleted on the way out.
func (g *Gate) CheckSession() bool {
	var session models.SessionRecord
	found, err := g.store.Get(sessionKey, &session)
	if err != nil || !found {
		return false
	}

	if !g.now().Before(time.UnixMilli(session.Expiry)) {
		g.store.Delete(sessionKey)
		return false
	}
	return true
}

// ValidateToken checks a presented token against the stored session.
func (g *Gate) ValidateToken(token string) bool {
	if token == "" {
		return false
	}

	var session models.SessionRecord
	found, err := g.store.Get(sessionKey, &session)
	if err != nil || !found {
		return false
	}
	if session.Token != token {
		return false
	}
	return g.now().Before(time.UnixMilli(session.Expiry))
}

// CheckLockout reports whether a lockout is active and how long remains.
// A lockout whose deadline has passed is cleared.
func (g *Gate) CheckLockout() (bool, time.Duration) {
	var lockout models.LockoutRecord
	found, err := g.store.Get(lockoutKey, &lockout)
	if err != nil || !found || lockout.Until == 0 {
		return false, 0
	}

	until := time.UnixMilli(lockout.Until)
	now := g.now()
	if !now.Before(until) {
		g.store.Delete(lockoutKey)
		return false, 0
	}
	return true, until.Sub(now)
}

// RemainingMinutes converts a lockout remainder to whole minutes,
// rounded up, for user-facing messages.
func RemainingMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}

// Logout deletes the session record. Callers must also clear any active
// selection set.
func (g *Gate) Logout() error {
	return g.store.Delete(sessionKey)
}

// WatchLockout polls the lockout state on the given interval and invokes
// update with each observation. It is tied to the lifetime of a login
// prompt: cancel the context when the prompt is dismissed so exactly one
// timer exists per open prompt.
func (g *Gate) WatchLockout(ctx context.Context, interval time.Duration, update func(locked bool, remaining time.Duration)) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update(g.CheckLockout())
			}
		}
	}()
}

// generateToken returns 32 random bytes hex-encoded.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
