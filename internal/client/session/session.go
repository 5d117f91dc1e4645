// Package session holds the anonymous backend session the client needs
// before it may send any identity-bearing call.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession rejects a call client-side because sign-in has not completed.
var ErrNoSession = errors.New("no session")

// Authenticator is implemented by the RPC client.
type Authenticator interface {
	SignInAnonymously(ctx context.Context) (*rpc.SignInResponse, error)
	SetSessionToken(token string)
}

// Session is an established anonymous session.
type Session struct {
	UID       string
	Token     string
	ExpiresAt time.Time
}

type Gate struct {
	auth Authenticator
	log  logging.Logger

	started atomic.Bool
	done    chan struct{}

	mu      sync.RWMutex
	current *Session
}

func NewGate(auth Authenticator, log logging.Logger) *Gate {
	if log == nil {
		log = logging.Nop()
	}
	return &Gate{
		auth: auth,
		log:  log.With("module", "session"),
		done: make(chan struct{}),
	}
}

// Ensure starts anonymous sign-in in the background and returns at once.
// Only the first call has an effect; a failed sign-in is not retried.
func (g *Gate) Ensure(ctx context.Context) {
	if !g.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(g.done)
		if err := g.signIn(ctx); err != nil {
			g.log.Error(ctx, "anonymous sign-in failed", "error", err)
		}
	}()
}

// Done is closed once the sign-in attempt started by Ensure has finished,
// whatever its outcome.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

func (g *Gate) signIn(ctx context.Context) error {
	resp, err := g.auth.SignInAnonymously(ctx)
	if err != nil {
		return err
	}
	if resp == nil || resp.Token == "" {
		return fmt.Errorf("sign-in returned no token")
	}

	s := &Session{UID: resp.UID, Token: resp.Token}
	if claims, err := parseClaims(resp.Token); err != nil {
		g.log.Debug(ctx, "session token claims unreadable", "error", err)
	} else {
		if s.UID == "" {
			s.UID = claims.Subject
		}
		if claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	g.auth.SetSessionToken(s.Token)

	g.mu.Lock()
	g.current = s
	g.mu.Unlock()

	g.log.Info(ctx, "signed in anonymously", "uid", s.UID)
	return nil
}

// parseClaims reads the token's claims without checking its signature; the
// backend is the only party that verifies it.
func parseClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (g *Gate) Present() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current != nil
}

// Require returns ErrNoSession unless a session is present.
func (g *Gate) Require() error {
	if !g.Present() {
		return ErrNoSession
	}
	return nil
}

func (g *Gate) Session() (Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return Session{}, false
	}
	return *g.current, true
}
