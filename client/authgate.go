package client

import (
	"context"
	"sync"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// GateState is which navigation stack the app shows.
type GateState int

const (
	LoggedOut GateState = iota
	LoggedIn
)

// AuthGate flips between the logged-out and logged-in stacks on session
// presence. It carries no other logic.
type AuthGate struct {
	backend  Backend
	onChange func(GateState)

	mu      sync.Mutex
	state   GateState
	profile *models.Profile
}

// NewAuthGate builds the gate. onChange fires on every actual transition;
// pass nil to just poll State.
func NewAuthGate(backend Backend, onChange func(GateState)) *AuthGate {
	if onChange == nil {
		onChange = func(GateState) {}
	}
	return &AuthGate{backend: backend, onChange: onChange}
}

// Check asks the backend for the current session and applies the result.
// Run it on startup and after an OAuth callback lands.
func (g *AuthGate) Check(ctx context.Context) error {
	profile, err := g.backend.Session(ctx)
	if err != nil {
		return err
	}
	g.apply(profile)
	return nil
}

// SignOut drops the session and moves to the logged-out stack.
func (g *AuthGate) SignOut(ctx context.Context) error {
	if err := g.backend.SignOut(ctx); err != nil {
		return err
	}
	g.apply(nil)
	return nil
}

// HandleSessionLoss is for the backend reporting an expired session outside
// a Check, e.g. a 401 on any authenticated call.
func (g *AuthGate) HandleSessionLoss() {
	g.apply(nil)
}

func (g *AuthGate) apply(profile *models.Profile) {
	g.mu.Lock()
	prev := g.state
	if profile != nil {
		g.state = LoggedIn
	} else {
		g.state = LoggedOut
	}
	g.profile = profile
	next := g.state
	g.mu.Unlock()

	if prev != next {
		g.onChange(next)
	}
}

func (g *AuthGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Profile returns the signed-in profile, nil when logged out.
func (g *AuthGate) Profile() *models.Profile {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile
}
