package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

func TestAuthGate_StartsLoggedOut(t *testing.T) {
	gate := NewAuthGate(newFakeBackend(), nil)
	assert.Equal(t, LoggedOut, gate.State())
	assert.Nil(t, gate.Profile())
}

func TestAuthGate_TransitionsOnSession(t *testing.T) {
	backend := newFakeBackend()
	var transitions []GateState
	gate := NewAuthGate(backend, func(s GateState) { transitions = append(transitions, s) })

	// No session yet: Check keeps the gate logged out, no transition fires.
	require.NoError(t, gate.Check(context.Background()))
	assert.Equal(t, LoggedOut, gate.State())
	assert.Empty(t, transitions)

	// Session appears.
	backend.profile = &models.Profile{ID: "p1", Email: "reader@example.com"}
	require.NoError(t, gate.Check(context.Background()))
	assert.Equal(t, LoggedIn, gate.State())
	require.Equal(t, []GateState{LoggedIn}, transitions)
	require.NotNil(t, gate.Profile())
	assert.Equal(t, "reader@example.com", gate.Profile().Email)

	// Re-checking an unchanged session does not re-fire.
	require.NoError(t, gate.Check(context.Background()))
	assert.Equal(t, []GateState{LoggedIn}, transitions)
}

func TestAuthGate_SignOut(t *testing.T) {
	backend := newFakeBackend()
	backend.profile = &models.Profile{ID: "p1", Email: "reader@example.com"}

	var transitions []GateState
	gate := NewAuthGate(backend, func(s GateState) { transitions = append(transitions, s) })
	require.NoError(t, gate.Check(context.Background()))

	require.NoError(t, gate.SignOut(context.Background()))
	assert.Equal(t, LoggedOut, gate.State())
	assert.Nil(t, gate.Profile())
	assert.Equal(t, []GateState{LoggedIn, LoggedOut}, transitions)

	// Backend session is gone too.
	profile, err := backend.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestAuthGate_SessionLoss(t *testing.T) {
	backend := newFakeBackend()
	backend.profile = &models.Profile{ID: "p1", Email: "reader@example.com"}

	gate := NewAuthGate(backend, nil)
	require.NoError(t, gate.Check(context.Background()))
	require.Equal(t, LoggedIn, gate.State())

	gate.HandleSessionLoss()
	assert.Equal(t, LoggedOut, gate.State())
}
