package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type gameState int

const (
	stateMenu gameState = iota
	statePlaying
	statePaused
)

func TestStateSetReplacesTop(t *testing.T) {
	s := NewState(stateMenu)

	require.NoError(t, s.Set(statePlaying))
	require.Equal(t, stateMenu, s.Current())

	s.apply()
	require.Equal(t, statePlaying, s.Current())
}

func TestStateSetSameValueFails(t *testing.T) {
	s := NewState(stateMenu)
	require.Error(t, s.Set(stateMenu))
}

func TestStatePushAndPop(t *testing.T) {
	s := NewState(statePlaying)

	require.NoError(t, s.Push(statePaused))
	s.apply()
	require.Equal(t, statePaused, s.Current())

	require.NoError(t, s.Pop())
	s.apply()
	require.Equal(t, statePlaying, s.Current())
}

func TestStatePopLastFails(t *testing.T) {
	s := NewState(stateMenu)
	require.Error(t, s.Pop())
}

func TestStatePopAccountsForPendingPops(t *testing.T) {
	s := NewState(stateMenu)

	require.NoError(t, s.Push(statePlaying))
	s.apply()

	require.NoError(t, s.Pop())
	// Only one value would remain once the pending pop applies.
	require.Error(t, s.Pop())
}

func TestStateReplaceCollapsesStack(t *testing.T) {
	s := NewState(stateMenu)

	require.NoError(t, s.Push(statePlaying))
	require.NoError(t, s.Push(statePaused))
	s.apply()

	s.Replace(stateMenu)
	s.apply()
	require.Equal(t, stateMenu, s.Current())
	require.Error(t, s.Pop())
}
