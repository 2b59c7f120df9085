package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir-exch/internal/monitor"
)

func TestNew_RejectsNonPositiveThreshold(t *testing.T) {
	_, err := monitor.New(0, nil)
	assert.ErrorIs(t, err, monitor.ErrInvalidArgument)

	_, err = monitor.New(-1, nil)
	assert.ErrorIs(t, err, monitor.ErrInvalidArgument)
}

func TestMonitor_NoDiverganceWithUnsetPrice(t *testing.T) {
	var notified bool
	m, err := monitor.New(1, func(changed, other monitor.Stock) { notified = true })
	require.NoError(t, err)

	m.Monitor("AAA", "BBB")
	m.Update("AAA", 100)

	assert.False(t, notified, "BBB has never been updated, so the pair can't diverge")
}

func TestMonitor_NotifiesOnDivergence(t *testing.T) {
	type call struct{ changed, other monitor.Stock }
	var calls []call

	m, err := monitor.New(5, func(changed, other monitor.Stock) {
		calls = append(calls, call{changed, other})
	})
	require.NoError(t, err)

	m.Monitor("AAA", "BBB")
	m.Update("AAA", 100)
	m.Update("BBB", 100)
	assert.Empty(t, calls, "prices equal, no divergence")

	m.Update("BBB", 90)
	require.Len(t, calls, 1)
	assert.Equal(t, "BBB", calls[0].changed.Name, "the stock whose Update triggered notify is always first")
	assert.Equal(t, "AAA", calls[0].other.Name)
}

func TestMonitor_IgnoresSelfPairing(t *testing.T) {
	var notified bool
	m, err := monitor.New(1, func(changed, other monitor.Stock) { notified = true })
	require.NoError(t, err)

	m.Monitor("AAA", "AAA")
	m.Update("AAA", 100)

	assert.Empty(t, m.GetPairings("AAA"))
	assert.False(t, notified)
}

func TestMonitor_DoesNotDuplicatePairing(t *testing.T) {
	m, err := monitor.New(1, func(changed, other monitor.Stock) {})
	require.NoError(t, err)

	m.Monitor("AAA", "BBB")
	m.Monitor("AAA", "BBB")
	m.Monitor("BBB", "AAA")

	assert.Len(t, m.GetPairings("AAA"), 1)
	assert.Len(t, m.GetPairings("BBB"), 1)
}

func TestMonitor_GetPairingsUnknownStock(t *testing.T) {
	m, err := monitor.New(1, func(changed, other monitor.Stock) {})
	require.NoError(t, err)

	assert.Nil(t, m.GetPairings("ZZZ"))
}
