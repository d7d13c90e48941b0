package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ActivateAndGet(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.Activate("a", "payload", 1))

	got, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "payload", got)
	assert.Equal(t, StateImmediate, m.StateOf("a"))
}

func TestManager_RejectsInvalidObjects(t *testing.T) {
	m := NewManager()

	var invalid *InvalidObjectError

	err := m.Activate("", "payload", 1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, CodeInvalidObject, invalid.Code)

	err = m.Activate("a", nil, 1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestManager_TransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *Manager) error
		wantErr bool
	}{
		{"inactive to background", func(m *Manager) error {
			return m.AddToBackground("a", "x")
		}, false},
		{"background to immediate", func(m *Manager) error {
			if err := m.AddToBackground("a", "x"); err != nil {
				return err
			}
			return m.Activate("a", "x", 1)
		}, false},
		{"immediate to active", func(m *Manager) error {
			if err := m.Activate("a", "x", 1); err != nil {
				return err
			}
			return m.Deactivate("a")
		}, false},
		{"active cannot re-enter active", func(m *Manager) error {
			if err := m.Activate("a", "x", 1); err != nil {
				return err
			}
			if err := m.Deactivate("a"); err != nil {
				return err
			}
			return m.Deactivate("a")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			err := tt.setup(m)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManager_MarkInactiveFromBackground(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddToBackground("a", "x"))

	// Background is the lowest live tier; going inactive from it is refused.
	err := m.MarkInactive("a")
	require.Error(t, err)
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, CodeBackgroundNoLower, te.Code)
}

func TestManager_GetPromotesTowardImmediate(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddToBackground("a", "x"))

	m.Get("a")
	assert.Equal(t, StateActive, m.StateOf("a"))

	m.Get("a")
	assert.Equal(t, StateImmediate, m.StateOf("a"))
}

func TestManager_HitMissCounting(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddToBackground("a", "x"))

	m.Get("a")
	m.Get("a")
	m.Get("missing")

	snap := m.Metrics()
	assert.Equal(t, 2, snap.CacheHits)
	assert.Equal(t, 1, snap.CacheMisses)
}

func TestManager_MemoryPressureShrinksTiers(t *testing.T) {
	// GIVEN a manager holding many background objects
	m := NewManager()
	for i := 0; i < 100; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		require.NoError(t, m.AddToBackground(id, i))
	}

	// WHEN memory pressure goes critical
	require.NoError(t, m.SetMemoryPressure(0.95))

	// THEN the background tier is forced down to its reduced limit
	assert.LessOrEqual(t, m.BackgroundSize(), 50)
	assert.Greater(t, m.Metrics().PeakMemoryPressure, 0.9)
}

func TestManager_SetMemoryPressureValidatesRange(t *testing.T) {
	m := NewManager()

	assert.Error(t, m.SetMemoryPressure(-0.1))
	assert.Error(t, m.SetMemoryPressure(1.1))
	assert.NoError(t, m.SetMemoryPressure(0.5))
}

func TestManager_DemotionPrefersStaleLowPriority(t *testing.T) {
	// GIVEN two immediate objects, one stale and low priority
	m := NewManager()
	clock := time.Now()
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Activate("fresh", "x", 10))
	require.NoError(t, m.Activate("stale", "x", 0))

	// The stale object was last touched an hour ago.
	m.lastAccessed["stale"] = clock.Add(-time.Hour)

	// WHEN pressure forces the immediate tier down to a floor of 4... it
	// holds both, so squeeze with many more.
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Activate(string(rune('A'+i)), "x", 5))
	}
	require.NoError(t, m.SetMemoryPressure(0.95))

	// THEN the stale low-priority object left the immediate tier first
	assert.NotEqual(t, StateImmediate, m.StateOf("stale"))
}

func TestManager_EvictForgetsObject(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Activate("a", "x", 1))

	m.Evict("a")

	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, StateInactive, m.StateOf("a"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "inactive", StateInactive.String())
	assert.Equal(t, "background", StateBackground.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "immediate", StateImmediate.String())
}
