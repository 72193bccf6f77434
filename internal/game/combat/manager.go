package combat

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/shire/internal/model"
)

// Handle identifies an encounter started through a Manager.
type Handle = uuid.UUID

// Manager owns at most one live encounter at a time.
//
// Thread-safety: all methods lock mu. The core is single-player, the mutex
// only makes concurrent misuse fail cleanly.
type Manager struct {
	mu     sync.Mutex
	rules  Rules
	items  ItemLookup
	rng    model.Rand
	handle Handle
	active *Encounter
}

// NewManager creates a manager that builds encounters with the given rules,
// item lookup and random source.
func NewManager(rules Rules, items ItemLookup, rng model.Rand) *Manager {
	return &Manager{rules: rules, items: items, rng: rng}
}

// Start begins a new encounter. Fails with ErrEncounterActive while the
// previous one has not reached a terminal state.
func (m *Manager) Start(c *model.Character, e *model.Enemy) (Handle, StepResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && !m.active.IsTerminal() {
		return uuid.Nil, StepResult{}, fmt.Errorf("%w: %s", ErrEncounterActive, m.handle)
	}

	enc, err := NewEncounter(m.rules, c, e, m.items, m.rng)
	if err != nil {
		return uuid.Nil, StepResult{}, err
	}
	step, err := enc.Start()
	if err != nil {
		return uuid.Nil, StepResult{}, err
	}

	m.handle = uuid.New()
	m.active = enc
	slog.Debug("encounter registered", "handle", m.handle)
	return m.handle, step, nil
}

// Submit forwards a player action to the encounter behind h.
func (m *Manager) Submit(h Handle, a Action) (StepResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	enc, err := m.lookup(h)
	if err != nil {
		return StepResult{}, err
	}
	return enc.Submit(a)
}

// IsTerminal reports whether the encounter behind h has ended.
func (m *Manager) IsTerminal(h Handle) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	enc, err := m.lookup(h)
	if err != nil {
		return false, err
	}
	return enc.IsTerminal(), nil
}

// Encounter returns the encounter behind h.
func (m *Manager) Encounter(h Handle) (*Encounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lookup(h)
}

// Active returns the handle of the live encounter, if any.
func (m *Manager) Active() (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.IsTerminal() {
		return uuid.Nil, false
	}
	return m.handle, true
}

func (m *Manager) lookup(h Handle) (*Encounter, error) {
	if m.active == nil || h != m.handle {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncounter, h)
	}
	return m.active, nil
}
