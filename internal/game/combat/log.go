package combat

// Actor identifies who produced an event.
type Actor int32

const (
	ActorPlayer Actor = iota
	ActorEnemy
	ActorSystem
)

// String returns actor name.
func (a Actor) String() string {
	switch a {
	case ActorPlayer:
		return "player"
	case ActorEnemy:
		return "enemy"
	default:
		return "system"
	}
}

// Event is one line of the combat log.
type Event struct {
	Turn     int
	Actor    Actor
	Action   string
	Damage   int
	Restored int
	Critical bool
	Dodged   bool
	Blocked  bool
	Message  string
}

// Log keeps the most recent events, oldest first, up to a fixed size.
type Log struct {
	events []Event
	size   int
}

// NewLog returns a log that keeps at most size events.
func NewLog(size int) *Log {
	if size < 1 {
		size = 1
	}
	return &Log{size: size, events: make([]Event, 0, size)}
}

// Add appends an event and drops the oldest one when full.
func (l *Log) Add(e Event) {
	if len(l.events) == l.size {
		copy(l.events, l.events[1:])
		l.events = l.events[:l.size-1]
	}
	l.events = append(l.events, e)
}

// Events returns a copy of the logged events, oldest first.
func (l *Log) Events() []Event {
	return append([]Event(nil), l.events...)
}

// Len returns the number of logged events.
func (l *Log) Len() int {
	return len(l.events)
}

// Stats are per-encounter counters.
type Stats struct {
	Turns          int
	DamageDealt    int
	DamageTaken    int
	Crits          int
	Dodges         int
	ItemsUsed      int
	AbilitiesFaced int
}
