package sequence

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"botdemo/internal/catalog"
	"botdemo/internal/metrics"
	"botdemo/internal/model"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the current state.
	ErrInvalidTransition = errors.New("sequence: invalid transition")
	// ErrUnknownWallet is returned for a wallet address outside the catalog.
	ErrUnknownWallet = errors.New("sequence: unknown wallet")
	// ErrUnknownPreset is returned for a preset id outside the catalog.
	ErrUnknownPreset = errors.New("sequence: unknown preset")
	// ErrPresetRequired is returned when copying starts before a preset is chosen.
	ErrPresetRequired = errors.New("sequence: preset not selected")
)

// State is a step of the copy-trading demo.
type State string

const (
	StateBrowseWallets  State = "browse_wallets"
	StateWalletSelected State = "wallet_selected"
	StateCopying        State = "copying"
	StateSmartExiting   State = "smart_exiting"
	StateSummary        State = "summary"
)

// Script timings and fixed outcomes of the demo.
const (
	TickInterval   = 200 * time.Millisecond
	MirrorDelay    = 1000 * time.Millisecond
	SmartExitDelay = 5000 * time.Millisecond
	RerouteDelay   = 2000 * time.Millisecond
	ResultDelay    = 2000 * time.Millisecond
	SummaryDelay   = 2000 * time.Millisecond

	MirrorProfit    = 5.2
	SmartExitProfit = 42.0
)

// Log entry kinds.
const (
	LogMirroredTrade    = "mirrored_trade"
	LogLiquidityWarning = "liquidity_warning"
	LogReroute          = "reroute"
	LogResult           = "result"
)

// Event types emitted to subscribers.
const (
	EventTransition = "transition"
	EventProgress   = "progress"
	EventLog        = "log"
)

// Rand supplies the progress-bar increments.
type Rand interface {
	Intn(n int) int
}

// LogEntry is one line of the demo activity feed.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Profit  float64   `json:"profit,omitempty"`
}

// Event is pushed to subscribers on every visible change.
type Event struct {
	Type     string    `json:"type"`
	State    State     `json:"state"`
	Progress int       `json:"progress"`
	Log      *LogEntry `json:"log,omitempty"`
	Time     time.Time `json:"time"`
}

// Snapshot is a copy of the machine state.
type Snapshot struct {
	State       State             `json:"state"`
	Wallet      *model.WalletData `json:"wallet,omitempty"`
	Preset      *model.PresetData `json:"preset,omitempty"`
	Progress    int               `json:"progress"`
	StageProfit float64           `json:"stage_profit"`
	TotalProfit float64           `json:"total_profit"`
	Logs        []LogEntry        `json:"logs"`
	Transitions []State           `json:"transitions"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Machine drives the scripted copy-trading narrative:
// browse wallets, wallet selected, copying, smart exiting, summary.
// Reset returns to browsing from any state and cancels pending timers.
type Machine struct {
	logger *slog.Logger
	clock  Clock
	rng    Rand

	// emitMu orders event delivery: it is held from a state change until
	// its events reach every subscriber, and is taken before mu.
	emitMu sync.Mutex

	mu          sync.Mutex
	state       State
	wallet      *model.WalletData
	preset      *model.PresetData
	progress    int
	stageProfit float64
	totalProfit float64
	logs        []LogEntry
	transitions []State
	updatedAt   time.Time

	// generation invalidates callbacks scheduled before a reset.
	generation uint64
	timers     []Timer

	listeners map[int]func(Event)
	nextID    int
	closed    bool
	done      chan struct{}
}

// NewMachine creates a machine in the browse-wallets state.
func NewMachine(logger *slog.Logger, clock Clock, rng Rand) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Machine{
		logger:    logger,
		clock:     clock,
		rng:       rng,
		state:     StateBrowseWallets,
		updatedAt: clock.Now(),
		listeners: make(map[int]func(Event)),
		done:      make(chan struct{}),
	}
}

// Subscribe registers fn for every event. The returned func unregisters it.
// fn must not block or call the machine's actions; it runs outside the
// state lock, in the order the changes happened.
func (m *Machine) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:       m.state,
		Progress:    m.progress,
		StageProfit: m.stageProfit,
		TotalProfit: m.totalProfit,
		Logs:        append([]LogEntry{}, m.logs...),
		Transitions: append([]State{}, m.transitions...),
		UpdatedAt:   m.updatedAt,
	}
	if m.wallet != nil {
		w := *m.wallet
		s.Wallet = &w
	}
	if m.preset != nil {
		p := *m.preset
		s.Preset = &p
	}
	return s
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SelectWallet picks a catalog wallet to copy.
func (m *Machine) SelectWallet(address string) error {
	w, ok := catalog.Wallet(address)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWallet, address)
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.mu.Lock()
	if err := m.expect(StateBrowseWallets); err != nil {
		m.mu.Unlock()
		return err
	}
	m.wallet = &w
	events := m.enter(StateWalletSelected)
	m.mu.Unlock()

	m.emit(events)
	return nil
}

// SelectPreset picks the copy parameters for the selected wallet.
func (m *Machine) SelectPreset(id string) error {
	p, ok := catalog.Preset(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(StateWalletSelected); err != nil {
		return err
	}
	m.preset = &p
	m.updatedAt = m.clock.Now()
	return nil
}

// Start begins copying the selected wallet.
func (m *Machine) Start() error {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.mu.Lock()
	if err := m.expect(StateWalletSelected); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.preset == nil {
		m.mu.Unlock()
		return ErrPresetRequired
	}
	m.progress = 0
	m.stageProfit = 0
	events := m.enter(StateCopying)
	m.schedule(TickInterval, m.tick)
	m.mu.Unlock()

	m.emit(events)
	return nil
}

// ContinueCopying returns from the summary to the selected wallet, keeping
// the wallet, preset and cumulative profit.
func (m *Machine) ContinueCopying() error {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.mu.Lock()
	if err := m.expect(StateSummary); err != nil {
		m.mu.Unlock()
		return err
	}
	m.progress = 0
	m.stageProfit = 0
	m.logs = nil
	events := m.enter(StateWalletSelected)
	m.mu.Unlock()

	m.emit(events)
	return nil
}

// Reset cancels pending timers and returns to browsing wallets.
func (m *Machine) Reset() {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.mu.Lock()
	m.cancelTimers()
	m.wallet = nil
	m.preset = nil
	m.progress = 0
	m.stageProfit = 0
	m.totalProfit = 0
	m.logs = nil
	m.transitions = nil
	m.state = StateBrowseWallets
	m.updatedAt = m.clock.Now()
	metrics.DemoTransitions.WithLabelValues(string(StateBrowseWallets)).Inc()
	events := []Event{{Type: EventTransition, State: StateBrowseWallets, Time: m.updatedAt}}
	m.mu.Unlock()

	m.emit(events)
}

// Close cancels pending timers and drops all subscribers.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.cancelTimers()
	m.listeners = make(map[int]func(Event))
	m.closed = true
	close(m.done)
}

// Done is closed when the machine is closed.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

func (m *Machine) expect(s State) error {
	if m.closed {
		return fmt.Errorf("%w: machine closed", ErrInvalidTransition)
	}
	if m.state != s {
		return fmt.Errorf("%w: in %s, need %s", ErrInvalidTransition, m.state, s)
	}
	return nil
}

// enter records a transition. Callers hold m.mu.
func (m *Machine) enter(s State) []Event {
	m.state = s
	m.transitions = append(m.transitions, s)
	m.updatedAt = m.clock.Now()
	metrics.DemoTransitions.WithLabelValues(string(s)).Inc()
	m.logger.Debug("Demo transition", "state", s)
	return []Event{{Type: EventTransition, State: s, Progress: m.progress, Time: m.updatedAt}}
}

// appendLog adds a feed entry. Callers hold m.mu.
func (m *Machine) appendLog(kind, msg string, profit float64) Event {
	entry := LogEntry{Time: m.clock.Now(), Kind: kind, Message: msg, Profit: profit}
	m.logs = append(m.logs, entry)
	m.updatedAt = entry.Time
	return Event{Type: EventLog, State: m.state, Progress: m.progress, Log: &entry, Time: entry.Time}
}

// schedule arms fn after d; fn runs under m.mu and returns events to emit.
// Callbacks from an earlier generation are dropped. Callers hold m.mu.
func (m *Machine) schedule(d time.Duration, fn func() []Event) {
	gen := m.generation
	t := m.clock.AfterFunc(d, func() {
		m.emitMu.Lock()
		defer m.emitMu.Unlock()
		m.mu.Lock()
		if m.generation != gen || m.closed {
			m.mu.Unlock()
			return
		}
		events := fn()
		m.mu.Unlock()
		m.emit(events)
	})
	m.timers = append(m.timers, t)
}

func (m *Machine) cancelTimers() {
	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
	m.generation++
}

func (m *Machine) tick() []Event {
	m.progress += 1 + m.rng.Intn(6)
	if m.progress < 100 {
		m.schedule(TickInterval, m.tick)
		return []Event{{Type: EventProgress, State: m.state, Progress: m.progress, Time: m.clock.Now()}}
	}
	m.progress = 100
	m.schedule(MirrorDelay, m.mirror)
	return []Event{{Type: EventProgress, State: m.state, Progress: m.progress, Time: m.clock.Now()}}
}

func (m *Machine) mirror() []Event {
	m.stageProfit = MirrorProfit
	name := ""
	if m.wallet != nil {
		name = m.wallet.Name
	}
	ev := m.appendLog(LogMirroredTrade, fmt.Sprintf("Mirrored trade from %s", name), MirrorProfit)
	m.schedule(SmartExitDelay, m.smartExit)
	return []Event{ev}
}

func (m *Machine) smartExit() []Event {
	events := m.enter(StateSmartExiting)
	events = append(events, m.appendLog(LogLiquidityWarning, "Liquidity dropping on primary pool, preparing smart exit", 0))
	m.schedule(RerouteDelay, m.reroute)
	return events
}

func (m *Machine) reroute() []Event {
	ev := m.appendLog(LogReroute, "Re-routing exit through deeper liquidity", 0)
	m.schedule(ResultDelay, m.result)
	return []Event{ev}
}

func (m *Machine) result() []Event {
	m.stageProfit = SmartExitProfit
	m.totalProfit += SmartExitProfit
	ev := m.appendLog(LogResult, fmt.Sprintf("Position closed at +%.1f%%", SmartExitProfit), SmartExitProfit)
	m.schedule(SummaryDelay, m.summary)
	return []Event{ev}
}

func (m *Machine) summary() []Event {
	m.timers = nil
	return m.enter(StateSummary)
}

func (m *Machine) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	listeners := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
