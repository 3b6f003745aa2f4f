// Package chat owns a conversation: the ordered message log, the single
// in-flight turn, and the state the presentation layer renders.
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"legalaid/internal/i18n"
	"legalaid/internal/model"
	"legalaid/internal/stream"
)

// GreetingID identifies the seed greeting. It is never sent to the backend.
const GreetingID = "initial"

var (
	// ErrStreamStalled ends a turn when nothing arrives within the stall timeout.
	ErrStreamStalled = errors.New("the response stalled")
	// ErrSuperseded cancels a turn whose conversation was reset.
	ErrSuperseded = errors.New("conversation was reset")
	// ErrClosed cancels a turn when the conversation is torn down.
	ErrClosed = errors.New("conversation closed")
)

// Transport opens the response stream for one turn.
type Transport interface {
	StreamTurn(ctx context.Context, history []model.Message, message string, lang i18n.Language) (io.ReadCloser, error)
}

// Snapshot is an immutable copy of everything the presentation layer needs.
type Snapshot struct {
	Messages        []model.Message
	State           State
	IsLoading       bool
	LastError       string
	CrisisPanelOpen bool
	Language        i18n.Language
	// QuickActions is non-empty only while the conversation holds nothing but
	// the greeting.
	QuickActions []string
	// Version increases with every change.
	Version uint64
}

// Option configures a Machine.
type Option func(*Machine)

// WithLanguage sets the starting language.
func WithLanguage(l i18n.Language) Option {
	return func(m *Machine) { m.lang = l }
}

// WithObserver registers fn to receive a snapshot after every change. Calls are
// serialized and arrive in Version order; fn must not block or call back into
// methods that change the conversation.
func WithObserver(fn func(Snapshot)) Option {
	return func(m *Machine) { m.observer = fn }
}

// WithStallTimeout fails a turn if the response headers or the next chunk do
// not arrive within d. Zero disables it.
func WithStallTimeout(d time.Duration) Option {
	return func(m *Machine) { m.stallTimeout = d }
}

// WithIDGenerator replaces the message ID source.
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// WithContext sets the parent of every turn's context.
func WithContext(ctx context.Context) Option {
	return func(m *Machine) { m.base = ctx }
}

// WithLogger sets the logger used for turn diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

type session struct {
	placeholderID string
	lang          i18n.Language
	ctx           context.Context
	cancel        context.CancelCauseFunc
}

// Machine is the conversation state machine. All methods are safe for
// concurrent use.
type Machine struct {
	transport    Transport
	base         context.Context
	stop         context.CancelFunc
	newID        func() string
	stallTimeout time.Duration
	observer     func(Snapshot)
	log          *slog.Logger

	mu        sync.Mutex
	state     State
	lang      i18n.Language
	messages  []model.Message
	lastError string
	panelOpen bool
	version   uint64
	active    *session
	closed    bool

	wg sync.WaitGroup

	notifyMu  sync.Mutex
	delivered uint64
}

// New returns an idle conversation seeded with the greeting for its language.
func New(t Transport, opts ...Option) *Machine {
	m := &Machine{
		transport: t,
		base:      context.Background(),
		newID:     newMessageID,
		lang:      i18n.Default,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.lang.Valid() {
		panic("chat: unsupported language " + string(m.lang))
	}
	m.base, m.stop = context.WithCancel(m.base)
	m.messages = []model.Message{greeting(m.lang)}
	return m
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func greeting(l i18n.Language) model.Message {
	return model.Message{ID: GreetingID, Role: model.RoleModel, Content: i18n.For(l).InitialMessage}
}

// ErrorAnnotation is the content a failed turn's placeholder ends up with.
func ErrorAnnotation(prefix, detail string) string {
	return prefix + " " + detail
}

// Submit starts a turn with text. It returns false, changing nothing, when
// text is blank or a turn is already in flight.
//
// The user message and the empty placeholder are in the log, and observers
// have seen them, before the request is made.
func (m *Machine) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	m.mu.Lock()
	if m.closed || m.state != Idle {
		m.mu.Unlock()
		return false
	}
	to, err := Next(m.state, EventSubmit)
	if err != nil {
		m.mu.Unlock()
		return false
	}

	history := m.outboundHistoryLocked()
	// IDs are minted in log order so that sorting by ID keeps a reply after
	// its question.
	user := model.Message{ID: m.newID(), Role: model.RoleUser, Content: text}
	placeholder := model.Message{ID: m.newID(), Role: model.RoleModel}
	m.messages = append(m.messages, user, placeholder)
	m.state = to
	m.lastError = ""
	m.panelOpen = false

	ctx, cancel := context.WithCancelCause(m.base)
	s := &session{placeholderID: placeholder.ID, lang: m.lang, ctx: ctx, cancel: cancel}
	m.active = s
	m.wg.Add(1)
	snap := m.changedLocked()
	m.mu.Unlock()

	m.publish(snap)
	m.log.Debug("Turn submitted", "placeholder_id", s.placeholderID, "history_len", len(history), "language", s.lang)

	go m.run(s, history, text)
	return true
}

// QuickActions returns the localized starter prompts, or nil once the
// conversation has moved past the greeting.
func (m *Machine) QuickActions() []string {
	return m.Snapshot().QuickActions
}

// SubmitQuickAction submits the i-th quick action of a fresh conversation.
func (m *Machine) SubmitQuickAction(i int) bool {
	actions := m.QuickActions()
	if i < 0 || i >= len(actions) {
		return false
	}
	return m.Submit(actions[i])
}

// SetLanguage discards the conversation and starts over with the greeting in
// l. A turn still in flight is cancelled and its late output is ignored.
// An unsupported language is a programming error and panics.
func (m *Machine) SetLanguage(l i18n.Language) {
	if !l.Valid() {
		panic("chat: unsupported language " + string(l))
	}

	m.mu.Lock()
	prev := m.active
	m.active = nil
	m.state, _ = Next(m.state, EventReset)
	m.lang = l
	m.messages = []model.Message{greeting(l)}
	m.lastError = ""
	m.panelOpen = false
	snap := m.changedLocked()
	m.mu.Unlock()

	if prev != nil {
		prev.cancel(ErrSuperseded)
		m.log.Info("Cancelled in-flight turn on language change", "placeholder_id", prev.placeholderID, "language", l)
	}
	m.publish(snap)
}

// ToggleCrisisPanel opens or closes the crisis resources panel.
func (m *Machine) ToggleCrisisPanel() {
	m.mu.Lock()
	m.panelOpen = !m.panelOpen
	snap := m.changedLocked()
	m.mu.Unlock()
	m.publish(snap)
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Wait blocks until no turn is in flight.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Close cancels any in-flight turn and waits for it to stop. Submit is a no-op
// afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	m.closed = true
	prev := m.active
	m.active = nil
	m.state, _ = Next(m.state, EventReset)
	m.mu.Unlock()

	if prev != nil {
		prev.cancel(ErrClosed)
	}
	m.stop()
	m.wg.Wait()
}

func (m *Machine) run(s *session, history []model.Message, text string) {
	defer m.wg.Done()
	defer s.cancel(nil)

	var watchdog *time.Timer
	if m.stallTimeout > 0 {
		watchdog = time.AfterFunc(m.stallTimeout, func() { s.cancel(ErrStreamStalled) })
		defer watchdog.Stop()
	}
	kick := func() {
		if watchdog != nil {
			watchdog.Reset(m.stallTimeout)
		}
	}

	body, err := m.transport.StreamTurn(s.ctx, history, text, s.lang)
	if err != nil {
		m.fail(s, err)
		return
	}
	defer body.Close()

	kick()
	if !m.advance(s, EventConnected, nil) {
		return
	}

	_, err = stream.Consume(s.ctx, body, func(content string) bool {
		kick()
		return m.advance(s, EventChunk, &content)
	})
	if err != nil {
		m.fail(s, err)
		return
	}
	m.complete(s)
}

// advance applies ev for s if s is still the active turn.
func (m *Machine) advance(s *session, ev Event, content *string) bool {
	m.mu.Lock()
	if m.active != s {
		m.mu.Unlock()
		return false
	}
	to, err := Next(m.state, ev)
	if err != nil {
		m.mu.Unlock()
		m.log.Error("Dropped stream event", "error", err)
		return false
	}
	m.state = to
	if content != nil {
		m.setContentLocked(s.placeholderID, *content)
	}
	snap := m.changedLocked()
	m.mu.Unlock()

	m.publish(snap)
	return true
}

func (m *Machine) complete(s *session) {
	m.mu.Lock()
	if m.active != s {
		m.mu.Unlock()
		return
	}
	to, err := Next(m.state, EventCompleted)
	if err != nil {
		m.mu.Unlock()
		m.log.Error("Could not complete turn", "error", err)
		return
	}
	m.state = to
	m.active = nil
	snap := m.changedLocked()
	m.mu.Unlock()

	m.log.Debug("Turn completed", "placeholder_id", s.placeholderID)
	m.publish(snap)
}

// fail annotates the placeholder, passes through Errored and settles in Idle.
func (m *Machine) fail(s *session, err error) {
	if s.ctx.Err() != nil {
		if cause := context.Cause(s.ctx); cause != nil {
			err = cause
		}
	}
	detail := err.Error()

	m.mu.Lock()
	if m.active != s {
		m.mu.Unlock()
		m.log.Debug("Ignoring failure of a superseded turn", "placeholder_id", s.placeholderID, "error", err)
		return
	}
	to, tErr := Next(m.state, EventFailed)
	if tErr != nil {
		m.mu.Unlock()
		m.log.Error("Could not fail turn", "error", tErr)
		return
	}
	m.state = to
	m.setContentLocked(s.placeholderID, ErrorAnnotation(i18n.For(s.lang).ErrorPrefix, detail))
	m.lastError = detail
	errored := m.changedLocked()

	m.state, _ = Next(m.state, EventRecovered)
	m.active = nil
	idle := m.changedLocked()
	m.mu.Unlock()

	m.log.Warn("Turn failed", "placeholder_id", s.placeholderID, "error", err)
	m.publish(errored)
	m.publish(idle)
}

// outboundHistoryLocked is every message so far except the seed greeting.
func (m *Machine) outboundHistoryLocked() []model.Message {
	out := make([]model.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.ID == GreetingID {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (m *Machine) setContentLocked(id, content string) {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ID == id {
			m.messages[i].Content = content
			return
		}
	}
}

func (m *Machine) changedLocked() Snapshot {
	m.version++
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Messages:        append([]model.Message(nil), m.messages...),
		State:           m.state,
		IsLoading:       m.state.Loading(),
		LastError:       m.lastError,
		CrisisPanelOpen: m.panelOpen,
		Language:        m.lang,
		Version:         m.version,
	}
	if len(m.messages) == 1 && m.messages[0].ID == GreetingID {
		snap.QuickActions = append([]string(nil), i18n.For(m.lang).QuickActions...)
	}
	return snap
}

func (m *Machine) publish(snap Snapshot) {
	if m.observer == nil {
		return
	}
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if snap.Version <= m.delivered {
		return
	}
	m.delivered = snap.Version
	m.observer(snap)
}
