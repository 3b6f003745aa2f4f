package chat_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalaid/internal/chat"
	"legalaid/internal/i18n"
	"legalaid/internal/model"
	"legalaid/internal/transport"
)

type turnCall struct {
	History []model.Message
	Message string
	Lang    i18n.Language
}

// fakeTransport records every call and answers with open.
type fakeTransport struct {
	mu    sync.Mutex
	calls []turnCall
	open  func(ctx context.Context) (io.ReadCloser, error)
}

func (f *fakeTransport) StreamTurn(ctx context.Context, history []model.Message, message string, lang i18n.Language) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls = append(f.calls, turnCall{History: history, Message: message, Lang: lang})
	f.mu.Unlock()
	return f.open(ctx)
}

func (f *fakeTransport) Calls() []turnCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]turnCall(nil), f.calls...)
}

// chunkBody returns one chunk per Read.
type chunkBody struct {
	chunks []string
}

func (b *chunkBody) Read(p []byte) (int, error) {
	if len(b.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	b.chunks = b.chunks[1:]
	return n, nil
}

func (b *chunkBody) Close() error { return nil }

func respondWith(chunks ...string) func(context.Context) (io.ReadCloser, error) {
	return func(context.Context) (io.ReadCloser, error) {
		return &chunkBody{chunks: chunks}, nil
	}
}

// blockingBody never yields data; Read returns once ctx is done.
type blockingBody struct {
	ctx context.Context
}

func (b blockingBody) Read([]byte) (int, error) {
	<-b.ctx.Done()
	return 0, b.ctx.Err()
}

func (blockingBody) Close() error { return nil }

// recorder collects observer snapshots.
type recorder struct {
	mu    sync.Mutex
	snaps []chat.Snapshot
}

func (r *recorder) observe(s chat.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) all() []chat.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]chat.Snapshot(nil), r.snaps...)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func last(msgs []model.Message) model.Message {
	return msgs[len(msgs)-1]
}

func TestMachine_New(t *testing.T) {
	t.Run("Success - seeded with the greeting", func(t *testing.T) {
		m := chat.New(&fakeTransport{})
		defer m.Close()

		snap := m.Snapshot()
		require.Len(t, snap.Messages, 1)
		assert.Equal(t, chat.GreetingID, snap.Messages[0].ID)
		assert.Equal(t, model.RoleModel, snap.Messages[0].Role)
		assert.Equal(t, i18n.For(i18n.English).InitialMessage, snap.Messages[0].Content)
		assert.Equal(t, chat.Idle, snap.State)
		assert.False(t, snap.IsLoading)
		assert.Empty(t, snap.LastError)
		assert.Equal(t, i18n.For(i18n.English).QuickActions, snap.QuickActions)
	})

	t.Run("Failure - unsupported language panics", func(t *testing.T) {
		assert.Panics(t, func() { chat.New(&fakeTransport{}, chat.WithLanguage("xx")) })
	})
}

func TestMachine_Submit(t *testing.T) {
	t.Run("Success - user message and placeholder exist before the request", func(t *testing.T) {
		// ARRANGE
		var m *chat.Machine
		var atCall chat.Snapshot
		ft := &fakeTransport{}
		ft.open = func(ctx context.Context) (io.ReadCloser, error) {
			atCall = m.Snapshot()
			return &chunkBody{chunks: []string{"ok"}}, nil
		}
		m = chat.New(ft, chat.WithIDGenerator(sequentialIDs()))
		defer m.Close()

		// ACT
		ok := m.Submit("  Can my landlord keep my deposit?  ")
		m.Wait()

		// ASSERT
		require.True(t, ok)
		require.Len(t, atCall.Messages, 3)
		assert.Equal(t, chat.Sending, atCall.State)
		assert.True(t, atCall.IsLoading)
		assert.Equal(t, model.Message{ID: "m1", Role: model.RoleUser, Content: "  Can my landlord keep my deposit?  "}, atCall.Messages[1])
		assert.Equal(t, model.Message{ID: "m2", Role: model.RoleModel}, atCall.Messages[2])

		final := m.Snapshot()
		require.Len(t, final.Messages, 3)
		assert.Equal(t, "ok", last(final.Messages).Content)
		assert.Equal(t, chat.Idle, final.State)
		assert.Empty(t, final.QuickActions)
	})

	t.Run("Success - default IDs sort in log order", func(t *testing.T) {
		ft := &fakeTransport{}
		ft.open = func(ctx context.Context) (io.ReadCloser, error) {
			return &chunkBody{chunks: []string{"ok"}}, nil
		}
		m := chat.New(ft)
		defer m.Close()

		require.True(t, m.Submit("hello"))
		m.Wait()

		msgs := m.Snapshot().Messages
		require.Len(t, msgs, 3)
		user, reply := msgs[1], msgs[2]
		assert.Equal(t, model.RoleUser, user.Role)
		assert.Equal(t, model.RoleModel, reply.Role)
		assert.Less(t, user.ID, reply.ID)
	})

	t.Run("Success - blank input is ignored", func(t *testing.T) {
		ft := &fakeTransport{open: respondWith("unused")}
		m := chat.New(ft)
		defer m.Close()
		before := m.Snapshot()

		for _, text := range []string{"", " ", "\t\n  "} {
			assert.False(t, m.Submit(text))
		}
		m.Wait()

		after := m.Snapshot()
		assert.Equal(t, before.Messages, after.Messages)
		assert.Equal(t, before.State, after.State)
		assert.Equal(t, before.Version, after.Version)
		assert.Empty(t, ft.Calls())
	})

	t.Run("Success - submit while busy is ignored", func(t *testing.T) {
		release := make(chan struct{})
		ft := &fakeTransport{open: func(ctx context.Context) (io.ReadCloser, error) {
			<-release
			return &chunkBody{chunks: []string{"done"}}, nil
		}}
		m := chat.New(ft)
		defer m.Close()

		require.True(t, m.Submit("first"))
		assert.False(t, m.Submit("second"))
		assert.Len(t, m.Snapshot().Messages, 3)

		close(release)
		m.Wait()

		assert.Len(t, ft.Calls(), 1)
		assert.Equal(t, "done", last(m.Snapshot().Messages).Content)
	})

	t.Run("Success - outbound history excludes greeting and placeholder", func(t *testing.T) {
		ft := &fakeTransport{open: respondWith("B")}
		m := chat.New(ft, chat.WithLanguage(i18n.Vietnamese))
		defer m.Close()

		require.True(t, m.Submit("A"))
		m.Wait()
		require.True(t, m.Submit("C"))
		m.Wait()

		calls := ft.Calls()
		require.Len(t, calls, 2)
		assert.Empty(t, calls[0].History)
		assert.Equal(t, "A", calls[0].Message)
		assert.Equal(t, i18n.Vietnamese, calls[0].Lang)

		require.Len(t, calls[1].History, 2)
		assert.Equal(t, model.RoleUser, calls[1].History[0].Role)
		assert.Equal(t, "A", calls[1].History[0].Content)
		assert.Equal(t, model.RoleModel, calls[1].History[1].Role)
		assert.Equal(t, "B", calls[1].History[1].Content)
		assert.Equal(t, "C", calls[1].Message)
	})

	t.Run("Success - content grows incrementally while loading", func(t *testing.T) {
		// ARRANGE
		rec := &recorder{}
		ft := &fakeTransport{open: respondWith("You ", "may ", "have rights...")}
		m := chat.New(ft, chat.WithObserver(rec.observe))
		defer m.Close()

		// ACT
		require.True(t, m.Submit("My landlord won't return my deposit."))
		m.Wait()

		// ASSERT
		var streamed []string
		for _, s := range rec.all() {
			if s.State == chat.Streaming && last(s.Messages).Content != "" {
				assert.True(t, s.IsLoading)
				streamed = append(streamed, last(s.Messages).Content)
			}
		}
		assert.Equal(t, []string{"You ", "You may ", "You may have rights..."}, streamed)

		snaps := rec.all()
		for i := 1; i < len(snaps); i++ {
			assert.Greater(t, snaps[i].Version, snaps[i-1].Version)
		}
		final := snaps[len(snaps)-1]
		assert.False(t, final.IsLoading)
		assert.Equal(t, chat.Idle, final.State)
		assert.Equal(t, "You may have rights...", last(final.Messages).Content)
	})

	t.Run("Success - zero-byte answer completes without error", func(t *testing.T) {
		m := chat.New(&fakeTransport{open: respondWith()})
		defer m.Close()

		require.True(t, m.Submit("hello"))
		m.Wait()

		snap := m.Snapshot()
		require.Len(t, snap.Messages, 3)
		assert.Equal(t, "", last(snap.Messages).Content)
		assert.Empty(t, snap.LastError)
		assert.Equal(t, chat.Idle, snap.State)
	})

	t.Run("Success - submit clears the previous error and closes the crisis panel", func(t *testing.T) {
		fail := true
		ft := &fakeTransport{}
		ft.open = func(context.Context) (io.ReadCloser, error) {
			if fail {
				return nil, &transport.Error{Kind: transport.KindNetwork, Message: "offline"}
			}
			return &chunkBody{chunks: []string{"fine"}}, nil
		}
		m := chat.New(ft)
		defer m.Close()

		require.True(t, m.Submit("one"))
		m.Wait()
		assert.Equal(t, "offline", m.Snapshot().LastError)

		m.ToggleCrisisPanel()
		assert.True(t, m.Snapshot().CrisisPanelOpen)

		fail = false
		require.True(t, m.Submit("two"))
		snap := m.Snapshot()
		assert.Empty(t, snap.LastError)
		assert.False(t, snap.CrisisPanelOpen)
		m.Wait()
	})
}

func TestMachine_Failures(t *testing.T) {
	t.Run("Failure - status error annotates the placeholder", func(t *testing.T) {
		// ARRANGE
		rec := &recorder{}
		ft := &fakeTransport{open: func(context.Context) (io.ReadCloser, error) {
			return nil, &transport.Error{Kind: transport.KindStatus, StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
		}}
		m := chat.New(ft, chat.WithObserver(rec.observe))
		defer m.Close()

		// ACT
		require.True(t, m.Submit("hello"))
		m.Wait()

		// ASSERT
		snap := m.Snapshot()
		require.Len(t, snap.Messages, 3)
		assert.Equal(t, "Error: rate limited", last(snap.Messages).Content)
		assert.Contains(t, snap.LastError, "rate limited")
		assert.Equal(t, chat.Idle, snap.State)
		assert.False(t, snap.IsLoading)

		var sawErrored bool
		for _, s := range rec.all() {
			if s.State == chat.Errored {
				sawErrored = true
				assert.False(t, s.IsLoading)
			}
		}
		assert.True(t, sawErrored)
	})

	t.Run("Failure - error prefix follows the language", func(t *testing.T) {
		ft := &fakeTransport{open: func(context.Context) (io.ReadCloser, error) {
			return nil, &transport.Error{Kind: transport.KindStatus, StatusCode: http.StatusInternalServerError, Message: "boom"}
		}}
		m := chat.New(ft, chat.WithLanguage(i18n.French))
		defer m.Close()

		require.True(t, m.Submit("bonjour"))
		m.Wait()

		assert.Equal(t, chat.ErrorAnnotation(i18n.For(i18n.French).ErrorPrefix, "boom"), last(m.Snapshot().Messages).Content)
	})

	t.Run("Failure - read error mid-stream keeps the turn consistent", func(t *testing.T) {
		ft := &fakeTransport{open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{})), nil
		}}
		m := chat.New(ft)
		defer m.Close()

		require.True(t, m.Submit("hello"))
		m.Wait()

		snap := m.Snapshot()
		assert.Equal(t, "Error: could not read response stream: connection reset", last(snap.Messages).Content)
		assert.Equal(t, chat.Idle, snap.State)
	})

	t.Run("Failure - stalled stream times out", func(t *testing.T) {
		ft := &fakeTransport{open: func(ctx context.Context) (io.ReadCloser, error) {
			return blockingBody{ctx: ctx}, nil
		}}
		m := chat.New(ft, chat.WithStallTimeout(20*time.Millisecond))
		defer m.Close()

		require.True(t, m.Submit("hello"))
		m.Wait()

		snap := m.Snapshot()
		assert.Equal(t, "Error: "+chat.ErrStreamStalled.Error(), last(snap.Messages).Content)
		assert.Equal(t, chat.ErrStreamStalled.Error(), snap.LastError)
		assert.Equal(t, chat.Idle, snap.State)
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("connection reset")
}

func TestMachine_SetLanguage(t *testing.T) {
	t.Run("Success - resets to the Spanish greeting", func(t *testing.T) {
		m := chat.New(&fakeTransport{open: respondWith("answer")})
		defer m.Close()
		for _, q := range []string{"one", "two", "three"} {
			require.True(t, m.Submit(q))
			m.Wait()
		}
		require.Len(t, m.Snapshot().Messages, 7)

		m.SetLanguage(i18n.Spanish)

		snap := m.Snapshot()
		require.Len(t, snap.Messages, 1)
		assert.Equal(t, chat.GreetingID, snap.Messages[0].ID)
		assert.Equal(t, i18n.For(i18n.Spanish).InitialMessage, snap.Messages[0].Content)
		assert.Equal(t, i18n.Spanish, snap.Language)
		assert.Equal(t, i18n.For(i18n.Spanish).QuickActions, snap.QuickActions)
	})

	t.Run("Success - cancels the in-flight turn and ignores its output", func(t *testing.T) {
		// ARRANGE
		causes := make(chan error, 1)
		ft := &fakeTransport{open: func(ctx context.Context) (io.ReadCloser, error) {
			go func() {
				<-ctx.Done()
				causes <- context.Cause(ctx)
			}()
			return blockingBody{ctx: ctx}, nil
		}}
		m := chat.New(ft)
		defer m.Close()

		require.True(t, m.Submit("hello"))
		require.Eventually(t, func() bool { return m.Snapshot().State == chat.Streaming }, time.Second, time.Millisecond)

		// ACT
		m.SetLanguage(i18n.Chinese)
		m.Wait()

		// ASSERT
		assert.ErrorIs(t, <-causes, chat.ErrSuperseded)
		snap := m.Snapshot()
		require.Len(t, snap.Messages, 1)
		assert.Equal(t, i18n.For(i18n.Chinese).InitialMessage, snap.Messages[0].Content)
		assert.Equal(t, chat.Idle, snap.State)
		assert.Empty(t, snap.LastError)

		assert.True(t, m.Submit("next"))
	})

	t.Run("Failure - unsupported language panics", func(t *testing.T) {
		m := chat.New(&fakeTransport{})
		defer m.Close()
		assert.Panics(t, func() { m.SetLanguage("klingon") })
	})
}

func TestMachine_QuickActionsAndPanel(t *testing.T) {
	t.Run("Success - quick action submits its text", func(t *testing.T) {
		ft := &fakeTransport{open: respondWith("sure")}
		m := chat.New(ft)
		defer m.Close()

		require.True(t, m.SubmitQuickAction(1))
		m.Wait()

		calls := ft.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, i18n.For(i18n.English).QuickActions[1], calls[0].Message)
		assert.False(t, m.SubmitQuickAction(0), "quick actions only apply to a fresh conversation")
	})

	t.Run("Failure - out of range quick action", func(t *testing.T) {
		m := chat.New(&fakeTransport{open: respondWith()})
		defer m.Close()
		assert.False(t, m.SubmitQuickAction(-1))
		assert.False(t, m.SubmitQuickAction(99))
	})

	t.Run("Success - toggle flips the panel", func(t *testing.T) {
		rec := &recorder{}
		m := chat.New(&fakeTransport{}, chat.WithObserver(rec.observe))
		defer m.Close()

		m.ToggleCrisisPanel()
		assert.True(t, m.Snapshot().CrisisPanelOpen)
		m.ToggleCrisisPanel()
		assert.False(t, m.Snapshot().CrisisPanelOpen)
		assert.Len(t, rec.all(), 2)
	})
}

func TestMachine_Close(t *testing.T) {
	ft := &fakeTransport{open: func(ctx context.Context) (io.ReadCloser, error) {
		return blockingBody{ctx: ctx}, nil
	}}
	m := chat.New(ft)

	require.True(t, m.Submit("hello"))
	m.Close()

	assert.False(t, m.Submit("again"))
	assert.Equal(t, chat.Idle, m.Snapshot().State)
}
