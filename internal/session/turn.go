package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
)

// Turn is one model response being streamed into a ChatSession. The
// consumer drives it by ranging over Fragments (or calling Wait); nothing
// is read from the model until then.
type Turn struct {
	session *ChatSession
	epoch   uint64
	user    domain.ChatTurn
	ctx     context.Context
	seq     iter.Seq2[string, error]

	started atomic.Bool
	done    chan struct{}

	mu       sync.Mutex
	text     strings.Builder
	final    domain.ChatTurn
	hasFinal bool
	err      error
}

func newTurn(s *ChatSession, epoch uint64, user domain.ChatTurn) *Turn {
	return &Turn{
		session: s,
		epoch:   epoch,
		user:    user,
		done:    make(chan struct{}),
	}
}

// UserTurn returns the user turn that started this response.
func (t *Turn) UserTurn() domain.ChatTurn {
	return t.user
}

// Fragments yields each text delta after it has been applied to the
// session's accumulator. It can be ranged over once; later calls yield
// nothing. Breaking out early ends the turn as interrupted with the text
// received so far kept. If the session is reset or closed mid-stream,
// iteration stops and the session is left untouched.
func (t *Turn) Fragments() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !t.started.CompareAndSwap(false, true) {
			return
		}
		t.run(yield)
	}
}

// Wait consumes the turn if nobody has started it and blocks until it ends.
// It returns the finalized model turn, if one was recorded, and the turn's
// error.
func (t *Turn) Wait() (domain.ChatTurn, error) {
	if t.started.CompareAndSwap(false, true) {
		t.run(func(string) bool { return true })
	}
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.final, t.err
}

// Done is closed when the turn has ended.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Text returns the text received so far.
func (t *Turn) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text.String()
}

// Err returns the turn's error once it has ended: nil for a complete turn,
// an error wrapping generation.ErrStreamInterrupted for a partial one, or
// ErrSessionClosed / ErrDiscarded if the session went away.
func (t *Turn) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Final returns the model turn recorded in History, if any.
func (t *Turn) Final() (domain.ChatTurn, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.final, t.hasFinal
}

// Superseded reports whether the session was reset or closed after this
// turn started. Output of a superseded turn is stale and must not be shown.
func (t *Turn) Superseded() bool {
	return !t.session.liveEpoch(t.epoch)
}

// Truncated reports whether the turn ended early with partial text.
func (t *Turn) Truncated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Is(t.err, generation.ErrStreamInterrupted)
}

func (t *Turn) run(yield func(string) bool) {
	defer close(t.done)

	var streamErr error
	for delta, err := range t.seq {
		if err != nil {
			streamErr = err
			break
		}
		if !t.session.applyFragment(t, delta) {
			t.finish(domain.ChatTurn{}, false, t.session.deadErr())
			return
		}
		t.mu.Lock()
		t.text.WriteString(delta)
		t.mu.Unlock()
		if !yield(delta) {
			streamErr = fmt.Errorf("%w: consumer stopped reading", generation.ErrStreamInterrupted)
			break
		}
	}

	if streamErr != nil && !errors.Is(streamErr, generation.ErrStreamInterrupted) {
		streamErr = fmt.Errorf("%w: %w", generation.ErrStreamInterrupted, streamErr)
	}
	final, ok, err := t.session.finishTurn(t.ctx, t, streamErr)
	t.finish(final, ok, err)
}

func (t *Turn) finish(final domain.ChatTurn, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.final = final
	t.hasFinal = ok
	t.err = err
}
