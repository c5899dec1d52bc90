package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repowhisperer/repowhisperer/internal/composer"
)

// Test Plan for Runner:
// - Completions land at their unit's index regardless of finish order
// - Resource exhaustion is retried until the provider recovers
// - Permanent errors fail the unit after one attempt, run continues
// - A failed unit leaves a gap (Err set), others still complete
// - Context cancellation aborts the run

// fakeGenerator scripts per-prompt behavior keyed by prompt text.
type fakeGenerator struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int  // prompt -> times to return ErrResourceExhausted first
	broken   map[string]bool // prompt -> always fail permanently
	delay    map[string]time.Duration
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		calls:    make(map[string]int),
		failures: make(map[string]int),
		broken:   make(map[string]bool),
		delay:    make(map[string]time.Duration),
	}
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	f.mu.Lock()
	f.calls[prompt]++
	calls := f.calls[prompt]
	exhaustions := f.failures[prompt]
	broken := f.broken[prompt]
	delay := f.delay[prompt]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if broken {
		return "", errors.New("model rejected the prompt")
	}
	if calls <= exhaustions {
		return "", fmt.Errorf("%w: try again", ErrResourceExhausted)
	}
	return "response to " + prompt, nil
}

func (f *fakeGenerator) ModelID() string { return "fake/test" }

func makeUnits(n int) []composer.PromptUnit {
	units := make([]composer.PromptUnit, n)
	for i := range units {
		units[i] = composer.PromptUnit{
			Index: i,
			Kind:  composer.KindChunkDetail,
			Text:  fmt.Sprintf("prompt-%d", i),
		}
	}
	return units
}

func newTestRunner(gen Generator) *Runner {
	r := NewRunner(gen, Options{MaxTokens: 128}, false)
	r.newBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}
	return r
}

func TestRunner_PlacementByIndex(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	// Make early units slow so later units finish first.
	gen.delay["prompt-0"] = 30 * time.Millisecond
	gen.delay["prompt-1"] = 15 * time.Millisecond

	units := makeUnits(5)
	completions, err := newTestRunner(gen).Run(context.Background(), units)

	require.NoError(t, err)
	require.Len(t, completions, 5)
	for i, c := range completions {
		assert.Equal(t, i, c.Index)
		assert.NoError(t, c.Err)
		assert.Equal(t, fmt.Sprintf("response to prompt-%d", i), c.Text)
	}
}

func TestRunner_RetriesResourceExhaustion(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	gen.failures["prompt-1"] = 2 // succeed on third attempt

	completions, err := newTestRunner(gen).Run(context.Background(), makeUnits(3))

	require.NoError(t, err)
	assert.NoError(t, completions[1].Err)
	assert.Equal(t, "response to prompt-1", completions[1].Text)
	assert.Equal(t, 3, gen.calls["prompt-1"])
}

func TestRunner_PermanentErrorLeavesGap(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	gen.broken["prompt-2"] = true

	completions, err := newTestRunner(gen).Run(context.Background(), makeUnits(4))

	require.NoError(t, err)
	require.Len(t, completions, 4)

	assert.Error(t, completions[2].Err)
	assert.Empty(t, completions[2].Text)
	assert.Equal(t, 1, gen.calls["prompt-2"], "permanent errors are not retried")

	for _, i := range []int{0, 1, 3} {
		assert.NoError(t, completions[i].Err)
		assert.NotEmpty(t, completions[i].Text)
	}
}

func TestRunner_ExhaustionGivesUpEventually(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	gen.failures["prompt-0"] = 1000 // never recovers

	completions, err := newTestRunner(gen).Run(context.Background(), makeUnits(1))

	require.NoError(t, err)
	require.Error(t, completions[0].Err)
	assert.True(t, IsResourceExhausted(completions[0].Err))
}

func TestRunner_ContextCancellation(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	for i := 0; i < 8; i++ {
		gen.delay[fmt.Sprintf("prompt-%d", i)] = 200 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newTestRunner(gen).Run(ctx, makeUnits(8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "context canceled"))
}

func TestIsResourceExhausted(t *testing.T) {
	t.Parallel()

	assert.True(t, IsResourceExhausted(ErrResourceExhausted))
	assert.True(t, IsResourceExhausted(fmt.Errorf("wrapped: %w", ErrResourceExhausted)))
	assert.False(t, IsResourceExhausted(errors.New("other")))
	assert.False(t, IsResourceExhausted(nil))
}
