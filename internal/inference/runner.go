package inference

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/repowhisperer/repowhisperer/internal/composer"
)

const (
	defaultConcurrency = 4
	defaultMaxTries    = 5
)

// Completion is the result of one prompt unit. A non-nil Err means the unit
// permanently failed; the assembler turns it into a placeholder section.
type Completion struct {
	Index int
	Kind  composer.PromptKind
	Text  string
	Err   error
}

// Runner executes the prompt sequence against a Generator with bounded
// concurrency and per-unit retry on resource exhaustion.
type Runner struct {
	generator   Generator
	opts        Options
	concurrency int
	maxTries    uint
	newBackOff  func() backoff.BackOff
	showBar     bool
}

// NewRunner builds a runner. showBar controls the terminal progress bar;
// callers disable it in quiet or non-interactive mode.
func NewRunner(gen Generator, opts Options, showBar bool) *Runner {
	return &Runner{
		generator:   gen,
		opts:        opts,
		concurrency: defaultConcurrency,
		maxTries:    defaultMaxTries,
		newBackOff:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		showBar:     showBar,
	}
}

// Run generates a completion for every unit. Results are placed by unit
// index, never by arrival order, so concurrency cannot reorder sections.
// Individual unit failures are recorded, not fatal; Run only returns an
// error when the context is canceled.
func (r *Runner) Run(ctx context.Context, units []composer.PromptUnit) ([]Completion, error) {
	completions := make([]Completion, len(units))

	var bar *progressbar.ProgressBar
	if r.showBar {
		bar = progressbar.NewOptions(len(units),
			progressbar.OptionSetDescription("Generating sections"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, unit := range units {
		g.Go(func() error {
			text, err := r.generateWithRetry(ctx, unit)
			completions[i] = Completion{Index: unit.Index, Kind: unit.Kind, Text: text, Err: err}
			if err != nil {
				log.Warn().
					Int("index", unit.Index).
					Str("kind", string(unit.Kind)).
					Err(err).
					Msg("prompt unit failed")
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return completions, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return completions, nil
}

// generateWithRetry retries a unit only while the provider reports resource
// exhaustion; every other error stops immediately.
func (r *Runner) generateWithRetry(ctx context.Context, unit composer.PromptUnit) (string, error) {
	operation := func() (string, error) {
		text, err := r.generator.Generate(ctx, unit.Text, r.opts)
		if err != nil {
			if IsResourceExhausted(err) {
				return "", err
			}
			return "", backoff.Permanent(err)
		}
		return text, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(r.maxTries),
	)
}
