package prompt

import (
	"context"
	"math/rand/v2"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultPoolPicks is how many rotating prompts join the fixed ones.
const DefaultPoolPicks = 2

// Selector asks every fixed prompt followed by distinct random pool prompts.
type Selector struct {
	picks   int
	shuffle func(n int, swap func(i, j int))
}

var _ interfaces.PromptSelector = &Selector{}

type Option func(*Selector)

func WithPoolPicks(n int) Option {
	return func(s *Selector) {
		s.picks = n
	}
}

// WithRand makes selection deterministic for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		s.shuffle = r.Shuffle
	}
}

func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		picks:   DefaultPoolPicks,
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Selector) SelectPrompts(ctx context.Context) ([]prompt.Content, error) {
	pool := prompt.Pool()
	if s.picks < 0 || s.picks > len(pool) {
		return nil, goerr.New("not enough pool prompts",
			goerr.V("picks", s.picks),
			goerr.V("pool", len(pool)),
			goerr.T(errs.TagInvalidArgument))
	}

	s.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	selected := prompt.Fixed()
	selected = append(selected, pool[:s.picks]...)
	return selected, nil
}
