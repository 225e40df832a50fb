package prompt_test

import (
	"math/rand/v2"
	"testing"

	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/types"
	svc "github.com/feelcast/feelcast/pkg/service/prompt"
	"github.com/m-mizutani/gt"
)

func TestSelector(t *testing.T) {
	selector := svc.NewSelector(svc.WithRand(rand.New(rand.NewPCG(1, 2))))

	for range 50 {
		selected, err := selector.SelectPrompts(t.Context())
		gt.NoError(t, err).Required()
		gt.A(t, selected).Length(4)

		gt.Equal(t, selected[0], prompt.Fixed()[0])
		gt.Equal(t, selected[1], prompt.Fixed()[1])

		seen := map[types.PromptKey]bool{}
		for _, c := range selected {
			gt.NoError(t, c.Validate())
			gt.False(t, seen[c.Key])
			seen[c.Key] = true
		}
		gt.Equal(t, selected[2].Kind, types.PromptKindPool)
		gt.Equal(t, selected[3].Kind, types.PromptKindPool)
	}
}

func TestSelectorIsDeterministicWithSeed(t *testing.T) {
	a := svc.NewSelector(svc.WithRand(rand.New(rand.NewPCG(7, 7))))
	b := svc.NewSelector(svc.WithRand(rand.New(rand.NewPCG(7, 7))))

	sa, err := a.SelectPrompts(t.Context())
	gt.NoError(t, err).Required()
	sb, err := b.SelectPrompts(t.Context())
	gt.NoError(t, err).Required()
	gt.Equal(t, sa, sb)
}

func TestSelectorPoolPicks(t *testing.T) {
	selected, err := svc.NewSelector(svc.WithPoolPicks(0)).SelectPrompts(t.Context())
	gt.NoError(t, err).Required()
	gt.A(t, selected).Length(len(prompt.Fixed()))

	_, err = svc.NewSelector(svc.WithPoolPicks(len(prompt.Pool()) + 1)).SelectPrompts(t.Context())
	gt.Error(t, err)
}
