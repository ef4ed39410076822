package session

import (
	"strconv"

	"github.com/verte-zerg/mindgym/internal/content"
	"github.com/verte-zerg/mindgym/internal/prng"
)

// Presentation is a round as shown to the player: options scrambled, answers remapped.
// Seed is the seed the scramble used. RendererSeed is drawn from a separate key so
// renderer-side shuffles are not correlated with the scrambled order.
type Presentation struct {
	Index        int
	Round        content.Round
	Seed         uint32
	RendererSeed uint32
}

// OptionsKey is the seed key for option ordering of round n within a session.
func OptionsKey(sessionKey string, n int) string {
	return prng.Key(sessionKey, "round:"+strconv.Itoa(n), "opts")
}

// RendererKey is the seed key for renderer-side shuffles of round n.
func RendererKey(sessionKey string, n int) string {
	return prng.Key(OptionsKey(sessionKey, n), "renderer")
}

func present(r content.Round, n int, sessionKey string) Presentation {
	seed := prng.HashKey(OptionsKey(sessionKey, n))
	return Presentation{
		Index:        n,
		Round:        scramble(r, seed),
		Seed:         seed,
		RendererSeed: prng.HashKey(RendererKey(sessionKey, n)),
	}
}

func scramble(r content.Round, seed uint32) content.Round {
	switch v := r.(type) {
	case content.ChoiceRound:
		s := prng.ShuffleWithAnchor(v.Options, v.CorrectIndex, seed)
		v.Options = s.Items
		v.CorrectIndex = s.Anchor
		return v
	case content.OddOneOutRound:
		s := prng.ShuffleWithAnchor(v.Options, v.OddIndex, seed)
		v.Options = s.Items
		v.OddIndex = s.Anchor
		return v
	case content.PairsRound:
		v.Pairs = prng.Shuffle(v.Pairs, seed)
		return v
	case content.SequenceRound:
		perm := prng.Permutation(len(v.Items), seed)
		items := make([]string, len(perm))
		newPos := make([]int, len(perm))
		for to, from := range perm {
			items[to] = v.Items[from]
			newPos[from] = to
		}
		order := make([]int, len(v.CorrectOrder))
		for i, idx := range v.CorrectOrder {
			if idx >= 0 && idx < len(newPos) {
				order[i] = newPos[idx]
			} else {
				order[i] = idx
			}
		}
		v.Items = items
		v.CorrectOrder = order
		return v
	default:
		// Reaction stimuli keep their authored order; pacing belongs to the renderer.
		return r
	}
}
