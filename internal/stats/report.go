package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/mindgym/internal/model"
	"github.com/verte-zerg/mindgym/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions  []model.SessionAggregate
	RoundAggs []model.RoundAggregate
	Weak      []model.RoundAggregate
	Slowest   []model.RoundAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	window := cfg.CurveWindow
	if window <= 0 || window > len(sessions) {
		window = len(sessions)
	}
	aggs, err := st.RoundAggregates(ctx, cfg.ExerciseID, window)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions:  sessions,
		RoundAggs: aggs,
		Weak:      SelectWeakRounds(aggs, cfg.WeakTop),
		Slowest:   SlowestRounds(aggs, cfg.WeakTop),
	}, nil
}

// Render writes the full plain-text report.
func (r Report) Render(w io.Writer, cfg model.StatsConfig, totalWidth int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderHistory(w, r.Sessions, cfg.CurveWindow, totalWidth); err != nil {
		return err
	}
	if len(r.Weak) > 0 {
		if err := writeLines(w, []string{"Weakest Rounds"}); err != nil {
			return err
		}
		if err := RenderRoundTable(w, r.Weak); err != nil {
			return err
		}
	}
	return RenderRoundTable(w, r.RoundAggs)
}
