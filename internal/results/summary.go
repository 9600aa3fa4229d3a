package results

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"

	"abxkit/internal/abx"
)

// Summary scores one session.
type Summary struct {
	Trials     int           `json:"trials"`
	Correct    int           `json:"correct"`
	Proportion float64       `json:"proportion"`
	PValue     float64       `json:"p_value"`
	RefOnA     int           `json:"ref_on_a"`
	MeanTime   float64       `json:"mean_time"`
	MedianTime float64       `json:"median_time"`
	StdDevTime float64       `json:"stddev_time"`
	MeanClicks float64       `json:"mean_clicks"`
	Pairs      []PairSummary `json:"pairs"`
}

// PairSummary scores the trials of one stimulus pair.
type PairSummary struct {
	ID         string  `json:"id"`
	Group      string  `json:"group"`
	Stimuli    string  `json:"stimuli"`
	Trials     int     `json:"trials"`
	Correct    int     `json:"correct"`
	Proportion float64 `json:"proportion"`
	PValue     float64 `json:"p_value"`
}

// PValue is the one-sided probability of at least correct right answers out
// of trials when guessing.
func PValue(correct, trials int) float64 {
	if trials <= 0 || correct <= 0 {
		return 1
	}
	dist := distuv.Binomial{N: float64(trials), P: 0.5}
	return 1 - dist.CDF(float64(correct-1))
}

// Summarize computes totals, the binomial p-value, response time statistics
// and a per-pair breakdown.
func Summarize(results []abx.Result) (Summary, error) {
	if len(results) == 0 {
		return Summary{}, fmt.Errorf("%w: no results to summarize", abx.ErrInput)
	}

	times := lo.Map(results, func(r abx.Result, _ int) float64 { return r.Elapsed.Seconds() })
	clicks := lo.Map(results, func(r abx.Result, _ int) float64 { return float64(r.Clicks) })

	mean, err := stats.Mean(times)
	if err != nil {
		return Summary{}, fmt.Errorf("mean time: %w", err)
	}
	median, err := stats.Median(times)
	if err != nil {
		return Summary{}, fmt.Errorf("median time: %w", err)
	}
	stdDev, err := stats.StandardDeviation(times)
	if err != nil {
		return Summary{}, fmt.Errorf("time deviation: %w", err)
	}
	meanClicks, err := stats.Mean(clicks)
	if err != nil {
		return Summary{}, fmt.Errorf("mean clicks: %w", err)
	}

	correct := len(lo.Filter(results, func(r abx.Result, _ int) bool { return r.Correct }))
	refOnA := len(lo.Filter(results, func(r abx.Result, _ int) bool { return r.RefSide() == abx.SideA }))

	summary := Summary{
		Trials:     len(results),
		Correct:    correct,
		Proportion: float64(correct) / float64(len(results)),
		PValue:     PValue(correct, len(results)),
		RefOnA:     refOnA,
		MeanTime:   mean,
		MedianTime: median,
		StdDevTime: stdDev,
		MeanClicks: meanClicks,
	}

	byPair := lo.GroupBy(results, func(r abx.Result) string { return r.Group + "\x00" + r.ID })
	keys := lo.Keys(byPair)
	sort.Strings(keys)
	for _, key := range keys {
		rows := byPair[key]
		first := rows[0]
		pairCorrect := len(lo.Filter(rows, func(r abx.Result, _ int) bool { return r.Correct }))
		names := []string{filepath.Base(first.A), filepath.Base(first.B)}
		sort.Strings(names)
		summary.Pairs = append(summary.Pairs, PairSummary{
			ID:         first.ID,
			Group:      first.Group,
			Stimuli:    names[0] + " / " + names[1],
			Trials:     len(rows),
			Correct:    pairCorrect,
			Proportion: float64(pairCorrect) / float64(len(rows)),
			PValue:     PValue(pairCorrect, len(rows)),
		})
	}
	return summary, nil
}
