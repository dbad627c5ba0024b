// Composition sampler: estimates pan- and core-genome size as genomes are
// added in random order, with in-paralogue correction and an optional
// soft-core threshold.

package sampler

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/yumyai/pangene/logger"
	"github.com/yumyai/pangene/pkg/model"
	"go.uber.org/zap"
)

type Config struct {
	Samples    int
	Seed       int64
	FixedOrder []string // bypasses randomization and forces one sample
	SoftCore   float64  // fraction in (0,1]; 0 disables soft-core tracking
}

// Result holds the raw per-sample trajectories (sample x step) and the
// per-step aggregates across samples.
type Result struct {
	Orders [][]string
	Pan    [][]int
	Core   [][]int
	Soft   [][]int // nil when soft-core is disabled

	PanMean, PanSD   []float64
	CoreMean, CoreSD []float64
	SoftMean, SoftSD []float64
}

// cluster membership reduced to what the sampler consults: gene count per
// species index.
type clusterCounts []int

func Run(cs *model.ClusterSet, species []*model.Species, cfg Config) (*Result, error) {

	n := len(species)
	if n == 0 {
		return nil, fmt.Errorf("sampler needs at least one species")
	}
	if cfg.SoftCore < 0 || cfg.SoftCore > 1 {
		return nil, fmt.Errorf("soft-core fraction %v out of (0,1]", cfg.SoftCore)
	}

	pos := make(map[string]int, n)
	geneCount := make([]int, n)
	for i, sp := range species {
		pos[sp.ID] = i
		geneCount[i] = sp.GeneCount
	}

	// Freeze cluster membership as per-species gene counts, and derive each
	// species' total in-paralogue count from cluster multiplicity.
	clusters := make([]clusterCounts, 0, cs.Len())
	inParalogues := make([]int, n)
	for _, c := range cs.Clusters {
		counts := make(clusterCounts, n)
		for sp, genes := range c.Genes {
			i, ok := pos[sp]
			if !ok {
				return nil, fmt.Errorf("cluster %s references unknown species %s", c.ID, sp)
			}
			counts[i] = len(genes)
			if len(genes) > 1 {
				inParalogues[i] += len(genes) - 1
			}
		}
		clusters = append(clusters, counts)
	}

	orders, err := drawOrders(species, pos, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	soft := cfg.SoftCore > 0

	for _, order := range orders {
		pan, core, softCore := replay(order, clusters, geneCount, inParalogues, cfg.SoftCore)
		res.Orders = append(res.Orders, orderIDs(order, species))
		res.Pan = append(res.Pan, pan)
		res.Core = append(res.Core, core)
		if soft {
			res.Soft = append(res.Soft, softCore)
		}
	}

	if err := res.aggregate(n, soft); err != nil {
		return nil, err
	}
	return res, nil
}

// replay walks one permutation (species indices) and computes the per-step
// trajectories by scanning the cluster table.
func replay(order []int, clusters []clusterCounts, geneCount, inParalogues []int, softFrac float64) (pan, core, soft []int) {

	n := len(order)
	pan = make([]int, n)
	core = make([]int, n)
	panInc := make([]int, n)

	trackSoft := softFrac > 0
	var softThresh []int
	if trackSoft {
		soft = make([]int, n)
		softThresh = make([]int, n)
		for t := 0; t < n; t++ {
			softThresh[t] = int(math.Ceil(float64(t+1) * softFrac))
		}
	}

	for _, counts := range clusters {
		present := 0
		refPresent := counts[order[0]] > 0
		for t := 0; t < n; t++ {
			before := present
			here := counts[order[t]] > 0
			if here {
				present++
			}
			if t == 0 {
				continue // step 0 is seeded from the gene totals below
			}
			// Core: reference plus every genome added so far.
			if refPresent && present == t+1 {
				core[t]++
			}
			if trackSoft && present >= softThresh[t] {
				soft[t]++
			}
			// New pan genes: the added species is here and nothing before
			// it was; the cluster contributes its one non-in-paralogue.
			if here && before == 0 {
				panInc[t]++
			}
		}
	}

	first := order[0]
	seed := geneCount[first] - inParalogues[first]
	pan[0] = seed
	core[0] = seed
	if trackSoft {
		soft[0] = seed
	}
	for t := 1; t < n; t++ {
		pan[t] = pan[t-1] + panInc[t]
	}
	return pan, core, soft
}

// drawOrders produces the permutations to replay: the fixed order verbatim,
// or N distinct uniform shuffles (capped at the permutation space).
func drawOrders(species []*model.Species, pos map[string]int, cfg Config) ([][]int, error) {

	n := len(species)

	if len(cfg.FixedOrder) > 0 {
		if len(cfg.FixedOrder) != n {
			return nil, fmt.Errorf("fixed order names %d species, analysis has %d", len(cfg.FixedOrder), n)
		}
		order := make([]int, n)
		seen := make(map[int]bool, n)
		for i, id := range cfg.FixedOrder {
			p, ok := pos[id]
			if !ok {
				return nil, fmt.Errorf("fixed order species %s is not in the selected set", id)
			}
			if seen[p] {
				return nil, fmt.Errorf("fixed order repeats species %s", id)
			}
			seen[p] = true
			order[i] = p
		}
		if cfg.Samples > 1 {
			logger.Warn("Fixed inclusion order forces a single sample",
				zap.Int("requested", cfg.Samples))
		}
		return [][]int{order}, nil
	}

	samples := cfg.Samples
	if samples < 1 {
		samples = 1
	}
	if max, capped := permutationCap(n, samples); capped {
		logger.Warn("Sample count exceeds distinct permutations, capping",
			zap.Int("requested", samples), zap.Int("max", max))
		samples = max
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	used := make(map[string]bool, samples)
	orders := make([][]int, 0, samples)

	for len(orders) < samples {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		key := permKey(order)
		if used[key] {
			continue
		}
		used[key] = true
		orders = append(orders, order)
	}

	return orders, nil
}

// permutationCap clamps the sample count to n! distinct orderings. The
// early stop keeps the factorial from overflowing for large species counts.
func permutationCap(n, requested int) (int, bool) {
	total := 1
	for i := 2; i <= n; i++ {
		total *= i
		if total > requested {
			return requested, false
		}
	}
	if total >= requested {
		return requested, false
	}
	return total, true
}

func permKey(order []int) string {
	var sb strings.Builder
	for i, p := range order {
		if i > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprintf(&sb, "%d", p)
	}
	return sb.String()
}

func orderIDs(order []int, species []*model.Species) []string {
	ids := make([]string, len(order))
	for i, p := range order {
		ids[i] = species[p].ID
	}
	return ids
}

func (r *Result) aggregate(steps int, soft bool) error {

	var err error
	if r.PanMean, r.PanSD, err = summarize(r.Pan, steps); err != nil {
		return fmt.Errorf("aggregate pan trajectories: %w", err)
	}
	if r.CoreMean, r.CoreSD, err = summarize(r.Core, steps); err != nil {
		return fmt.Errorf("aggregate core trajectories: %w", err)
	}
	if soft {
		if r.SoftMean, r.SoftSD, err = summarize(r.Soft, steps); err != nil {
			return fmt.Errorf("aggregate soft-core trajectories: %w", err)
		}
	}
	return nil
}

func summarize(trajectories [][]int, steps int) (mean, sd []float64, err error) {

	mean = make([]float64, steps)
	sd = make([]float64, steps)

	column := make([]float64, len(trajectories))
	for t := 0; t < steps; t++ {
		for s, traj := range trajectories {
			column[s] = float64(traj[t])
		}
		if mean[t], err = stats.Mean(column); err != nil {
			return nil, nil, err
		}
		if sd[t], err = stats.StandardDeviationPopulation(column); err != nil {
			return nil, nil, err
		}
	}
	return mean, sd, nil
}
