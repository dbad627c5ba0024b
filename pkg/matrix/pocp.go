package matrix

import (
	"github.com/yumyai/pangene/pkg/model"
)

// POCP is the percent-conserved-proteins table. For every unordered species
// pair the shared counter accumulates count_i+count_j over all clusters
// containing both, so the final cell is a percentage of the SUM of the two
// genomes' totals, not of their union.
type POCP struct {
	Species []string
	shared  [][]int
	totals  []int
}

func BuildPOCP(cs *model.ClusterSet, species []*model.Species) *POCP {

	n := len(species)
	p := &POCP{
		Species: make([]string, n),
		shared:  make([][]int, n),
		totals:  make([]int, n),
	}
	for i, sp := range species {
		p.Species[i] = sp.ID
		p.totals[i] = sp.GeneCount
		p.shared[i] = make([]int, n)
	}

	for _, cluster := range cs.Clusters {
		for i := 0; i < n; i++ {
			ci := cluster.Count(species[i].ID)
			if ci == 0 {
				continue
			}
			for j := i + 1; j < n; j++ {
				cj := cluster.Count(species[j].ID)
				if cj == 0 {
					continue
				}
				p.shared[i][j] += ci + cj
				p.shared[j][i] += ci + cj
			}
		}
	}

	return p
}

// Cell returns the POCP percentage for a species pair. The second return is
// false when the pair shares no cluster (rendered as NA). The diagonal is
// always 100.
func (p *POCP) Cell(i, j int) (float64, bool) {
	if i == j {
		return 100, true
	}
	if p.shared[i][j] == 0 {
		return 0, false
	}
	total := p.totals[i] + p.totals[j]
	if total == 0 {
		return 0, false
	}
	return 100 * float64(p.shared[i][j]) / float64(total), true
}

func (p *POCP) Len() int {
	return len(p.Species)
}
