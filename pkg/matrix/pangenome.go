// Pan-genome tables derived from the frozen cluster set: per-cluster gene
// counts, gene membership, and binary presence per species.

package matrix

import (
	"strings"

	"github.com/yumyai/pangene/pkg/model"
)

// Sentinel for a species absent from a cluster in the membership table.
const AbsentMark = "-"

// PanTables holds the cluster x species views of the pan-genome. Rows
// follow cluster creation order, columns the selected-species order.
type PanTables struct {
	Species    []string
	ClusterIDs []string
	Counts     [][]int    // genes the species contributed to the cluster
	Members    [][]string // comma-joined gene ids, AbsentMark when absent
	Binary     [][]string // "1"/"0" presence flags
	Core       int        // clusters spanning every selected species
}

// BuildPanTables pivots the cluster set into the three matrices and the
// core-cluster count.
func BuildPanTables(cs *model.ClusterSet, species []*model.Species) *PanTables {

	ids := make([]string, len(species))
	for i, sp := range species {
		ids[i] = sp.ID
	}

	t := &PanTables{
		Species:    ids,
		ClusterIDs: make([]string, 0, cs.Len()),
		Counts:     make([][]int, 0, cs.Len()),
		Members:    make([][]string, 0, cs.Len()),
		Binary:     make([][]string, 0, cs.Len()),
	}

	for _, cluster := range cs.Clusters {

		counts := make([]int, len(ids))
		members := make([]string, len(ids))
		binary := make([]string, len(ids))

		for i, sp := range ids {
			genes := cluster.Genes[sp]
			counts[i] = len(genes)
			if len(genes) == 0 {
				members[i] = AbsentMark
				binary[i] = "0"
				continue
			}
			members[i] = strings.Join(genes, ",")
			binary[i] = "1"
		}

		if cluster.TaxonCount() == len(ids) {
			t.Core++
		}

		t.ClusterIDs = append(t.ClusterIDs, cluster.ID)
		t.Counts = append(t.Counts, counts)
		t.Members = append(t.Members, members)
		t.Binary = append(t.Binary, binary)
	}

	return t
}

// BinaryString is the per-species bit string over all clusters, used as the
// pseudo-FASTA sequence for downstream phylogenetics.
func (t *PanTables) BinaryString(speciesIdx int) string {
	var sb strings.Builder
	sb.Grow(len(t.Binary))
	for _, row := range t.Binary {
		sb.WriteString(row[speciesIdx])
	}
	return sb.String()
}
