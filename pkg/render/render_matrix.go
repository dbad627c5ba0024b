// Flat tabular serialization of the matrices. Formatting only; all the
// numbers are produced elsewhere.

package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yumyai/pangene/pkg/matrix"
	"github.com/yumyai/pangene/pkg/model"
)

// ClusterList writes the one-line-per-cluster summary: id, gene count,
// taxon count and the per-species FASTA filenames the cluster draws from.
func ClusterList(w io.Writer, cs *model.ClusterSet, species []*model.Species) error {

	if _, err := fmt.Fprintln(w, "cluster_id\tgenes\ttaxa\tfiles"); err != nil {
		return err
	}

	for _, c := range cs.Clusters {
		var files []string
		for _, sp := range species {
			if c.Has(sp.ID) {
				files = append(files, sp.ID+".fa")
			}
		}
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			c.ID, c.GeneCount(), c.TaxonCount(), strings.Join(files, ","))
		if err != nil {
			return err
		}
	}
	return nil
}

// POCPMatrix writes the species x species percentage table. Undefined pairs
// render as NA.
func POCPMatrix(w io.Writer, p *matrix.POCP) error {

	if _, err := fmt.Fprintf(w, "species\t%s\n", strings.Join(p.Species, "\t")); err != nil {
		return err
	}

	cells := make([]string, p.Len())
	for i := 0; i < p.Len(); i++ {
		for j := 0; j < p.Len(); j++ {
			v, ok := p.Cell(i, j)
			if !ok {
				cells[j] = "NA"
				continue
			}
			cells[j] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", p.Species[i], strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// CountMatrix writes the presence/count pan-genome matrix, one row per
// cluster.
func CountMatrix(w io.Writer, t *matrix.PanTables) error {

	if _, err := fmt.Fprintf(w, "cluster_id\t%s\n", strings.Join(t.Species, "\t")); err != nil {
		return err
	}
	for i, id := range t.ClusterIDs {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", id, joinInts(t.Counts[i])); err != nil {
			return err
		}
	}
	return nil
}

// CountMatrixT writes the transpose: one row per species.
func CountMatrixT(w io.Writer, t *matrix.PanTables) error {

	if _, err := fmt.Fprintf(w, "species\t%s\n", strings.Join(t.ClusterIDs, "\t")); err != nil {
		return err
	}
	for j, sp := range t.Species {
		col := make([]string, len(t.Counts))
		for i := range t.Counts {
			col[i] = strconv.Itoa(t.Counts[i][j])
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", sp, strings.Join(col, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// GeneMatrix writes the gene-membership matrix, one row per cluster.
func GeneMatrix(w io.Writer, t *matrix.PanTables) error {

	if _, err := fmt.Fprintf(w, "cluster_id\t%s\n", strings.Join(t.Species, "\t")); err != nil {
		return err
	}
	for i, id := range t.ClusterIDs {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", id, strings.Join(t.Members[i], "\t")); err != nil {
			return err
		}
	}
	return nil
}

// GeneMatrixT writes the transpose: one row per species.
func GeneMatrixT(w io.Writer, t *matrix.PanTables) error {

	if _, err := fmt.Fprintf(w, "species\t%s\n", strings.Join(t.ClusterIDs, "\t")); err != nil {
		return err
	}
	for j, sp := range t.Species {
		col := make([]string, len(t.Members))
		for i := range t.Members {
			col[i] = t.Members[i][j]
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", sp, strings.Join(col, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// BinaryFasta writes one pseudo-FASTA record per species whose sequence is
// the cluster presence flags in cluster order.
func BinaryFasta(w io.Writer, t *matrix.PanTables) error {

	for j, sp := range t.Species {
		if _, err := fmt.Fprintf(w, ">%s\n%s\n", sp, t.BinaryString(j)); err != nil {
			return err
		}
	}
	return nil
}

func joinInts(row []int) string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = strconv.Itoa(v)
	}
	return strings.Join(cells, "\t")
}
