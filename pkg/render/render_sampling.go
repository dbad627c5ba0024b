package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yumyai/pangene/pkg/sampler"
)

// BoxplotTable writes one row per sample trajectory under a header of
// genome counts (1..S). Feed it the pan, core, or soft-core trajectories.
func BoxplotTable(w io.Writer, trajectories [][]int) error {

	if len(trajectories) == 0 {
		return fmt.Errorf("no trajectories to write")
	}

	steps := len(trajectories[0])
	header := make([]string, steps)
	for t := 0; t < steps; t++ {
		header[t] = strconv.Itoa(t + 1)
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, traj := range trajectories {
		if _, err := fmt.Fprintln(w, joinInts(traj)); err != nil {
			return err
		}
	}
	return nil
}

// CompositionSummary writes the per-step aggregate statistics: mean and
// population standard deviation for pan and core (and soft-core when the
// sampler tracked it).
func CompositionSummary(w io.Writer, res *sampler.Result) error {

	soft := res.SoftMean != nil

	header := "genomes\tpan_mean\tpan_sd\tcore_mean\tcore_sd"
	if soft {
		header += "\tsoftcore_mean\tsoftcore_sd"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for t := range res.PanMean {
		row := fmt.Sprintf("%d\t%s\t%s\t%s\t%s",
			t+1,
			formatStat(res.PanMean[t]), formatStat(res.PanSD[t]),
			formatStat(res.CoreMean[t]), formatStat(res.CoreSD[t]))
		if soft {
			row += fmt.Sprintf("\t%s\t%s", formatStat(res.SoftMean[t]), formatStat(res.SoftSD[t]))
		}
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
