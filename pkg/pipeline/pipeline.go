// Pipeline glue: wires the input collaborator, the clustering pass, the
// matrix builders and the composition sampler, then emits the flat tables.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yumyai/pangene/internal/util"
	"github.com/yumyai/pangene/logger"
	"github.com/yumyai/pangene/pkg/compara"
	"github.com/yumyai/pangene/pkg/matrix"
	"github.com/yumyai/pangene/pkg/model"
	"github.com/yumyai/pangene/pkg/render"
	"github.com/yumyai/pangene/pkg/sampler"
	"go.uber.org/zap"
)

type Config struct {
	SpeciesList string // selected species file, reference first
	HomologyDir string // per-species homology dumps
	GeneTable   string // sqlite gene inventory
	OutDir      string

	MinGOC             float64
	MinWGA             float64
	AllowLowConfidence bool

	Samples    int
	Seed       int64
	SoftCore   float64
	FixedOrder []string
}

type Pipeline struct {
	ID  string
	cfg Config
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		ID:  "run-" + uuid.New().String(),
		cfg: cfg,
	}
}

func (p *Pipeline) Run() error {

	logger.Info("Pipeline start", zap.String("run", p.ID))

	ids, err := compara.ReadSpeciesList(p.cfg.SpeciesList)
	if err != nil {
		return err
	}
	logger.Info("Selected species loaded",
		zap.String("run", p.ID),
		zap.Int("species", len(ids)),
		zap.String("reference", ids[0]))

	species, genes, err := p.loadInventory(ids)
	if err != nil {
		return err
	}

	cs, err := p.clusterAll(species, genes)
	if err != nil {
		return err
	}
	logger.Info("Clustering done",
		zap.String("run", p.ID),
		zap.Int("clusters", cs.Len()),
		zap.Int("genes", len(cs.Index)))

	tables := matrix.BuildPanTables(cs, species)
	pocp := matrix.BuildPOCP(cs, species)
	logger.Info("Matrices built",
		zap.String("run", p.ID),
		zap.Int("core_clusters", tables.Core))

	res, err := sampler.Run(cs, species, sampler.Config{
		Samples:    p.cfg.Samples,
		Seed:       p.cfg.Seed,
		FixedOrder: p.cfg.FixedOrder,
		SoftCore:   p.cfg.SoftCore,
	})
	if err != nil {
		return fmt.Errorf("composition sampling: %w", err)
	}

	if err := p.emit(cs, species, tables, pocp, res); err != nil {
		return err
	}

	logger.Info("Pipeline done", zap.String("run", p.ID), zap.String("out", p.cfg.OutDir))
	return nil
}

// loadInventory resolves every selected species against the gene table.
// A species without genes is a configuration error, not sparse data.
func (p *Pipeline) loadInventory(ids []string) ([]*model.Species, map[string][]string, error) {

	gt, err := compara.OpenGeneTable(p.cfg.GeneTable)
	if err != nil {
		return nil, nil, err
	}
	defer gt.Close()

	names, err := gt.Genomes()
	if err != nil {
		return nil, nil, err
	}

	species := make([]*model.Species, 0, len(ids))
	genes := make(map[string][]string, len(ids))

	for i, id := range ids {
		list, err := gt.Genes(id)
		if err != nil {
			return nil, nil, err
		}
		if len(list) == 0 {
			return nil, nil, fmt.Errorf("species %s is not in the gene inventory %s", id, p.cfg.GeneTable)
		}
		species = append(species, &model.Species{
			ID:        id,
			FullName:  names[id],
			GeneCount: len(list),
			Position:  i,
		})
		genes[id] = list
	}

	return species, genes, nil
}

// clusterAll streams every species' homology dump through the filter into
// the cluster builder (species in list order, file order within), then
// completes the partition with singletons.
func (p *Pipeline) clusterAll(species []*model.Species, genes map[string][]string) (*model.ClusterSet, error) {

	selected := make(map[string]bool, len(species))
	for _, sp := range species {
		selected[sp.ID] = true
	}
	filter := &model.FilterConfig{
		Selected:           selected,
		MinGOC:             p.cfg.MinGOC,
		MinWGA:             p.cfg.MinWGA,
		AllowLowConfidence: p.cfg.AllowLowConfidence,
	}

	builder := model.NewClusterBuilder()

	for _, sp := range species {
		rc, err := compara.OpenHomologyFile(p.cfg.HomologyDir, sp.ID)
		if errors.Is(err, compara.ErrNoHomologyFile) {
			// Every gene of this species will fall out as a singleton.
			logger.Warn("No homology dump, species contributes singletons only",
				zap.String("run", p.ID), zap.String("species", sp.ID))
			continue
		}
		if err != nil {
			return nil, err
		}

		accepted := 0
		parsed, skipped, err := compara.ReadHomologies(rc, func(rec *model.HomologyRecord) {
			if !filter.Accept(rec) {
				return
			}
			src := rec.Species
			if src == "" {
				src = sp.ID
			}
			builder.Add(rec.GeneID, src, rec.HomGeneID, rec.HomSpecies)
			accepted++
		})
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("species %s: %w", sp.ID, err)
		}

		logger.Info("Homology dump processed",
			zap.String("run", p.ID),
			zap.String("species", sp.ID),
			zap.Int("rows", parsed),
			zap.Int("skipped", skipped),
			zap.Int("accepted", accepted))
	}

	for _, sp := range species {
		builder.AddSingletons(sp.ID, genes[sp.ID])
	}

	return builder.Build(), nil
}

func (p *Pipeline) emit(cs *model.ClusterSet, species []*model.Species, tables *matrix.PanTables, pocp *matrix.POCP, res *sampler.Result) error {

	if err := util.EnsureDir(p.cfg.OutDir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"cluster_list.tsv", func(w io.Writer) error { return render.ClusterList(w, cs, species) }},
		{"pocp_matrix.tsv", func(w io.Writer) error { return render.POCPMatrix(w, pocp) }},
		{"pangenome_matrix.tsv", func(w io.Writer) error { return render.CountMatrix(w, tables) }},
		{"pangenome_matrix_t.tsv", func(w io.Writer) error { return render.CountMatrixT(w, tables) }},
		{"gene_matrix.tsv", func(w io.Writer) error { return render.GeneMatrix(w, tables) }},
		{"gene_matrix_t.tsv", func(w io.Writer) error { return render.GeneMatrixT(w, tables) }},
		{"binary_presence.fasta", func(w io.Writer) error { return render.BinaryFasta(w, tables) }},
		{"pangenome_boxplot.tsv", func(w io.Writer) error { return render.BoxplotTable(w, res.Pan) }},
		{"coregenome_boxplot.tsv", func(w io.Writer) error { return render.BoxplotTable(w, res.Core) }},
		{"composition_summary.tsv", func(w io.Writer) error { return render.CompositionSummary(w, res) }},
	}
	if res.Soft != nil {
		outputs = append(outputs, struct {
			name  string
			write func(io.Writer) error
		}{"softcore_boxplot.tsv", func(w io.Writer) error { return render.BoxplotTable(w, res.Soft) }})
	}

	for _, out := range outputs {
		if err := writeFile(filepath.Join(p.cfg.OutDir, out.name), out.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
