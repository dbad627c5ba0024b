// Flat-file side of the data-fetch pipeline: per-species Compara homology
// dumps, plain or gzipped TSV with a header row.

package compara

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yumyai/pangene/logger"
	"github.com/yumyai/pangene/pkg/model"
	"go.uber.org/zap"
)

var ErrNoHomologyFile = errors.New("no homology dump for species")

// Columns a dump must carry for a row to be usable at all.
var requiredColumns = []string{
	"gene_stable_id",
	"homology_gene_stable_id",
	"homology_species",
	"homology_type",
}

// OpenHomologyFile finds <dir>/<species>.homologies.tsv[.gz] and returns a
// reader over the decoded content.
func OpenHomologyFile(dir, speciesID string) (io.ReadCloser, error) {

	gzPath := filepath.Join(dir, speciesID+".homologies.tsv.gz")
	if _, err := os.Stat(gzPath); err == nil {
		f, err := os.Open(gzPath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", gzPath, err)
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gunzip %s: %w", gzPath, err)
		}
		return &gzipFile{gz: gz, file: f}, nil
	}

	tsvPath := filepath.Join(dir, speciesID+".homologies.tsv")
	f, err := os.Open(tsvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHomologyFile, speciesID)
	}
	return f, nil
}

type gzipFile struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipFile) Close() error {
	if err := g.gz.Close(); err != nil {
		g.file.Close()
		return err
	}
	return g.file.Close()
}

// ReadHomologies streams every usable record of one dump to fn, in file
// order. Malformed rows are skipped with a diagnostic; the pass never
// aborts on a single bad row. Returns how many rows were passed on and how
// many were skipped.
func ReadHomologies(r io.Reader, fn func(*model.HomologyRecord)) (parsed, skipped int, err error) {

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, 0, fmt.Errorf("read homology header: %w", err)
		}
		return 0, 0, errors.New("homology dump is empty")
	}

	cols := make(map[string]int)
	header := strings.Split(scanner.Text(), "\t")
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return 0, 0, fmt.Errorf("homology dump is missing column %q", name)
		}
	}

	lineno := 1
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			logger.Warn("Skipping malformed homology row",
				zap.Int("line", lineno), zap.Int("fields", len(fields)))
			skipped++
			continue
		}

		rec := &model.HomologyRecord{
			GeneID:         field(fields, cols, "gene_stable_id"),
			ProteinID:      field(fields, cols, "protein_stable_id"),
			Species:        field(fields, cols, "species"),
			Identity:       floatField(fields, cols, "identity"),
			HomologyType:   field(fields, cols, "homology_type"),
			HomGeneID:      field(fields, cols, "homology_gene_stable_id"),
			HomProteinID:   field(fields, cols, "homology_protein_stable_id"),
			HomSpecies:     field(fields, cols, "homology_species"),
			HomIdentity:    floatField(fields, cols, "homology_identity"),
			DN:             floatField(fields, cols, "dn"),
			DS:             floatField(fields, cols, "ds"),
			GOCScore:       floatField(fields, cols, "goc_score"),
			WGACoverage:    floatField(fields, cols, "wga_coverage"),
			HighConfidence: confidenceField(fields, cols, "is_high_confidence"),
			HomologyID:     field(fields, cols, "homology_id"),
		}

		if rec.GeneID == "" || rec.HomGeneID == "" || rec.HomSpecies == "" || rec.HomologyType == "" {
			logger.Warn("Skipping homology row with missing required field",
				zap.Int("line", lineno))
			skipped++
			continue
		}

		fn(rec)
		parsed++
	}

	if err := scanner.Err(); err != nil {
		return parsed, skipped, fmt.Errorf("read homology dump: %w", err)
	}
	return parsed, skipped, nil
}

func field(fields []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(fields) {
		return ""
	}
	v := fields[i]
	if v == "NULL" {
		return ""
	}
	return v
}

// floatField parses a numeric cell, NaN when the dump has NULL or junk.
func floatField(fields []string, cols map[string]int, name string) float64 {
	v := field(fields, cols, name)
	if v == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func confidenceField(fields []string, cols map[string]int, name string) int {
	switch field(fields, cols, name) {
	case "1":
		return 1
	case "0":
		return 0
	default:
		return -1
	}
}
