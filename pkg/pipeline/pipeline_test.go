package pipeline

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const homologyHeader = "gene_stable_id\tprotein_stable_id\tspecies\tidentity\thomology_type\t" +
	"homology_gene_stable_id\thomology_protein_stable_id\thomology_species\thomology_identity\t" +
	"dn\tds\tgoc_score\twga_coverage\tis_high_confidence\thomology_id"

func homologyRow(gene, sp, homGene, homSp, id string) string {
	return strings.Join([]string{
		gene, gene + ".p", sp, "90", "ortholog_one2one",
		homGene, homGene + ".p", homSp, "88",
		"0.1", "0.5", "75", "80", "1", id,
	}, "\t")
}

func writeTestInputs(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "gene_table.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE genome_info (genome_id TEXT, genome_fullname TEXT);
		CREATE TABLE gene_info (genome_id TEXT, gene_id TEXT);
	`)
	require.NoError(t, err)
	inventory := map[string][]string{
		"A": {"A1", "A2", "A3", "A4"},
		"B": {"B1", "B2", "B3"},
		"C": {"C1", "C2"},
	}
	for sp, genes := range inventory {
		_, err = db.Exec(`INSERT INTO genome_info (genome_id, genome_fullname) VALUES (?, ?)`, sp, "Species "+sp)
		require.NoError(t, err)
		for _, g := range genes {
			_, err = db.Exec(`INSERT INTO gene_info (genome_id, gene_id) VALUES (?, ?)`, sp, g)
			require.NoError(t, err)
		}
	}
	require.NoError(t, db.Close())

	speciesPath := filepath.Join(dir, "species.txt")
	require.NoError(t, os.WriteFile(speciesPath, []byte("A\nB\nC\n"), 0o644))

	homDir := filepath.Join(dir, "homologies")
	require.NoError(t, os.Mkdir(homDir, 0o755))

	dumpA := strings.Join([]string{
		homologyHeader,
		homologyRow("A1", "A", "B1", "B", "1"),
		homologyRow("A2", "A", "B2", "B", "2"),
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(homDir, "A.homologies.tsv"), []byte(dumpA), 0o644))

	dumpB := strings.Join([]string{
		homologyHeader,
		homologyRow("B1", "B", "C1", "C", "3"),
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(homDir, "B.homologies.tsv"), []byte(dumpB), 0o644))

	return Config{
		SpeciesList: speciesPath,
		HomologyDir: homDir,
		GeneTable:   dbPath,
		OutDir:      filepath.Join(dir, "out"),
		FixedOrder:  []string{"A", "B", "C"},
	}
}

func TestPipelineEndToEnd(t *testing.T) {

	cfg := writeTestInputs(t)
	p := New(cfg)
	require.NoError(t, p.Run())

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(cfg.OutDir, name))
		require.NoError(t, err)
		return string(data)
	}

	clusters := strings.Split(strings.TrimRight(read("cluster_list.tsv"), "\n"), "\n")
	require.Len(t, clusters, 7, "header plus six clusters")
	require.Equal(t, "A1\t3\t3\tA.fa,B.fa,C.fa", clusters[1])

	require.Contains(t, read("pocp_matrix.tsv"), "A\t100.00\t57.14\t33.33")

	require.Equal(t, "1\t2\t3\n4\t5\t6\n", read("pangenome_boxplot.tsv"))
	require.Equal(t, "1\t2\t3\n4\t2\t1\n", read("coregenome_boxplot.tsv"))

	require.Contains(t, read("binary_presence.fasta"), ">A\n111100\n")

	// No soft-core fraction configured, no soft-core table.
	_, err := os.Stat(filepath.Join(cfg.OutDir, "softcore_boxplot.tsv"))
	require.True(t, os.IsNotExist(err))
}

func TestPipelineMissingSpecies(t *testing.T) {

	cfg := writeTestInputs(t)
	require.NoError(t, os.WriteFile(cfg.SpeciesList, []byte("A\nB\nC\nD\n"), 0o644))

	err := New(cfg).Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "gene inventory")
}

func TestPipelineSoftCoreOutput(t *testing.T) {

	cfg := writeTestInputs(t)
	cfg.SoftCore = 0.5
	require.NoError(t, New(cfg).Run())

	data, err := os.ReadFile(filepath.Join(cfg.OutDir, "softcore_boxplot.tsv"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "1\t2\t3\n"))
}
