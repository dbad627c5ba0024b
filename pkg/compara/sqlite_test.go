package compara

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func testGeneTable(t *testing.T) *GeneTable {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE genome_info (genome_id TEXT, genome_fullname TEXT);
		CREATE TABLE gene_info (genome_id TEXT, gene_id TEXT);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}

	rows := [][2]string{
		{"speciesA", "A1"},
		{"speciesA", "A2"},
		{"speciesB", "B1"},
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO gene_info (genome_id, gene_id) VALUES (?, ?)`, r[0], r[1]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.Exec(`INSERT INTO genome_info (genome_id, genome_fullname) VALUES
		('speciesA', 'Species alpha'), ('speciesB', 'Species beta')`); err != nil {
		t.Fatal(err)
	}

	return NewGeneTable(db)
}

func TestGenomes(t *testing.T) {

	gt := testGeneTable(t)

	genomes, err := gt.Genomes()
	if err != nil {
		t.Fatal(err)
	}
	if len(genomes) != 2 || genomes["speciesA"] != "Species alpha" {
		t.Errorf("unexpected genome map: %+v", genomes)
	}
}

func TestGenes(t *testing.T) {

	gt := testGeneTable(t)

	genes, err := gt.Genes("speciesA")
	if err != nil {
		t.Fatal(err)
	}
	if len(genes) != 2 || genes[0] != "A1" || genes[1] != "A2" {
		t.Errorf("unexpected gene list: %v", genes)
	}

	empty, err := gt.Genes("speciesZ")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown genome should have no genes, got %v", empty)
	}
}

func TestReadSpeciesList(t *testing.T) {

	path := filepath.Join(t.TempDir(), "species.txt")
	content := "# reference first\nspeciesA\n\nspeciesB\nspeciesA\nspeciesC\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := ReadSpeciesList(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"speciesA", "speciesB", "speciesC"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}
