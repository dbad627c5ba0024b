// Gene inventory access. The fetch pipeline maintains a sqlite gene table
// (genome_info, gene_info); this side only ever reads it.

package compara

import (
	"context"
	"database/sql"
	"fmt"
)

type GeneTable struct {
	db *sql.DB
}

// OpenGeneTable opens the sqlite gene table. The sqlite driver must be
// registered by the caller (blank import of modernc.org/sqlite).
func OpenGeneTable(path string) (*GeneTable, error) {

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open gene table %s: %w", path, err)
	}

	return &GeneTable{db: db}, nil
}

// NewGeneTable wraps an already opened database (used by tests).
func NewGeneTable(db *sql.DB) *GeneTable {
	return &GeneTable{db: db}
}

func (g *GeneTable) Close() error {
	return g.db.Close()
}

// Genomes returns the id -> full name map of every genome in the inventory.
func (g *GeneTable) Genomes() (map[string]string, error) {

	ctx := context.TODO()

	rows, err := g.db.QueryContext(ctx, `select genome_id, genome_fullname from genome_info`)
	if err != nil {
		return nil, fmt.Errorf("query genome_info: %w", err)
	}
	defer rows.Close()

	results := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan genome_info row: %w", err)
		}
		results[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("genome_info rows: %w", err)
	}

	return results, nil
}

// Genes returns the full gene identifier list of one genome, in insertion
// order. The order matters: it is the order singletons are created in.
func (g *GeneTable) Genes(genomeID string) ([]string, error) {

	ctx := context.TODO()

	stm, err := g.db.PrepareContext(ctx, `select gene_id from gene_info where genome_id == ? order by rowid`)
	if err != nil {
		return nil, fmt.Errorf("prepare gene_info query: %w", err)
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, genomeID)
	if err != nil {
		return nil, fmt.Errorf("query gene_info for %s: %w", genomeID, err)
	}
	defer rows.Close()

	var genes []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan gene_info row: %w", err)
		}
		genes = append(genes, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gene_info rows for %s: %w", genomeID, err)
	}

	return genes, nil
}
