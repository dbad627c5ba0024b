package model

// Species is one genome in the analysis. Built once from the selected
// species list and never mutated afterward.
type Species struct {
	ID        string
	FullName  string
	GeneCount int // total genes/isoforms reported by the gene inventory
	Position  int // index in the selected-species ordering
}

// HomologyRecord is one row of a Compara-style homology dump. Records are
// consumed one at a time and never retained.
//
// GOCScore and WGACoverage are NaN when the dump has NULL for them.
// HighConfidence is 1, 0, or -1 when missing.
type HomologyRecord struct {
	GeneID         string
	ProteinID      string
	Species        string
	Identity       float64
	HomologyType   string
	HomGeneID      string
	HomProteinID   string
	HomSpecies     string
	HomIdentity    float64
	DN             float64
	DS             float64
	GOCScore       float64
	WGACoverage    float64
	HighConfidence int
	HomologyID     string
}

// Cluster is one putative orthogroup. The ID is the identifier of the gene
// that first created it. Genes maps species id -> member genes in arrival
// order. Append-only during the clustering pass, read-only afterward.
type Cluster struct {
	ID    string
	Genes map[string][]string
}

// GeneCount is the number of genes in the cluster across all species.
func (c *Cluster) GeneCount() int {
	n := 0
	for _, genes := range c.Genes {
		n += len(genes)
	}
	return n
}

// TaxonCount is the number of species with at least one gene in the cluster.
func (c *Cluster) TaxonCount() int {
	return len(c.Genes)
}

func (c *Cluster) Has(speciesID string) bool {
	return len(c.Genes[speciesID]) > 0
}

func (c *Cluster) Count(speciesID string) int {
	return len(c.Genes[speciesID])
}

// InParalogues is the number of within-species duplicates this species
// carries in the cluster: count-1 when it contributed two or more genes.
func (c *Cluster) InParalogues(speciesID string) int {
	n := len(c.Genes[speciesID])
	if n < 2 {
		return 0
	}
	return n - 1
}

// ClusterSet is the frozen cluster table: creation-ordered clusters plus the
// gene -> cluster index. Output of the builder, input to matrices and the
// composition sampler.
type ClusterSet struct {
	Clusters []*Cluster
	byID     map[string]*Cluster
	Index    map[string]string
}

func (cs *ClusterSet) Get(clusterID string) (*Cluster, bool) {
	c, ok := cs.byID[clusterID]
	return c, ok
}

func (cs *ClusterSet) Len() int {
	return len(cs.Clusters)
}
