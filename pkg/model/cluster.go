package model

import (
	"fmt"

	"github.com/yumyai/pangene/logger"
	"go.uber.org/zap"
)

// ClusterBuilder assigns genes to clusters from an ordered stream of
// accepted homology records. Single pass, single writer; the merge policy
// is deliberately not a union-find: once two clusters exist they are never
// merged, and a record whose partner already sits in a different cluster is
// dropped. Downstream statistics are defined against exactly this
// partition, so do not "fix" it.
type ClusterBuilder struct {
	clusters map[string]*Cluster
	order    []string          // cluster ids in creation order
	index    map[string]string // gene id -> owning cluster id
	dropped  int
}

func NewClusterBuilder() *ClusterBuilder {
	return &ClusterBuilder{
		clusters: make(map[string]*Cluster),
		index:    make(map[string]string),
	}
}

// Add processes one accepted homology record (geneA of speciesA paired
// with geneB of speciesB).
func (b *ClusterBuilder) Add(geneA, speciesA, geneB, speciesB string) {

	cid, clustered := b.index[geneA]

	if !clustered {
		// Adopt the partner's cluster when it has one, otherwise geneA
		// founds a cluster named after itself.
		if partner, ok := b.index[geneB]; ok {
			cid = partner
		} else {
			cid = geneA
		}
		b.place(geneA, speciesA, cid)
	}

	if other, ok := b.index[geneB]; ok {
		if other != cid {
			// Cross-cluster relation; no merge happens.
			b.dropped++
		}
		return
	}

	b.place(geneB, speciesB, cid)
}

// AddSingletons turns every gene of the species that never entered the
// index into its own cluster. Call after all homology records streamed.
func (b *ClusterBuilder) AddSingletons(speciesID string, genes []string) {
	for _, g := range genes {
		if _, ok := b.index[g]; ok {
			continue
		}
		b.place(g, speciesID, g)
	}
}

// Dropped reports how many relations were silently discarded because both
// genes already sat in different clusters.
func (b *ClusterBuilder) Dropped() int {
	return b.dropped
}

// Build freezes the cluster table. The builder must not be used afterward.
func (b *ClusterBuilder) Build() *ClusterSet {

	if b.dropped > 0 {
		logger.Debug("Cross-cluster relations dropped during clustering",
			zap.Int("count", b.dropped))
	}

	ordered := make([]*Cluster, 0, len(b.order))
	for _, cid := range b.order {
		ordered = append(ordered, b.clusters[cid])
	}

	return &ClusterSet{
		Clusters: ordered,
		byID:     b.clusters,
		Index:    b.index,
	}
}

func (b *ClusterBuilder) place(gene, speciesID, cid string) {

	if prev, ok := b.index[gene]; ok {
		// Cannot happen given the rules above; a gene in two clusters
		// breaks every downstream count.
		panic(fmt.Sprintf("gene %s already clustered in %s, refusing %s", gene, prev, cid))
	}

	cluster, ok := b.clusters[cid]
	if !ok {
		cluster = &Cluster{
			ID:    cid,
			Genes: make(map[string][]string),
		}
		b.clusters[cid] = cluster
		b.order = append(b.order, cid)
	}

	b.index[gene] = cid
	cluster.Genes[speciesID] = append(cluster.Genes[speciesID], gene)
}
