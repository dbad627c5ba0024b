package model

import (
	"testing"
)

// The classic three genome example: A has 4 genes, B has 3, C has 2.
// Links A1-B1, B1-C1, A2-B2 give {A1,B1,C1}, {A2,B2} plus singletons.
func buildExampleSet() *ClusterSet {

	b := NewClusterBuilder()
	b.Add("A1", "A", "B1", "B")
	b.Add("B1", "B", "C1", "C")
	b.Add("A2", "A", "B2", "B")

	b.AddSingletons("A", []string{"A1", "A2", "A3", "A4"})
	b.AddSingletons("B", []string{"B1", "B2", "B3"})
	b.AddSingletons("C", []string{"C1", "C2"})

	return b.Build()
}

func TestClusterBuilderExample(t *testing.T) {

	cs := buildExampleSet()

	if cs.Len() != 6 {
		t.Fatalf("expected 6 clusters, got %d", cs.Len())
	}

	first, ok := cs.Get("A1")
	if !ok {
		t.Fatal("cluster A1 missing")
	}
	if first.GeneCount() != 3 || first.TaxonCount() != 3 {
		t.Errorf("cluster A1: got %d genes over %d taxa", first.GeneCount(), first.TaxonCount())
	}
	if !first.Has("C") || first.Genes["C"][0] != "C1" {
		t.Errorf("C1 should have joined cluster A1 via B1")
	}

	second, _ := cs.Get("A2")
	if second.GeneCount() != 2 || second.TaxonCount() != 2 {
		t.Errorf("cluster A2: got %d genes over %d taxa", second.GeneCount(), second.TaxonCount())
	}

	for _, id := range []string{"A3", "A4", "B3", "C2"} {
		c, ok := cs.Get(id)
		if !ok {
			t.Fatalf("singleton %s missing", id)
		}
		if c.GeneCount() != 1 {
			t.Errorf("singleton %s has %d genes", id, c.GeneCount())
		}
	}
}

// Every gene ends up in exactly one cluster, no duplicates, no omissions.
func TestPartitionInvariant(t *testing.T) {

	cs := buildExampleSet()

	all := []string{"A1", "A2", "A3", "A4", "B1", "B2", "B3", "C1", "C2"}
	if len(cs.Index) != len(all) {
		t.Fatalf("index has %d genes, want %d", len(cs.Index), len(all))
	}

	seen := make(map[string]string)
	for _, c := range cs.Clusters {
		for _, genes := range c.Genes {
			for _, g := range genes {
				if prev, dup := seen[g]; dup {
					t.Fatalf("gene %s in clusters %s and %s", g, prev, c.ID)
				}
				seen[g] = c.ID
			}
		}
	}
	for _, g := range all {
		if _, ok := seen[g]; !ok {
			t.Errorf("gene %s missing from every cluster", g)
		}
	}
}

// A relation whose genes already sit in two different clusters is dropped,
// never merged.
func TestNoCrossClusterMerge(t *testing.T) {

	b := NewClusterBuilder()
	b.Add("A1", "A", "B1", "B")
	b.Add("A2", "A", "B2", "B")
	// A1 and A2 are now in different clusters; this must not merge them.
	b.Add("A1", "A", "A2", "A")

	if b.Dropped() != 1 {
		t.Errorf("expected 1 dropped relation, got %d", b.Dropped())
	}

	cs := b.Build()
	if cs.Len() != 2 {
		t.Fatalf("expected 2 clusters after drop, got %d", cs.Len())
	}
	if cs.Index["A2"] != "A2" {
		t.Errorf("A2 moved cluster: %s", cs.Index["A2"])
	}
}

// An unclustered gene adopts the cluster of an already placed partner.
func TestAdoptPartnerCluster(t *testing.T) {

	b := NewClusterBuilder()
	b.Add("A1", "A", "B1", "B")
	b.Add("C1", "C", "B1", "B")

	cs := b.Build()
	if cs.Len() != 1 {
		t.Fatalf("expected a single cluster, got %d", cs.Len())
	}
	if cs.Index["C1"] != "A1" {
		t.Errorf("C1 should have adopted cluster A1, got %s", cs.Index["C1"])
	}
}

func TestSingletonCompleteness(t *testing.T) {

	b := NewClusterBuilder()
	b.AddSingletons("X", []string{"X1", "X2"})
	cs := b.Build()

	if cs.Len() != 2 {
		t.Fatalf("expected 2 singleton clusters, got %d", cs.Len())
	}
	if cs.Index["X1"] != "X1" || cs.Index["X2"] != "X2" {
		t.Errorf("singleton cluster id should equal the gene id")
	}
}

func TestInParalogues(t *testing.T) {

	b := NewClusterBuilder()
	b.Add("A1", "A", "B1", "B")
	b.Add("A1", "A", "A5", "A") // within-species duplicate joins the cluster

	cs := b.Build()
	c, _ := cs.Get("A1")
	if c.InParalogues("A") != 1 {
		t.Errorf("expected 1 in-paralogue for A, got %d", c.InParalogues("A"))
	}
	if c.InParalogues("B") != 0 {
		t.Errorf("expected 0 in-paralogues for B, got %d", c.InParalogues("B"))
	}
}

// Creation order of clusters is stable for deterministic output.
func TestCreationOrder(t *testing.T) {

	cs := buildExampleSet()

	want := []string{"A1", "A2", "A3", "A4", "B3", "C2"}
	for i, c := range cs.Clusters {
		if c.ID != want[i] {
			t.Fatalf("cluster %d: got %s, want %s", i, c.ID, want[i])
		}
	}
}
