package hierarchy

import (
	"sort"
	"strings"

	"github.com/tsawler/prepress/model"
)

// Default clusterer settings.
const (
	DefaultClusters        = 6
	DefaultConfidenceFloor = 0.4
)

// Config holds the clusterer settings.
type Config struct {
	// Clusters is K, the number of structural levels to infer
	// (default 6). Clustering requires K >= 2.
	Clusters int

	// IncludeBBox adds bounding-box width as a clustering feature.
	IncludeBBox bool

	// ConfidenceFloor is the average OCR confidence below which an
	// OCR-only document falls back to a flat structure (default 0.4).
	ConfidenceFloor float64
}

// DefaultConfig returns the clusterer defaults.
func DefaultConfig() Config {
	return Config{
		Clusters:        DefaultClusters,
		IncludeBBox:     false,
		ConfidenceFloor: DefaultConfidenceFloor,
	}
}

func (c Config) withDefaults() Config {
	if c.Clusters == 0 {
		c.Clusters = DefaultClusters
	}
	if c.ConfidenceFloor <= 0 {
		c.ConfidenceFloor = DefaultConfidenceFloor
	}
	return c
}

// Node is a text block annotated with its inferred structural level. The
// document hierarchy is a flat ordered sequence of Node; parent/child
// relationships are index references into that sequence.
type Node struct {
	// Block is the underlying text block.
	Block model.TextBlock

	// Level is the inferred depth: 0 is a top-level heading, larger is
	// deeper.
	Level int

	// Parent is the index of this node's parent in the document sequence,
	// or -1 for top-level nodes.
	Parent int

	// Cluster is the cluster the block was assigned, or -1 when
	// clustering was skipped.
	Cluster int
}

// Clusterer infers document structure from text blocks. It holds no mutable
// state and is safe for concurrent use.
type Clusterer struct {
	config Config
}

// NewClusterer creates a clusterer with default configuration.
func NewClusterer() *Clusterer {
	return &Clusterer{config: DefaultConfig()}
}

// NewClustererWithConfig creates a clusterer with custom configuration.
func NewClustererWithConfig(config Config) *Clusterer {
	return &Clusterer{config: config.withDefaults()}
}

// Cluster partitions a document's blocks into structural levels. Blocks
// must be in document order; the returned sequence preserves that order.
//
// When fewer blocks exist than Config.Clusters, or K < 2, clustering is
// skipped and Flat is returned instead.
func (c *Clusterer) Cluster(blocks []model.TextBlock) []Node {
	cfg := c.config.withDefaults()

	if cfg.Clusters < 2 || len(blocks) < cfg.Clusters {
		return Flat(blocks)
	}

	features := featureVectors(blocks, cfg.IncludeBBox)
	assignments, centroids := kmeans(features, cfg.Clusters)

	levelOf := rankCentroids(centroids)

	nodes := make([]Node, len(blocks))
	for i, b := range blocks {
		nodes[i] = Node{
			Block:   b,
			Level:   levelOf[assignments[i]],
			Cluster: assignments[i],
		}
	}
	linkParents(nodes)
	return nodes
}

// UnreliableOCR reports whether an OCR-only block set is too uncertain to
// cluster: the average OCR confidence sits below the configured floor.
func (c *Clusterer) UnreliableOCR(blocks []model.TextBlock) bool {
	cfg := c.config.withDefaults()

	sum := 0.0
	n := 0
	for _, b := range blocks {
		if b.Source != model.SourceOCR {
			continue
		}
		sum += b.Confidence
		n++
	}
	if n == 0 {
		return false
	}
	return sum/float64(n) < cfg.ConfidenceFloor
}

// Flat assigns level 0 to every block: the fallback structure when
// clustering is skipped.
func Flat(blocks []model.TextBlock) []Node {
	nodes := make([]Node, len(blocks))
	for i, b := range blocks {
		nodes[i] = Node{Block: b, Level: 0, Parent: -1, Cluster: -1}
	}
	return nodes
}

// rankCentroids maps cluster IDs to levels by descending mean font-size
// proxy (feature 0). Ties break by ascending mean vertical position
// (feature 1): the earlier-appearing cluster wins the shallower level.
func rankCentroids(centroids [][]float64) map[int]int {
	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := centroids[order[a]], centroids[order[b]]
		if ca[0] != cb[0] {
			return ca[0] > cb[0]
		}
		return ca[1] < cb[1]
	})

	levels := make(map[int]int, len(order))
	for level, cluster := range order {
		levels[cluster] = level
	}
	return levels
}

// linkParents derives parent indices from level ordering: a node's parent
// is the nearest preceding node with a strictly shallower level.
func linkParents(nodes []Node) {
	for i := range nodes {
		nodes[i].Parent = -1
		for j := i - 1; j >= 0; j-- {
			if nodes[j].Level < nodes[i].Level {
				nodes[i].Parent = j
				break
			}
		}
	}
}

// Outline renders the node sequence as an indented text outline.
func Outline(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(strings.Repeat("  ", n.Level))
		sb.WriteString(n.Block.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// MarkdownOutline renders the node sequence as a markdown list.
func MarkdownOutline(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(strings.Repeat("  ", n.Level))
		sb.WriteString("- ")
		sb.WriteString(n.Block.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
