// Package hierarchy groups extracted text blocks into a hierarchical
// document structure using unsupervised clustering over layout features.
//
// The [Clusterer] partitions a document's blocks into K structural levels
// with k-means over a per-block feature vector (font-size proxy, vertical
// position, and optionally bounding-box width), then ranks cluster centroids
// by descending font-size proxy: the cluster with the largest mean proxy
// becomes level 0 (top heading), and so on.
//
//	clusterer := hierarchy.NewClusterer()
//	nodes := clusterer.Cluster(blocks)
//
// The result is a flat ordered sequence of [Node]; parent/child relations
// are carried as indices into that sequence, not as an explicit tree, to
// avoid cyclic ownership.
//
// # Determinism
//
// Clustering is seeded deterministically (farthest-point initialization
// from a fixed start), so identical block sets always produce identical
// level assignments. This is a correctness requirement, not an
// optimization: downstream consumers and tests rely on reproducible output.
//
// # Fallback
//
// When fewer blocks exist than clusters, or the caller signals that the
// block set is unreliable, clustering is skipped and every block is
// assigned level 0. Clustering sparse or unreliable input produces a
// structure no better than random and must not be presented as
// authoritative.
package hierarchy
