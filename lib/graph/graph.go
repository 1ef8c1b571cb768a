// Package graph builds the layered resolution graph: every clustering run
// becomes a node, layered by cluster count, and each node points at the
// parent in the next-coarser layer that maximises the accumulated stability
// along the path back to a root.
//
// Because edges only ever point from a layer to the immediately coarser
// layer, the graph is acyclic and a single ascending pass over the layers
// computes the exact optimum (a longest-path dynamic program), not a
// heuristic.
package graph

import (
	"fmt"
	"sort"

	"github.com/kpaschen/cluststab/lib/datatypes"
	"github.com/kpaschen/cluststab/lib/overlap"
)

// NodeHandle addresses a node inside a ResolutionGraph's arena.
type NodeHandle int

// noParent marks root nodes, which have no coarser layer above them.
const noParent NodeHandle = -1

// ResolutionNode is one clustering run as placed into the graph.
// Nodes are created once during the graph build and never mutated
// afterwards, so they can safely be shared by many children.
type ResolutionNode struct {
	resolution       float64
	numberOfClusters int
	// Handle of the optimal parent, or noParent for roots.
	parent NodeHandle
	// Stability of the edge to the optimal parent. Only meaningful
	// when hasParent is true.
	optimalStability float64
	hasParent        bool
	// Sum of edge stabilities along the path to the root.
	totalStability float64
	// Number of edges between this node and its root.
	depth int
}

// Resolution returns the resolution parameter of this clustering run.
func (n *ResolutionNode) Resolution() float64 {
	return n.resolution
}

// NumberOfClusters returns the cluster count of this clustering run.
func (n *ResolutionNode) NumberOfClusters() int {
	return n.numberOfClusters
}

// OptimalStability returns the stability of the edge to the optimal parent.
// The second return value is false for root nodes, which have no edge.
func (n *ResolutionNode) OptimalStability() (float64, bool) {
	return n.optimalStability, n.hasParent
}

// TotalStability returns the accumulated stability along the path to
// this node's root.
func (n *ResolutionNode) TotalStability() float64 {
	return n.totalStability
}

// Depth returns the number of edges between this node and its root.
func (n *ResolutionNode) Depth() int {
	return n.depth
}

// ResolutionGraph holds the nodes of a layered resolution graph in an
// arena. Parents are shared by handle, which keeps the fan-in structure
// explicit and cheap to traverse.
type ResolutionGraph struct {
	nodes []ResolutionNode
	// Handles of the nodes in the highest-cluster-count layer.
	leaves []NodeHandle
}

// BuildGraph layers the resolutions by cluster count and connects every
// node to the parent candidate in the immediately coarser layer that
// maximises total stability. Ties break towards the larger parent
// resolution. An empty input yields an empty graph.
func BuildGraph(resolutions []datatypes.ResolutionData) (*ResolutionGraph, error) {
	layers := make(map[int][]datatypes.ResolutionData)
	for _, resolution := range resolutions {
		count := resolution.NumberOfClusters()
		layers[count] = append(layers[count], resolution)
	}
	clusterCounts := make([]int, 0, len(layers))
	for count := range layers {
		clusterCounts = append(clusterCounts, count)
	}
	sort.Ints(clusterCounts)

	g := &ResolutionGraph{nodes: make([]ResolutionNode, 0, len(resolutions))}
	if len(clusterCounts) == 0 {
		return g, nil
	}

	// Handles of the previous layer's nodes, aligned by position with
	// that layer's resolution data slice.
	var previousHandles []NodeHandle
	var previousLayer []datatypes.ResolutionData
	for layerIndex, count := range clusterCounts {
		layer := layers[count]
		handles := make([]NodeHandle, 0, len(layer))
		for _, resolution := range layer {
			var node ResolutionNode
			if layerIndex == 0 {
				// The coarsest layer's resolutions become roots.
				node = ResolutionNode{
					resolution:       resolution.Resolution,
					numberOfClusters: resolution.NumberOfClusters(),
					parent:           noParent,
				}
			} else {
				parent, stability, err := g.optimalParent(resolution, previousHandles, previousLayer)
				if err != nil {
					return nil, err
				}
				parentNode := &g.nodes[parent]
				node = ResolutionNode{
					resolution:       resolution.Resolution,
					numberOfClusters: resolution.NumberOfClusters(),
					parent:           parent,
					optimalStability: stability,
					hasParent:        true,
					totalStability:   parentNode.totalStability + stability,
					depth:            parentNode.depth + 1,
				}
			}
			g.nodes = append(g.nodes, node)
			handles = append(handles, NodeHandle(len(g.nodes)-1))
		}
		previousHandles = handles
		previousLayer = layer
	}
	g.leaves = previousHandles
	return g, nil
}

// optimalParent computes the argmax over the previous layer's candidates.
// The comparison key is (candidate total stability + edge stability, then
// candidate resolution), so the tie-break order is explicit and testable.
func (g *ResolutionGraph) optimalParent(resolution datatypes.ResolutionData,
	candidates []NodeHandle, candidateData []datatypes.ResolutionData) (NodeHandle, float64, error) {
	best := noParent
	bestStability := 0.0
	bestTotal := 0.0
	for i, candidate := range candidates {
		stability, err := overlap.MeanStability(resolution, candidateData[i])
		if err != nil {
			return noParent, 0, fmt.Errorf("scoring resolution %g against %g: %w",
				resolution.Resolution, candidateData[i].Resolution, err)
		}
		candidateNode := &g.nodes[candidate]
		total := candidateNode.totalStability + stability
		better := best == noParent ||
			total > bestTotal ||
			(total == bestTotal && candidateNode.resolution > g.nodes[best].resolution)
		if better {
			best = candidate
			bestStability = stability
			bestTotal = total
		}
	}
	if best == noParent {
		return noParent, 0, fmt.Errorf("no parent candidates for resolution %g",
			resolution.Resolution)
	}
	return best, bestStability, nil
}

// Node returns the node stored at the given handle.
func (g *ResolutionGraph) Node(handle NodeHandle) *ResolutionNode {
	return &g.nodes[handle]
}

// Leaves returns the handles of the highest-cluster-count layer's nodes.
// Every leaf holds an unbroken parent chain to a root.
func (g *ResolutionGraph) Leaves() []NodeHandle {
	return g.leaves
}

// Branch follows the parent chain from the given leaf to its root and
// returns the nodes ordered from most clusters to fewest.
func (g *ResolutionGraph) Branch(leaf NodeHandle) []*ResolutionNode {
	var branch []*ResolutionNode
	for handle := leaf; handle != noParent; handle = g.nodes[handle].parent {
		branch = append(branch, &g.nodes[handle])
	}
	return branch
}

// BestLeaf returns the leaf with the highest total stability, breaking
// ties towards the larger resolution. The second return value is false
// for an empty graph.
func (g *ResolutionGraph) BestLeaf() (NodeHandle, bool) {
	best := noParent
	for _, leaf := range g.leaves {
		if best == noParent {
			best = leaf
			continue
		}
		node := &g.nodes[leaf]
		bestNode := &g.nodes[best]
		if node.totalStability > bestNode.totalStability ||
			(node.totalStability == bestNode.totalStability &&
				node.resolution > bestNode.resolution) {
			best = leaf
		}
	}
	return best, best != noParent
}

// BestBranch returns the branch of the best leaf, or nil for an empty
// graph.
func (g *ResolutionGraph) BestBranch() []*ResolutionNode {
	leaf, ok := g.BestLeaf()
	if !ok {
		return nil
	}
	return g.Branch(leaf)
}
