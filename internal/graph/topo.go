// Package graph orders layers for emission: every layer appears ahead
// of the layers its actions reach via layer-while-held, so a base layer
// such as "default" gets the first index.
package graph

import (
	"container/heap"

	"github.com/rkl-go/rkl/internal/rklerr"
)

// Node is one layer's priority-sort input: its declaration index, used
// as the heap's tie-break weight, and the names of the layers it
// depends on via layer-while-held.
type Node struct {
	Weight int
	Deps   []string
}

type item struct {
	weight int
	name   string
}

type maxHeap []item

func (h maxHeap) Len() int      { return len(h) }
func (h maxHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h maxHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight > h[j].weight
	}
	return h[i].name > h[j].name
}
func (h *maxHeap) Push(x any) { *h = append(*h, x.(item)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// PriorityTopoSort drains graph via Kahn's algorithm: a node only
// becomes ready once every layer it depends on (via layer-while-held)
// has already drained, so the raw drain order always has dependencies
// before dependents. A max-heap keyed by (Weight, name) picks among
// several simultaneously-ready nodes. The drained order is then
// reversed, putting a layer ahead of the layers it reaches — e.g. the
// base layer before the layers it momentarily switches into — which is
// the order back-ends assign layer indices in. Reports CycleError if
// any node's dependencies can never all resolve.
func PriorityTopoSort(graph map[string]Node) ([]string, error) {
	inDegree := make(map[string]int, len(graph))
	reverseGraph := make(map[string][]string)

	for name, node := range graph {
		if _, ok := inDegree[name]; !ok {
			inDegree[name] = 0
		}
		for _, dep := range node.Deps {
			reverseGraph[dep] = append(reverseGraph[dep], name)
			inDegree[name]++
		}
	}

	h := &maxHeap{}
	heap.Init(h)
	for name, deg := range inDegree {
		if deg == 0 {
			heap.Push(h, item{weight: graph[name].Weight, name: name})
		}
	}

	result := make([]string, 0, len(graph))
	for h.Len() > 0 {
		popped := heap.Pop(h).(item)
		result = append(result, popped.name)
		for _, dependent := range reverseGraph[popped.name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				heap.Push(h, item{weight: graph[dependent].Weight, name: dependent})
			}
		}
	}

	if len(result) != len(graph) {
		return nil, &rklerr.CycleError{}
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}
