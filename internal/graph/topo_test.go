package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rkl-go/rkl/internal/rklerr"
)

func TestPriorityTopoSortPlacesDependentBeforeItsDependency(t *testing.T) {
	g := map[string]Node{
		"default": {Weight: 0, Deps: []string{"nav"}},
		"nav":     {Weight: 1, Deps: nil},
	}
	order, err := PriorityTopoSort(g)
	if err != nil {
		t.Fatalf("PriorityTopoSort: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"default", "nav"}) {
		t.Fatalf("got %v, want [default nav]", order)
	}
}

func TestPriorityTopoSortBreaksTiesByIndex(t *testing.T) {
	g := map[string]Node{
		"a": {Weight: 2},
		"b": {Weight: 0},
		"c": {Weight: 1},
	}
	order, err := PriorityTopoSort(g)
	if err != nil {
		t.Fatalf("PriorityTopoSort: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"b", "c", "a"}) {
		t.Fatalf("got %v, want ascending-index order [b c a]", order)
	}
}

func TestPriorityTopoSortDetectsCycle(t *testing.T) {
	g := map[string]Node{
		"a": {Weight: 0, Deps: []string{"b"}},
		"b": {Weight: 1, Deps: []string{"a"}},
	}
	_, err := PriorityTopoSort(g)
	if err == nil {
		t.Fatalf("expected a cycle error")
	}
	var cycleErr *rklerr.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("got %v, want a CycleError", err)
	}
}
