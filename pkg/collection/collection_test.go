package collection_test

import (
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, func(n int) int { return n * n })
	want := []int{1, 4, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
	if out := collection.Map([]int(nil), func(n int) int { return n }); len(out) != 0 {
		t.Errorf("expected empty result for nil input, got %v", out)
	}
}

func TestFilter(t *testing.T) {
	got := collection.Filter([]int{1, 2, 3, 4, 5}, func(n int) bool { return n%2 == 0 })
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestReduce(t *testing.T) {
	sum := collection.Reduce([]float64{150000, 89000, 250000}, 0.0,
		func(acc, v float64) float64 { return acc + v })
	if sum != 489000 {
		t.Errorf("got %f, want 489000", sum)
	}
	if collection.Reduce(nil, 42, func(acc int, _ struct{}) int { return 0 }) != 42 {
		t.Error("expected init value for empty slice")
	}
}

func TestContains(t *testing.T) {
	statuses := []string{"pending", "shipping"}
	if !collection.Contains(statuses, func(s string) bool { return s == "shipping" }) {
		t.Error("expected to find shipping")
	}
	if collection.Contains(statuses, func(s string) bool { return s == "delivered" }) {
		t.Error("did not expect to find delivered")
	}
}

func TestGroupBy(t *testing.T) {
	groups := collection.GroupBy([]int{1, 2, 3, 4, 5}, func(n int) string {
		if n%2 == 0 {
			return "even"
		}
		return "odd"
	})
	if len(groups["even"]) != 2 || len(groups["odd"]) != 3 {
		t.Errorf("unexpected grouping: %v", groups)
	}
}
