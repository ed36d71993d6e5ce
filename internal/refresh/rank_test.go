package refresh

import (
	"math"
	"testing"

	"github.com/kostyay/hogwatch/internal/model"
)

func TestGreatestFirst(t *testing.T) {
	tests := []struct {
		a, b float64
		want int
	}{
		{2, 1, -1},
		{1, 2, 1},
		{1.5, 1.5, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := greatestFirst(tt.a, tt.b); got != tt.want {
			t.Errorf("greatestFirst(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRank_ByRecv(t *testing.T) {
	lines := []model.Line{
		{Name: "a", Recv: 1, Sent: 9},
		{Name: "b", Recv: 5, Sent: 1},
		{Name: "c", Recv: 3, Sent: 5},
	}

	got := Rank(lines, model.SortByRecv)

	if got[0].Name != "b" || got[1].Name != "c" || got[2].Name != "a" {
		t.Errorf("Expected [b, c, a], got [%s, %s, %s]", got[0].Name, got[1].Name, got[2].Name)
	}
	if lines[0].Name != "a" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRank_BySent(t *testing.T) {
	lines := []model.Line{
		{Name: "a", Recv: 1, Sent: 9},
		{Name: "b", Recv: 5, Sent: 1},
		{Name: "c", Recv: 3, Sent: 5},
	}

	got := Rank(lines, model.SortBySent)

	if got[0].Name != "a" || got[1].Name != "c" || got[2].Name != "b" {
		t.Errorf("Expected [a, c, b], got [%s, %s, %s]", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	lines := []model.Line{
		{Name: "first", Recv: 2},
		{Name: "big", Recv: 10},
		{Name: "second", Recv: 2},
		{Name: "third", Recv: 2},
	}

	got := Rank(lines, model.SortByRecv)

	want := []string{"big", "first", "second", "third"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Name, w)
		}
	}
}

func TestRank_NonIncreasing(t *testing.T) {
	var lines []model.Line
	for i := 0; i < 50; i++ {
		v := math.Mod(float64(i*37), 11)
		lines = append(lines, model.Line{PID: int32(i), Sent: v, Recv: 11 - v})
	}

	for _, key := range []model.SortKey{model.SortBySent, model.SortByRecv} {
		got := Rank(lines, key)
		for i := 1; i < len(got); i++ {
			if got[i-1].Metric(key) < got[i].Metric(key) {
				t.Fatalf("%v: position %d (%v) < position %d (%v)",
					key, i-1, got[i-1].Metric(key), i, got[i].Metric(key))
			}
		}
	}
}

func TestRank_Empty(t *testing.T) {
	if got := Rank(nil, model.SortBySent); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}

func TestTotals(t *testing.T) {
	lines := []model.Line{
		{Sent: 1.25, Recv: 0.5},
		{Sent: 2, Recv: 3},
		{Sent: 0, Recv: 0.125},
	}

	sent, recv := Totals(lines)

	if !approx(sent, 3.25) || !approx(recv, 3.625) {
		t.Errorf("Totals() = %v, %v, want 3.25, 3.625", sent, recv)
	}
}
