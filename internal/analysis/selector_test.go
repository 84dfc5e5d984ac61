package analysis

import (
	"math"
	"testing"

	"github.com/jmylchreest/prism/internal/colour"
)

func scoredOf(c colour.RGB, freq float64) ScoredColour {
	return ScoredColour{
		Colour:    c,
		Hex:       c.Hex(),
		Frequency: freq,
		Vibrancy:  colour.Vibrancy(c),
	}
}

func TestSelectDistinctPureRed(t *testing.T) {
	result, err := Analyse(solidBuffer(10, 10, 255, 0, 0, 255), Options{MaxDimension: 400})
	if err != nil {
		t.Fatalf("Analyse() error = %v", err)
	}
	got := SelectDistinct(result.Scored, 0.2)
	if len(got) != 1 || got[0] != (colour.RGB{R: 255}) {
		t.Errorf("SelectDistinct() = %v, want [rgb(255, 0, 0)]", got)
	}
}

func TestSelectDistinctEmptyInput(t *testing.T) {
	sel := Select(nil, SelectOptions{Threshold: 0.35})
	if len(sel.Colours) != 0 {
		t.Errorf("Expected no colours, got %v", sel.Colours)
	}
	if sel.Threshold != 0 {
		t.Errorf("Expected relaxation to reach 0, got %v", sel.Threshold)
	}
	if sel.Colours == nil {
		t.Error("Expected an empty, non-nil slice")
	}
}

func TestSelectGrayRelaxes(t *testing.T) {
	gray := scoredOf(colour.RGB{R: 128, G: 128, B: 128}, 1)

	noRelax := Select([]ScoredColour{gray}, SelectOptions{Threshold: 0.2, DisableRelaxation: true})
	if len(noRelax.Colours) != 0 {
		t.Errorf("Expected gray to fail a 0.2 threshold, got %v", noRelax.Colours)
	}

	sel := Select([]ScoredColour{gray}, SelectOptions{Threshold: 0.2})
	if len(sel.Colours) != 1 || sel.Colours[0] != gray.Colour {
		t.Fatalf("Expected relaxation to return gray, got %v", sel.Colours)
	}
	if sel.Threshold != 0 {
		t.Errorf("Threshold = %v, want 0", sel.Threshold)
	}
	if sel.Passes != 5 {
		t.Errorf("Passes = %d, want 5", sel.Passes)
	}
	if !sel.Relaxed() {
		t.Error("Expected Relaxed() to be true")
	}
}

func TestSelectRelaxationStopsEarly(t *testing.T) {
	// Vibrancy ~0.745: found once the threshold falls from 0.9 to 0.7.
	red := scoredOf(colour.RGB{R: 220, G: 30, B: 30}, 1)
	sel := Select([]ScoredColour{red}, SelectOptions{Threshold: 0.9})
	if len(sel.Colours) != 1 {
		t.Fatalf("Expected one colour, got %v", sel.Colours)
	}
	if math.Abs(sel.Threshold-0.7) > 1e-9 {
		t.Errorf("Threshold = %v, want 0.7", sel.Threshold)
	}
	if sel.Passes != 5 {
		t.Errorf("Passes = %d, want 5", sel.Passes)
	}
}

func TestSelectRelaxationTermination(t *testing.T) {
	gray := scoredOf(colour.RGB{R: 100, G: 100, B: 100}, 1)
	for _, initial := range []float64{0, 0.05, 0.1, 0.15, 0.2, 0.3, 0.35, 0.5, 0.95, 1} {
		sel := Select([]ScoredColour{gray}, SelectOptions{Threshold: initial})
		bound := int(math.Ceil(initial/RelaxationStep)) + 1
		if sel.Passes > bound {
			t.Errorf("initial %v: %d passes, bound %d", initial, sel.Passes, bound)
		}
		if len(sel.Colours) == 0 {
			t.Errorf("initial %v: expected a colour after relaxation", initial)
		}
	}
}

func TestSelectNegativeThreshold(t *testing.T) {
	gray := scoredOf(colour.RGB{R: 100, G: 100, B: 100}, 1)
	sel := Select([]ScoredColour{gray}, SelectOptions{Threshold: -1})
	if sel.Passes != 1 || sel.Threshold != 0 || len(sel.Colours) != 1 {
		t.Errorf("Select() = %+v, want one pass at threshold 0", sel)
	}
}

func TestSelectOutOfRangeThresholds(t *testing.T) {
	gray := scoredOf(colour.RGB{R: 100, G: 100, B: 100}, 1)
	maxPasses := int(math.Ceil(1/RelaxationStep)) + 1

	tests := []struct {
		name      string
		threshold float64
		maxPasses int
	}{
		{"NaN", math.NaN(), 1},
		{"NegativeInf", math.Inf(-1), 1},
		{"PositiveInf", math.Inf(1), maxPasses},
		{"AboveOne", 1.5, maxPasses},
		{"Huge", 1e12, maxPasses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Select([]ScoredColour{gray}, SelectOptions{Threshold: tt.threshold})
			if sel.Passes > tt.maxPasses {
				t.Errorf("Passes = %d, want at most %d", sel.Passes, tt.maxPasses)
			}
			if sel.Threshold != 0 || len(sel.Colours) != 1 {
				t.Errorf("Select() = %+v, want gray at threshold 0", sel)
			}
		})
	}

	if got := SelectDistinct([]ScoredColour{gray}, math.NaN()); len(got) != 1 {
		t.Errorf("SelectDistinct(NaN) = %v, want [gray]", got)
	}
}

func TestSelectOrdersByFrequency(t *testing.T) {
	blue := scoredOf(colour.RGB{R: 20, G: 40, B: 220}, 0.1)
	red := scoredOf(colour.RGB{R: 220, G: 30, B: 30}, 0.6)
	green := scoredOf(colour.RGB{R: 30, G: 200, B: 40}, 0.3)

	got := SelectDistinct([]ScoredColour{blue, red, green}, 0.2)
	want := []colour.RGB{red.Colour, green.Colour, blue.Colour}
	if len(got) != len(want) {
		t.Fatalf("SelectDistinct() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SelectDistinct()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSelectStableOnEqualFrequency(t *testing.T) {
	a := scoredOf(colour.RGB{R: 220, G: 30, B: 30}, 0.5)
	b := scoredOf(colour.RGB{R: 30, G: 30, B: 220}, 0.5)

	got := SelectDistinct([]ScoredColour{b, a}, 0.2)
	if len(got) != 2 || got[0] != b.Colour {
		t.Errorf("Expected input order kept on ties, got %v", got)
	}
}

func TestSelectDropsSimilar(t *testing.T) {
	red := scoredOf(colour.RGB{R: 220, G: 30, B: 30}, 0.5)
	nearRed := scoredOf(colour.RGB{R: 215, G: 35, B: 30}, 0.4)
	teal := scoredOf(colour.RGB{R: 30, G: 200, B: 200}, 0.1)

	got := SelectDistinct([]ScoredColour{red, nearRed, teal}, 0.2)
	if len(got) != 2 || got[0] != red.Colour || got[1] != teal.Colour {
		t.Errorf("SelectDistinct() = %v, want [red teal]", got)
	}
}

func TestSelectTruncatesCandidates(t *testing.T) {
	var scored []ScoredColour
	for i := range 30 {
		hue := float64(i) * 12
		c := colour.HSLToRGB(hue/360, 1, 0.5)
		scored = append(scored, scoredOf(c, float64(30-i)/1000))
	}

	sel := Select(scored, SelectOptions{Threshold: 0, MaxCandidates: 20, Similarity: 0.01})
	if len(sel.Colours) != 20 {
		t.Errorf("Expected 20 colours after truncation, got %d", len(sel.Colours))
	}

	got := SelectDistinct(scored, 0)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if d := colour.PerceptualDistance(got[i], got[j]); d < colour.DefaultSimilarityThreshold {
				t.Errorf("%v and %v are only %v apart", got[i], got[j], d)
			}
		}
	}
}
