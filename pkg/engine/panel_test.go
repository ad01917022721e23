package engine

import (
	"slices"
	"testing"
)

func TestCard(t *testing.T) {
	tests := []struct {
		name       string
		card       Card
		wantHeader string
		wantLines  []string
		wantString string
	}{
		{
			name:       "with neighbors",
			card:       Card{Label: "Bob", Neighbors: []string{"Ann", "UNNAMED NODE"}},
			wantHeader: "Neighbors (2)",
			wantLines:  []string{"Ann", "UNNAMED NODE"},
			wantString: "Bob\nNeighbors (2)\n  Ann\n  UNNAMED NODE",
		},
		{
			name:       "isolated",
			card:       Card{Label: "solo"},
			wantHeader: "Neighbors",
			wantLines:  []string{"--"},
			wantString: "solo\nNeighbors\n  --",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Header(); got != tt.wantHeader {
				t.Errorf("Header() = %q, want %q", got, tt.wantHeader)
			}
			if got := tt.card.Lines(); !slices.Equal(got, tt.wantLines) {
				t.Errorf("Lines() = %q, want %q", got, tt.wantLines)
			}
			if got := tt.card.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
		})
	}
}

func TestPanelFuncs(t *testing.T) {
	var changed, cleared int
	p := PanelFuncs{
		Changed: func(string, []string) { changed++ },
		Cleared: func() { cleared++ },
	}
	p.TargetChanged("x", nil)
	p.TargetCleared()
	PanelFuncs{}.TargetChanged("x", nil)
	PanelFuncs{}.TargetCleared()
	if changed != 1 || cleared != 1 {
		t.Errorf("changed = %d, cleared = %d", changed, cleared)
	}
}

func TestSetPanelSyncsImmediately(t *testing.T) {
	e, _ := newTestEngine(t)
	_ = e.Select("B")

	p := &recordingPanel{}
	e.SetPanel(p)
	if !p.visible || p.label != "Ann" || !slices.Equal(p.neighbors, []string{"Bob"}) {
		t.Errorf("panel = %+v", p)
	}
}
