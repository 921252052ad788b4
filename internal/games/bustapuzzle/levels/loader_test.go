package levels_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels/formats"
)

func writeStage(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestEmbeddedLoadAll(t *testing.T) {
	lvls, err := levels.Embedded().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) < 3 {
		t.Fatalf("expected at least 3 stages, got %d", len(lvls))
	}
	for i := 1; i < len(lvls); i++ {
		if lvls[i-1].ID >= lvls[i].ID {
			t.Errorf("stages not sorted: %d >= %d", lvls[i-1].ID, lvls[i].ID)
		}
	}
}

func TestEmbeddedCampaignIsValid(t *testing.T) {
	g := core.NewGrid(8, 11, 20)
	campaign, err := levels.Embedded().Campaign(g)
	if err != nil {
		t.Fatalf("Campaign failed: %v", err)
	}
	for n := 1; n <= campaign.Len(); n++ {
		st, _ := campaign.Stage(n)
		if st.ID != n {
			t.Errorf("stage %d has id %d", n, st.ID)
		}
	}
}

func TestEmbeddedStage1(t *testing.T) {
	lvl, err := levels.Embedded().LoadByID(1)
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Name != "First Light" {
		t.Errorf("expected name 'First Light', got %q", lvl.Name)
	}
	if len(lvl.Placements) != 30 {
		t.Errorf("expected 30 bubbles, got %d", len(lvl.Placements))
	}
	first := lvl.Placements[0]
	if first.Row != core.AnchorRow || first.Col != 0 || first.Color != core.ColorAnchor {
		t.Errorf("expected anchor at (-1,0) first, got %+v", first)
	}

	b := core.NewBoard(core.NewGrid(8, 11, 20), 8)
	if err := b.Populate(lvl.Placements); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	counts := b.CountByColor()
	if counts[core.ColorRed] != 8 || counts[core.ColorBlue] != 3 || counts[core.ColorGreen] != 2 {
		t.Errorf("unexpected colour counts %v", counts)
	}
}

func TestEmbeddedStage2HasNoAnchorRow(t *testing.T) {
	lvl, err := levels.Embedded().LoadByID(2)
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	for _, p := range lvl.Placements {
		if p.Row == core.AnchorRow {
			t.Fatalf("stage 2 hangs from embedded anchors only, found %+v", p)
		}
	}
}

func TestLoaderNotFound(t *testing.T) {
	if _, err := levels.Embedded().LoadByID(99); err == nil {
		t.Error("expected error for nonexistent stage")
	}
}

func TestDirectoryLoader(t *testing.T) {
	dir := t.TempDir()
	writeStage(t, dir, "b.yaml", "id: 2\nname: Two\nbubbles:\n  - {row: -1, col: 0, c: anchor}\n  - {row: 0, col: 0, c: g}\n")
	writeStage(t, dir, "a.yml", "id: 1\nname: One\nbubbles:\n  - {row: -1, col: 0, c: node}\n  - {row: 0, col: 0, c: red}\n")
	writeStage(t, dir, "notes.txt", "ignored")

	loader := levels.NewLoader(dir)
	all, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Errorf("expected stages [1 2], got %+v", all)
	}

	campaign, err := loader.Campaign(core.NewGrid(8, 11, 20))
	if err != nil {
		t.Fatalf("Campaign failed: %v", err)
	}
	st, _ := campaign.Stage(2)
	if st.Name != "Two" || st.Placements[1].Color != core.ColorGreen {
		t.Errorf("unexpected stage %+v", st)
	}
}

func TestDirectoryLoaderErrors(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "bad colour",
			files: map[string]string{"s.yaml": "id: 1\nbubbles:\n  - {row: 0, col: 0, c: purple}\n"},
			want:  "unknown colour",
		},
		{
			name:  "missing id",
			files: map[string]string{"s.yaml": "name: x\n"},
			want:  "id must be positive",
		},
		{
			name: "duplicate id",
			files: map[string]string{
				"a.yaml": "id: 1\nbubbles:\n  - {row: -1, col: 0, c: anchor}\n  - {row: 0, col: 0, c: red}\n",
				"b.yaml": "id: 1\nbubbles:\n  - {row: -1, col: 0, c: anchor}\n  - {row: 0, col: 0, c: red}\n",
			},
			want: "defined in both",
		},
		{
			name:  "floating bubble",
			files: map[string]string{"s.yaml": "id: 1\nbubbles:\n  - {row: -1, col: 0, c: anchor}\n  - {row: 5, col: 5, c: red}\n"},
			want:  "FLOATING_BUBBLE",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tc.files {
				writeStage(t, dir, name, body)
			}
			_, err := levels.NewLoader(dir).Campaign(core.NewGrid(8, 11, 20))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	lvl, err := levels.Embedded().LoadByID(3)
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	data, err := formats.MarshalYAML(lvl.ToStage())
	if err != nil {
		t.Fatalf("MarshalYAML failed: %v", err)
	}
	parsed, err := formats.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if parsed.ID != 3 || len(parsed.Placements) != len(lvl.Placements) {
		t.Errorf("round trip lost data: %+v", parsed)
	}
}
