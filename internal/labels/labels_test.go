package labels

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"qrsite/internal/builderr"
	"qrsite/internal/config"
	"qrsite/internal/qr"
)

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		id := fmt.Sprintf("%03d", i+1)
		out[i] = Item{EntryID: id, Caption: "Eintrag " + id}
	}
	return out
}

func generator(t *testing.T) *qr.Generator {
	t.Helper()
	gen, err := qr.NewGenerator("https://example.com/site", "medium", 10)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return gen
}

func TestPlanFillsRowsThenPages(t *testing.T) {
	g := FromConfig(config.Default().Labels)
	placements := g.Plan(items(26))
	if len(placements) != 26 {
		t.Fatalf("expected 26 placements, got %d", len(placements))
	}
	if got := g.Pages(26); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
	first, fifth, last := placements[0], placements[4], placements[25]
	if first.Page != 1 || first.Col != 0 || first.Row != 0 || first.XMM != 8 || first.YMM != 8 {
		t.Fatalf("unexpected first placement %#v", first)
	}
	if fifth.Col != 0 || fifth.Row != 1 || fifth.YMM != 8+45+3 {
		t.Fatalf("unexpected fifth placement %#v", fifth)
	}
	if last.Page != 2 || last.Col != 1 || last.Row != 0 || last.EntryID != "026" {
		t.Fatalf("unexpected last placement %#v", last)
	}
	for i, p := range placements {
		if p.EntryID != fmt.Sprintf("%03d", i+1) {
			t.Fatalf("placement %d holds %s", i, p.EntryID)
		}
	}
}

func TestPagesEdgeCases(t *testing.T) {
	g := FromConfig(config.Default().Labels)
	cases := map[int]int{0: 0, 1: 1, 24: 1, 25: 2, 48: 2, 49: 3}
	for n, want := range cases {
		if got := g.Pages(n); got != want {
			t.Fatalf("Pages(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestValidateRejectsOversizedGrid(t *testing.T) {
	l := config.Default().Labels
	l.Cols = 5
	if err := FromConfig(l).Validate(); !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	l = config.Default().Labels
	l.Rows = 7
	if err := FromConfig(l).Validate(); !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if err := Overview(config.Default().Labels).Validate(); err != nil {
		t.Fatalf("overview geometry must fit: %v", err)
	}
}

func TestFitCaption(t *testing.T) {
	measure := func(text string, size float64) float64 {
		return float64(utf8.RuneCountInString(text)) * size * 0.5
	}

	text, size, err := fitCaption(measure, "1", "Eintrag 1", 40, 9, 5)
	if err != nil || text != "Eintrag 1" || size != 8.5 {
		t.Fatalf("expected full caption at 8.5pt, got %q %.1f %v", text, size, err)
	}
	text, size, err = fitCaption(measure, "1", "Eintrag 0000001", 30, 9, 5)
	if err != nil || size != 5 || text != "Eintrag 000…" {
		t.Fatalf("expected truncated caption at 5pt, got %q %.1f %v", text, size, err)
	}
	_, _, err = fitCaption(measure, "7", "Eintrag 7", 4, 9, 5)
	var layout *builderr.LayoutError
	if !errors.As(err, &layout) || layout.EntryID != "7" {
		t.Fatalf("expected layout error, got %v", err)
	}
}

func TestBuildWritesOnePagePerGrid(t *testing.T) {
	g := FromConfig(config.Default().Labels)
	b, err := NewBuilder(g, generator(t), "Labels", nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	var first bytes.Buffer
	sheet, err := b.Build(&first, items(25))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sheet.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", sheet.Pages)
	}
	if len(sheet.Placements) != 25 {
		t.Fatalf("expected 25 placements, got %d", len(sheet.Placements))
	}
	if !bytes.HasPrefix(first.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}

	if bytes.Contains(first.Bytes(), []byte("/Subtype /Image")) {
		t.Fatal("qr codes should be drawn as vectors, not embedded images")
	}

	for run := 2; run <= 5; run++ {
		again, err := NewBuilder(g, generator(t), "Labels", nil)
		if err != nil {
			t.Fatalf("NewBuilder: %v", err)
		}
		var out bytes.Buffer
		if _, err := again.Build(&out, items(25)); err != nil {
			t.Fatalf("Build %d: %v", run, err)
		}
		if !bytes.Equal(first.Bytes(), out.Bytes()) {
			t.Fatalf("run %d produced different PDF bytes", run)
		}
	}
}

func TestBuildOverview(t *testing.T) {
	b, err := NewBuilder(Overview(config.Default().Labels), generator(t), "", nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	var out bytes.Buffer
	sheet, err := b.Build(&out, items(16))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sheet.Pages != 2 {
		t.Fatalf("expected 2 overview pages, got %d", sheet.Pages)
	}
}

func TestBuildRejectsUnscannableCodes(t *testing.T) {
	l := config.Default().Labels
	l.CellMM = 12
	l.Captions = false
	l.MinModuleMM = 0.5
	b, err := NewBuilder(FromConfig(l), generator(t), "", nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	var out bytes.Buffer
	_, err = b.Build(&out, items(1))
	if !errors.Is(err, builderr.ErrLayout) {
		t.Fatalf("expected layout error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatal("nothing may be written when layout fails")
	}
}

func TestNewBuilderRejectsTinyCells(t *testing.T) {
	l := config.Default().Labels
	l.CellMM = 6
	if _, err := NewBuilder(FromConfig(l), generator(t), "", nil); !errors.Is(err, builderr.ErrLayout) {
		t.Fatalf("expected layout error, got %v", err)
	}
}
