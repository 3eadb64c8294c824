package entries_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"qrsite/internal/builderr"
	"qrsite/internal/entries"
	"qrsite/internal/testsupport"
)

func TestLoadCSVSemicolon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	testsupport.WriteFile(t, path, "\ufeffID;Bildernamen;Datum/Jahr;Beschreibung;Link\n"+
		"42;cat.jpg;2020;A cat;\n"+
		";;;;\n"+
		"43;dog.png;2021-05-06;**Good** dog;https://example.org\n")

	got, err := entries.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []entries.Entry{
		{ID: "42", Image: "cat.jpg", Date: "2020", Description: "A cat", Row: 2},
		{ID: "43", Image: "dog.png", Date: "2021-05-06", Description: "**Good** dog", Link: "https://example.org", Row: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCSVCommaAndAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	testsupport.WriteFile(t, path, "Image,Nr,Description,Datum,Datum/Jahr\n"+
		"a.jpg,001,\"Line one, with comma\",2001-01-01,1999\n")

	got, err := entries.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one entry, got %d", len(got))
	}
	e := got[0]
	if e.ID != "001" || e.Image != "a.jpg" || e.Description != "Line one, with comma" {
		t.Fatalf("unexpected entry %#v", e)
	}
	if e.Date != "1999" {
		t.Fatalf("expected Datum/Jahr to win over Datum, got %q", e.Date)
	}
	if e.Link != "" {
		t.Fatalf("absent link column must yield empty link, got %q", e.Link)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.xlsx")
	testsupport.WriteXLSX(t, path, [][]string{
		entries.Header(),
		{"1", "one.jpg", "2004", "First", ""},
		{"2", "two.jpg", "", "", "https://example.com"},
	})

	got, err := entries.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != "1" || got[0].Date != "2004" || got[0].Row != 2 {
		t.Fatalf("unexpected first entry %#v", got[0])
	}
	if got[1].Link != "https://example.com" || got[1].Row != 3 {
		t.Fatalf("unexpected second entry %#v", got[1])
	}
}

func TestLoadXLSXTypedCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.xlsx")
	header := make([]any, 0, 5)
	for _, name := range entries.Header() {
		header = append(header, name)
	}
	testsupport.WriteXLSXValues(t, path, [][]any{
		header,
		{1, "one.jpg", time.Date(2004, time.March, 7, 0, 0, 0, 0, time.UTC), "Date cell", ""},
		{2, "two.jpg", 2004, "Year as number", ""},
		{3, "three.jpg", time.Date(2010, time.December, 24, 18, 30, 0, 0, time.UTC), "Date and time", ""},
		{4, "four.jpg", "1999", "Year as text", ""},
	})

	got, err := entries.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	var dates, shown []string
	for _, e := range got {
		dates = append(dates, e.Date)
		shown = append(shown, entries.DisplayDate(e.Date))
	}
	if diff := cmp.Diff([]string{"2004-03-07", "2004", "2010-12-24 18:30:00", "1999"}, dates); diff != "" {
		t.Fatalf("dates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"07.03.2004", "2004", "24.12.2010", "1999"}, shown); diff != "" {
		t.Fatalf("displayed dates mismatch (-want +got):\n%s", diff)
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("numeric ids should load as text, got %q %q", got[0].ID, got[1].ID)
	}
}

func TestLoadMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	testsupport.WriteFile(t, path, "Beschreibung;Link\nfoo;bar\n")

	_, err := entries.Load(path)
	if !errors.Is(err, builderr.ErrMissingColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
	var mc *builderr.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError, got %T", err)
	}
	if diff := cmp.Diff([]string{"ID", "Bildernamen"}, mc.Columns); diff != "" {
		t.Fatalf("missing columns mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidRows(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		row    int
		reason string
	}{
		{"missing id", "ID;Bild\n;a.jpg\n", 2, "missing id"},
		{"missing image", "ID;Bild\n1;\n", 2, "missing image"},
		{"unsafe id", "ID;Bild\n1;a.jpg\na b;b.jpg\n", 3, "only contain"},
		{"dot id", "ID;Bild\n.hidden;a.jpg\n", 2, "must not start"},
		{"reserved id", "ID;Bild\nIndex;a.jpg\n", 2, "reserved"},
		{"duplicate id", "ID;Bild\n7;a.jpg\n8;b.jpg\n7;c.jpg\n", 4, "duplicate id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := entries.Parse(strings.NewReader(tc.body), "test.csv")
			var rowErr *builderr.InvalidRowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("expected InvalidRowError, got %v", err)
			}
			if !errors.Is(err, builderr.ErrInvalidRow) {
				t.Fatalf("expected ErrInvalidRow match, got %v", err)
			}
			if rowErr.Row != tc.row {
				t.Fatalf("expected row %d, got %d", tc.row, rowErr.Row)
			}
			if !strings.Contains(rowErr.Reason, tc.reason) {
				t.Fatalf("reason %q does not mention %q", rowErr.Reason, tc.reason)
			}
		})
	}
}

func TestParseTabDelimited(t *testing.T) {
	got, err := entries.Parse(strings.NewReader("id\tfilename\ttext\nx-1\tx.jpg\thello\n"), "tabs.tsv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "x-1" || got[0].Description != "hello" {
		t.Fatalf("unexpected entries %#v", got)
	}
	if got[0].PageName() != "x-1.html" {
		t.Fatalf("unexpected page name %q", got[0].PageName())
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := entries.Load(filepath.Join(t.TempDir(), "entries.ods"))
	if !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	testsupport.WriteFile(t, path, "")
	if _, err := entries.Load(path); !errors.Is(err, builderr.ErrMissingColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}
