package render

import (
	"bytes"
	"strings"
	"testing"

	"qrsite/internal/config"
	"qrsite/internal/entries"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(config.Default().Site)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func pagesFor(list ...entries.Entry) []Page {
	out := make([]Page, len(list))
	for i, e := range list {
		out[i] = NewPage(e, "https://example.com/site/"+e.ID+".html", entries.DisplayDate(e.Date))
	}
	return out
}

func TestEntryPageContent(t *testing.T) {
	r := newRenderer(t)
	pages := pagesFor(entries.Entry{ID: "42", Image: "cat.jpg", Date: "2020", Description: "A cat"})

	var buf bytes.Buffer
	if err := r.Entry(&buf, pages, 0); err != nil {
		t.Fatalf("Entry: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"A cat", "2020", `src="images/cat.jpg"`, `src="qr/42.png"`, `href="index.html"`, `lang="de"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q:\n%s", want, html)
		}
	}
	for _, unwanted := range []string{"entry-link", `rel="prev"`, `rel="next"`} {
		if strings.Contains(html, unwanted) {
			t.Fatalf("did not expect %q in page:\n%s", unwanted, html)
		}
	}
}

func TestEntryPageLinkAndNavigation(t *testing.T) {
	r := newRenderer(t)
	pages := pagesFor(
		entries.Entry{ID: "1", Image: "a.jpg"},
		entries.Entry{ID: "2", Image: "b.jpg", Link: "https://example.org/x", Date: "2021-05-06"},
		entries.Entry{ID: "3", Image: "c.jpg"},
	)

	var buf bytes.Buffer
	if err := r.Entry(&buf, pages, 1); err != nil {
		t.Fatalf("Entry: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		`<a href="1.html" rel="prev">`,
		`<a href="3.html" rel="next">`,
		`class="entry-link"`,
		`href="https://example.org/x"`,
		"06.05.2021",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q:\n%s", want, html)
		}
	}
	if err := r.Entry(&buf, pages, 3); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestDescriptionMarkdownIsSanitized(t *testing.T) {
	r := newRenderer(t)
	pages := pagesFor(entries.Entry{
		ID:          "9",
		Image:       "x.jpg",
		Description: "**Bold** and *soft*\nsecond line <script>alert(1)</script>",
		Link:        "javascript:alert(1)",
	})

	var buf bytes.Buffer
	if err := r.Entry(&buf, pages, 0); err != nil {
		t.Fatalf("Entry: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<strong>Bold</strong>", "<em>soft</em>", "<br>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in page:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<script") || strings.Contains(html, `href="javascript:`) {
		t.Fatalf("unsafe markup leaked into page:\n%s", html)
	}
}

func TestIndexCardsInOrder(t *testing.T) {
	r := newRenderer(t)
	long := strings.Repeat("x", 130) + "\nsecond line"
	pages := pagesFor(
		entries.Entry{ID: "b", Image: "b.jpg", Description: long},
		entries.Entry{ID: "a", Image: "a b.jpg", Description: "**Short**"},
	)

	var buf bytes.Buffer
	if err := r.Index(&buf, pages); err != nil {
		t.Fatalf("Index: %v", err)
	}
	html := buf.String()
	if n := strings.Count(html, `class="card"`); n != 2 {
		t.Fatalf("expected 2 cards, got %d", n)
	}
	first := strings.Index(html, `href="b.html"`)
	second := strings.Index(html, `href="a.html"`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("cards not in load order:\n%s", html)
	}
	if !strings.Contains(html, strings.Repeat("x", 120)+"…") || strings.Contains(html, strings.Repeat("x", 121)) {
		t.Fatalf("expected preview truncated to 120 runes:\n%s", html)
	}
	if strings.Contains(html, "second line") {
		t.Fatal("preview must only use the first description line")
	}
	if !strings.Contains(html, "<div><strong>Short</strong></div>") {
		t.Fatalf("expected inline markdown without paragraphs:\n%s", html)
	}
	if !strings.Contains(html, `src="thumbs/a%20b.jpg"`) {
		t.Fatalf("expected escaped thumbnail path:\n%s", html)
	}
}

func TestStylesheet(t *testing.T) {
	css, err := Stylesheet()
	if err != nil {
		t.Fatalf("Stylesheet: %v", err)
	}
	if !bytes.Contains(css, []byte(".entry-card")) {
		t.Fatal("stylesheet missing entry styles")
	}
}
