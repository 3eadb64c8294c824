// Package render turns loaded entries into the HTML pages of the site.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"

	"qrsite/internal/config"
	"qrsite/internal/entries"
	"qrsite/internal/textutil"
)

//go:embed templates
var templateFS embed.FS

// PreviewRunes caps the description preview on index cards.
const PreviewRunes = 120

// Output directories inside the site, relative to the pages.
const (
	ImagesDir = "images"
	ThumbsDir = "thumbs"
	QRDir     = "qr"
	IndexPage = "index.html"
	StyleFile = "style.css"
)

// Page is everything a single entry page needs.
type Page struct {
	Entry     entries.Entry
	Date      string
	TargetURL string
	ImagePath string
	ThumbPath string
	QRPath    string
	Width     int
	Height    int
}

// NewPage fills the site-relative paths for an entry.
func NewPage(entry entries.Entry, targetURL, displayDate string) Page {
	image := path.Clean(entry.Image)
	return Page{
		Entry:     entry,
		Date:      displayDate,
		TargetURL: targetURL,
		ImagePath: path.Join(ImagesDir, image),
		ThumbPath: path.Join(ThumbsDir, image),
		QRPath:    path.Join(QRDir, entry.ID+".png"),
	}
}

// Renderer executes the page templates with one site's strings.
type Renderer struct {
	site     config.Site
	entry    *template.Template
	index    *template.Template
	markdown goldmark.Markdown
	body     *bluemonday.Policy
	inline   *bluemonday.Policy
}

type entryView struct {
	Site        config.Site
	Page        Page
	Description template.HTML
	Prev        *Page
	Next        *Page
}

type card struct {
	Page    Page
	Preview template.HTML
}

type indexView struct {
	Site  config.Site
	Cards []card
}

// New parses the embedded templates.
func New(site config.Site) (*Renderer, error) {
	entryTmpl, err := template.ParseFS(templateFS, "templates/entry.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse entry template: %w", err)
	}
	indexTmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(mdhtml.WithHardWraps()),
	)
	inline := bluemonday.NewPolicy()
	inline.AllowElements("strong", "em", "b", "i", "del", "code", "br")
	return &Renderer{
		site:     site,
		entry:    entryTmpl,
		index:    indexTmpl,
		markdown: md,
		body:     bluemonday.UGCPolicy(),
		inline:   inline,
	}, nil
}

// Entry writes the page for pages[i], linking to its neighbours.
func (r *Renderer) Entry(w io.Writer, pages []Page, i int) error {
	if i < 0 || i >= len(pages) {
		return fmt.Errorf("entry index %d out of range", i)
	}
	desc, err := r.markdownHTML(pages[i].Entry.Description, r.body)
	if err != nil {
		return fmt.Errorf("render description of %s: %w", pages[i].Entry.ID, err)
	}
	view := entryView{Site: r.site, Page: pages[i], Description: desc}
	if i > 0 {
		view.Prev = &pages[i-1]
	}
	if i < len(pages)-1 {
		view.Next = &pages[i+1]
	}
	return r.entry.Execute(w, view)
}

// Index writes the overview page with one card per entry in order.
func (r *Renderer) Index(w io.Writer, pages []Page) error {
	view := indexView{Site: r.site, Cards: make([]card, 0, len(pages))}
	for _, p := range pages {
		preview := textutil.Truncate(textutil.FirstLine(p.Entry.Description), PreviewRunes)
		html, err := r.markdownHTML(preview, r.inline)
		if err != nil {
			return fmt.Errorf("render preview of %s: %w", p.Entry.ID, err)
		}
		view.Cards = append(view.Cards, card{Page: p, Preview: html})
	}
	return r.index.Execute(w, view)
}

// Stylesheet returns the shared CSS file.
func Stylesheet() ([]byte, error) {
	return templateFS.ReadFile("templates/" + StyleFile)
}

func (r *Renderer) markdownHTML(source string, policy *bluemonday.Policy) (template.HTML, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(bytes.TrimSpace(policy.SanitizeBytes(buf.Bytes()))), nil
}
