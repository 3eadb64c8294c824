package sitebuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"qrsite/internal/assets"
	"qrsite/internal/config"
	"qrsite/internal/entries"
	"qrsite/internal/labels"
	"qrsite/internal/logging"
	"qrsite/internal/photo"
	"qrsite/internal/qr"
	"qrsite/internal/render"
	"qrsite/internal/site"
)

// Output file names of the optional PDF sheets.
const (
	LabelsFile   = "qrcodes_labels.pdf"
	OverviewFile = "qrcodes.pdf"
)

// Options selects the optional outputs of a build.
type Options struct {
	Labels   bool
	Overview bool
}

// Summary describes a finished build.
type Summary struct {
	RunID         string
	Output        string
	BaseURL       string
	Entries       int
	Files         int
	LabelPages    int
	OverviewPages int
	Duration      time.Duration
}

// Builder owns the components of one build.
type Builder struct {
	cfg      *config.Config
	opts     Options
	logger   *slog.Logger
	gen      *qr.Generator
	renderer *render.Renderer
	labels   *labels.Builder
	overview *labels.Builder
}

// New validates everything that can be checked without touching the disk:
// the base URL, the QR settings and the PDF sheet geometry.
func New(cfg *config.Config, opts Options, logger *slog.Logger) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sitebuild: config is required")
	}
	logger = logging.NewComponentLogger(logger, "build")
	gen, err := qr.NewGenerator(cfg.Site.BaseURL, cfg.QR.Level, cfg.QR.ModulePixels)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(cfg.Site)
	if err != nil {
		return nil, err
	}
	b := &Builder{cfg: cfg, opts: opts, logger: logger, gen: gen, renderer: renderer}
	if opts.Labels {
		if b.labels, err = labels.NewBuilder(labels.FromConfig(cfg.Labels), gen, cfg.Site.Title, logger); err != nil {
			return nil, err
		}
	}
	if opts.Overview {
		if b.overview, err = labels.NewBuilder(labels.Overview(cfg.Labels), gen, cfg.Site.Title, logger); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build validates the configuration and runs the pipeline once.
func Build(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (Summary, error) {
	b, err := New(cfg, opts, logger)
	if err != nil {
		return Summary{}, err
	}
	return b.Run(ctx)
}

// Run loads the inputs and writes the site.
func (b *Builder) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	if _, ok := logging.RunIDFromContext(ctx); !ok {
		ctx = logging.WithRunID(ctx, "")
	}
	runID, _ := logging.RunIDFromContext(ctx)
	logger := logging.WithContext(ctx, b.logger)
	cfg := b.cfg

	list, err := entries.Load(cfg.Paths.Spreadsheet)
	if err != nil {
		return Summary{}, err
	}
	logger.Info("spreadsheet loaded",
		logging.String("path", cfg.Paths.Spreadsheet),
		logging.Int("entries", len(list)),
	)
	resolved, err := assets.NewResolver(cfg.Paths.ImagesDir).ResolveAll(list)
	if err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	lock, err := site.AcquireLock(cfg.Paths.OutputDir)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	stage, err := site.NewStage(cfg.Paths.OutputDir, cfg.Output.Preserve, logger)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := stage.Discard(); err != nil {
			logger.Warn("failed to remove staging directory", logging.Error(err))
		}
	}()

	summary := Summary{
		RunID:   runID,
		Output:  cfg.Paths.OutputDir,
		BaseURL: b.gen.BaseURL(),
		Entries: len(resolved),
	}
	if err := b.populate(ctx, stage, resolved, &summary, logger); err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	if err := stage.Commit(); err != nil {
		return Summary{}, err
	}
	summary.Files = len(stage.Files())
	summary.Duration = time.Since(start)
	logger.Info("site written",
		logging.String("output", summary.Output),
		logging.Int("entries", summary.Entries),
		logging.Int("files", summary.Files),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (b *Builder) populate(ctx context.Context, stage *site.Stage, resolved []assets.Resolved, summary *Summary, logger *slog.Logger) error {
	pages := make([]render.Page, 0, len(resolved))
	for _, item := range resolved {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := b.stageEntry(stage, item, logger)
		if err != nil {
			return err
		}
		pages = append(pages, page)
	}

	for i := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stage.Write(pages[i].Entry.PageName(), func(w io.Writer) error {
			return b.renderer.Entry(w, pages, i)
		}); err != nil {
			return err
		}
	}
	if err := stage.Write(render.IndexPage, func(w io.Writer) error {
		return b.renderer.Index(w, pages)
	}); err != nil {
		return err
	}
	css, err := render.Stylesheet()
	if err != nil {
		return err
	}
	if err := stage.WriteFile(render.StyleFile, css); err != nil {
		return err
	}
	if err := stage.WriteFile(site.NoJekyll, nil); err != nil {
		return err
	}

	items := make([]labels.Item, len(pages))
	for i, p := range pages {
		items[i] = labels.Item{EntryID: p.Entry.ID, Caption: b.cfg.Site.EntryLabel + " " + p.Entry.ID}
	}
	if b.labels != nil {
		n, err := writeSheet(stage, LabelsFile, b.labels, items)
		if err != nil {
			return err
		}
		summary.LabelPages = n
		logger.Info("label sheet written", logging.Int("pages", n))
	}
	if b.overview != nil {
		n, err := writeSheet(stage, OverviewFile, b.overview, items)
		if err != nil {
			return err
		}
		summary.OverviewPages = n
		logger.Info("overview sheet written", logging.Int("pages", n))
	}
	return nil
}

// stageEntry copies the entry's image and thumbnail, writes its QR code and
// returns the data its page needs.
func (b *Builder) stageEntry(stage *site.Stage, item assets.Resolved, logger *slog.Logger) (render.Page, error) {
	entry := item.Entry
	page := render.NewPage(entry, b.gen.URL(entry.ID), entries.DisplayDate(entry.Date))
	if page.Date == "" && b.cfg.Images.ExifDates {
		if t, ok := photo.ExifDate(item.Path); ok {
			page.Date = t.Format(entries.DisplayLayout)
		}
	}

	imagePath, err := stage.Path(page.ImagePath)
	if err != nil {
		return render.Page{}, err
	}
	res, err := photo.Fit(item.Path, imagePath, b.cfg.Images.MaxWidth, b.cfg.Images.JPEGQuality)
	if err != nil {
		return render.Page{}, fmt.Errorf("entry %s: %w", entry.ID, err)
	}
	stage.Record(page.ImagePath)
	page.Width, page.Height = res.Width, res.Height
	if !photo.Decodable(item.Path) {
		logger.Warn("image copied without resizing; most browsers cannot display this format",
			logging.String(logging.FieldEntryID, entry.ID),
			logging.String("image", entry.Image),
			logging.Alert("undecodable_image"),
		)
	}

	thumbPath, err := stage.Path(page.ThumbPath)
	if err != nil {
		return render.Page{}, err
	}
	if _, err := photo.Fit(imagePath, thumbPath, b.cfg.Images.ThumbWidth, b.cfg.Images.JPEGQuality); err != nil {
		return render.Page{}, fmt.Errorf("entry %s thumbnail: %w", entry.ID, err)
	}
	stage.Record(page.ThumbPath)

	png, err := b.gen.PNG(entry.ID)
	if err != nil {
		return render.Page{}, err
	}
	if err := stage.WriteFile(page.QRPath, png); err != nil {
		return render.Page{}, err
	}
	logger.Debug("entry staged",
		logging.String(logging.FieldEntryID, entry.ID),
		logging.String("image", path.Base(page.ImagePath)),
		logging.Bool("verbatim", res.Verbatim),
	)
	return page, nil
}

func writeSheet(stage *site.Stage, name string, builder *labels.Builder, items []labels.Item) (int, error) {
	var pages int
	err := stage.Write(name, func(w io.Writer) error {
		sheet, err := builder.Build(w, items)
		pages = sheet.Pages
		return err
	})
	return pages, err
}
