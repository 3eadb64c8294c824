package config

const (
	defaultSpreadsheet    = "entries.xlsx"
	defaultImagesDir      = "images"
	defaultOutputDir      = "site"
	defaultSiteTitle      = "QR-Geschenk"
	defaultSiteLang       = "de"
	defaultIndexHeading   = "Alle Einträge"
	defaultEntryLabel     = "Eintrag"
	defaultBackLabel      = "← Zurück zur Übersicht"
	defaultPrevLabel      = "« Vorheriger"
	defaultNextLabel      = "Nächster »"
	defaultLinkLabel      = "Link"
	defaultQRCaption      = "QR-Code zu dieser Seite"
	defaultFooter         = "Erstellt mit ❤️ fürs Geschenk"
	defaultMaxImageWidth  = 1600
	defaultThumbWidth     = 600
	defaultJPEGQuality    = 88
	defaultQRLevel        = "medium"
	defaultQRModulePixels = 10
	defaultPageWidthMM    = 210.0
	defaultPageHeightMM   = 297.0
	defaultLabelCols      = 4
	defaultLabelRows      = 6
	defaultCellMM         = 45.0
	defaultLabelMarginMM  = 8.0
	defaultLabelGapMM     = 3.0
	defaultFontSize       = 9.0
	defaultMinFontSize    = 5.0
	defaultLabelDPI       = 300
	defaultMinModuleMM    = 0.4
	defaultDeployBranch   = "gh-pages"
	defaultCommitMessage  = "Deploy site"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Spreadsheet: defaultSpreadsheet,
			ImagesDir:   defaultImagesDir,
			OutputDir:   defaultOutputDir,
		},
		Site: Site{
			Title:        defaultSiteTitle,
			Lang:         defaultSiteLang,
			IndexHeading: defaultIndexHeading,
			EntryLabel:   defaultEntryLabel,
			BackLabel:    defaultBackLabel,
			PrevLabel:    defaultPrevLabel,
			NextLabel:    defaultNextLabel,
			LinkLabel:    defaultLinkLabel,
			QRCaption:    defaultQRCaption,
			Footer:       defaultFooter,
		},
		Images: Images{
			MaxWidth:    defaultMaxImageWidth,
			ThumbWidth:  defaultThumbWidth,
			JPEGQuality: defaultJPEGQuality,
			ExifDates:   true,
		},
		QR: QR{
			Level:        defaultQRLevel,
			ModulePixels: defaultQRModulePixels,
		},
		Labels: Labels{
			PageWidthMM:  defaultPageWidthMM,
			PageHeightMM: defaultPageHeightMM,
			Cols:         defaultLabelCols,
			Rows:         defaultLabelRows,
			CellMM:       defaultCellMM,
			MarginLeftMM: defaultLabelMarginMM,
			MarginTopMM:  defaultLabelMarginMM,
			HGapMM:       defaultLabelGapMM,
			VGapMM:       defaultLabelGapMM,
			Captions:     true,
			FontSize:     defaultFontSize,
			MinFontSize:  defaultMinFontSize,
			DPI:          defaultLabelDPI,
			MinModuleMM:  defaultMinModuleMM,
		},
		Output: Output{
			Preserve: []string{".git"},
		},
		Deploy: Deploy{
			Branch:        defaultDeployBranch,
			CommitMessage: defaultCommitMessage,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
