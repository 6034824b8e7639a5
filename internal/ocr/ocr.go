package ocr

import (
	"log/slog"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdfimages string // binary name or absolute path; if empty -> "pdfimages"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	MaxPages      int // 0 = no limit

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	MinImageSide int // images with a side below this many pixels are skipped
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithRunner replaces the exec-backed runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdfimages == "" {
		cfg.Pdfimages = "pdfimages"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	e := &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Language returns the tesseract language the extractor runs with.
func (e *Extractor) Language() string { return e.cfg.TesseractLang }
