// docinfo extracts the case fields of a Japanese court filing and optionally
// fills them into a fax cover sheet template.
//
// The text comes from, in order of preference: a plain text file, the PDF's
// embedded text layer, or OCR (Google Document AI or local Tesseract) when the
// text layer is missing or too short.
//
// Usage:
//
//	docinfo --pdf filing.pdf [options]
//
// Input options (one required):
//
//	--pdf string        Filing PDF; its text layer is tried first
//	--text string       Plain text transcript
//	--images strings    Rasterized page images for Tesseract, in page order
//
// OCR options:
//
//	--ocr string        OCR engine when the text layer is unusable: documentai, tesseract or none (default "documentai")
//	--pdfs strings      Single-page PDFs sent to Document AI as one document
//
// Output options:
//
//	--json string       Path to save the extracted fields (default stdout)
//	--trace             Write every candidate and fax decision instead of the fields only
//	--words string      Path to save the OCR word grids, input of receiptmark
//	--template string   .docx cover sheet with {{field}} placeholders
//	--output string     Path to save the filled cover sheet
//	--debug-api string  Path to save the raw Document AI response as JSON
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	docinfo --config office.yaml --pdf filing.pdf --words filing.words.json \
//	    --template cover.docx --output cover_filled.docx
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/gardar/faxreceipt/pkg/config"
	"github.com/gardar/faxreceipt/pkg/fields"
	"github.com/gardar/faxreceipt/pkg/gdocai"
	"github.com/gardar/faxreceipt/pkg/receipt"
	"github.com/gardar/faxreceipt/pkg/richtext"
	"github.com/gardar/faxreceipt/pkg/tesseract"
	"github.com/gardar/faxreceipt/pkg/textlayer"
)

type options struct {
	configPath   string
	pdfPath      string
	pdfPaths     []string
	textPath     string
	imagePaths   []string
	ocr          string
	jsonPath     string
	trace        bool
	wordsPath    string
	templatePath string
	outputPath   string
	debugAPIPath string
	logLevel     string
	overwrite    bool
}

// source is the text of a filing and, when OCR ran, its word grids.
type source struct {
	text  string
	pages []receipt.Page
	from  string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to the config YAML file")
	flag.StringVar(&o.pdfPath, "pdf", "", "Path to the filing PDF")
	flag.StringSliceVar(&o.pdfPaths, "pdfs", nil, "Single-page PDFs processed by Document AI as one document")
	flag.StringVar(&o.textPath, "text", "", "Path to a plain text transcript")
	flag.StringSliceVar(&o.imagePaths, "images", nil, "Page images recognized with Tesseract, in page order")
	flag.StringVar(&o.ocr, "ocr", "documentai", "OCR engine when the text layer is unusable: documentai, tesseract or none")
	flag.StringVar(&o.jsonPath, "json", "", "Path to save the extracted fields as JSON (default stdout)")
	flag.BoolVar(&o.trace, "trace", false, "Write all candidates and fax decisions")
	flag.StringVar(&o.wordsPath, "words", "", "Path to save OCR word grids as JSON")
	flag.StringVar(&o.templatePath, "template", "", "Cover sheet .docx with {{field}} placeholders")
	flag.StringVar(&o.outputPath, "output", "", "Path to save the filled cover sheet")
	flag.StringVar(&o.debugAPIPath, "debug-api", "", "Path to save the raw Document AI response as JSON")
	flag.StringVar(&o.logLevel, "log-level", "", "Override the configured log level")
	flag.BoolVar(&o.overwrite, "overwrite", false, "Overwrite output files that already exist")
	flag.Parse()

	if err := run(context.Background(), o); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	inputs := 0
	for _, set := range []bool{o.pdfPath != "" || len(o.pdfPaths) > 0, o.textPath != "", len(o.imagePaths) > 0} {
		if set {
			inputs++
		}
	}
	if inputs != 1 {
		flag.Usage()
		return fmt.Errorf("exactly one of --pdf/--pdfs, --text or --images must be provided")
	}
	if (o.templatePath == "") != (o.outputPath == "") {
		return fmt.Errorf("--template and --output must be used together")
	}
	for _, path := range []string{o.jsonPath, o.wordsPath, o.outputPath, o.debugAPIPath} {
		if err := checkOutput(path, o.overwrite); err != nil {
			return err
		}
	}

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	log, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	src, err := readSource(ctx, o, cfg, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"source": src.from, "chars": len([]rune(src.text)), "pages": len(src.pages)}).
		Info("read filing text")

	fc, err := cfg.FieldsConfig()
	if err != nil {
		return err
	}
	trace := fields.New(fc, fields.WithLogger(log)).Explain(src.text)
	info := trace.Info
	for _, w := range info.Warnings() {
		log.Warn(w)
	}

	var out any = info
	if o.trace {
		out = trace
	}
	if err := writeJSON(o.jsonPath, out); err != nil {
		return err
	}

	if o.wordsPath != "" {
		if len(src.pages) == 0 {
			log.Warn("no OCR word grids to save; the text came from a text layer or transcript")
		} else if err := writeJSON(o.wordsPath, src.pages); err != nil {
			return err
		}
	}

	if o.templatePath != "" {
		template, err := os.ReadFile(o.templatePath)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		filled, n, err := richtext.ReplaceInDocx(template, placeholders(info))
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.outputPath, filled, 0644); err != nil {
			return fmt.Errorf("failed to write cover sheet: %w", err)
		}
		log.WithFields(logrus.Fields{"replacements": n, "path": o.outputPath}).Info("filled cover sheet")
	}
	return nil
}

// readSource picks the text source. Only the first cfg.OCR.MaxPages pages are
// read or recognized.
func readSource(ctx context.Context, o options, cfg config.Config, log logrus.FieldLogger) (source, error) {
	switch {
	case o.textPath != "":
		data, err := os.ReadFile(o.textPath)
		if err != nil {
			return source{}, fmt.Errorf("failed to read text: %w", err)
		}
		return source{text: string(data), from: "text"}, nil

	case len(o.imagePaths) > 0:
		return recognizeImages(o.imagePaths, cfg, log)
	}

	var pdfBytes []byte
	if o.pdfPath != "" {
		var err error
		if pdfBytes, err = os.ReadFile(o.pdfPath); err != nil {
			return source{}, fmt.Errorf("failed to read PDF file: %w", err)
		}
		layer, err := textlayer.Extract(pdfBytes, cfg.OCR.MaxPages)
		if err != nil {
			log.WithError(err).Warn("text layer unreadable")
		} else if layer.Usable(cfg.OCR.MinTextChars) {
			return source{text: layer.Text(), from: "text-layer"}, nil
		}
		log.Info("text layer missing or too short, falling back to OCR")
	}

	switch o.ocr {
	case "documentai":
		return recognizeDocumentAI(ctx, o, pdfBytes, cfg)
	case "none":
		return source{from: "none"}, nil
	case "tesseract":
		return source{}, fmt.Errorf("tesseract needs rasterized pages, pass them with --images")
	default:
		return source{}, fmt.Errorf("unknown --ocr engine %q", o.ocr)
	}
}

func recognizeDocumentAI(ctx context.Context, o options, pdfBytes []byte, cfg config.Config) (source, error) {
	var result *gdocai.Result
	var err error
	if len(o.pdfPaths) > 0 {
		var pages [][]byte
		for _, path := range capPages(o.pdfPaths, cfg.OCR.MaxPages) {
			page, err := os.ReadFile(strings.TrimSpace(path))
			if err != nil {
				return source{}, fmt.Errorf("failed to read PDF file %s: %w", path, err)
			}
			pages = append(pages, page)
		}
		result, err = gdocai.RecognizePages(ctx, pages, cfg.DocumentAI)
	} else {
		result, err = gdocai.Recognize(ctx, pdfBytes, cfg.DocumentAI)
	}
	if err != nil {
		return source{}, err
	}

	if o.debugAPIPath != "" {
		if result.Raw == nil {
			fmt.Fprintln(os.Stderr, "Warning: Raw API response not available when processing multiple PDF files")
		} else {
			apiJSON, err := gdocai.ToJSON(result.Raw)
			if err != nil {
				return source{}, fmt.Errorf("failed to convert API response to JSON: %w", err)
			}
			if err := os.WriteFile(o.debugAPIPath, []byte(apiJSON), 0644); err != nil {
				return source{}, fmt.Errorf("failed to write API response JSON: %w", err)
			}
		}
	}
	return source{text: result.Text, pages: result.Pages, from: "documentai"}, nil
}

func recognizeImages(paths []string, cfg config.Config, log logrus.FieldLogger) (source, error) {
	tc := tesseract.DefaultConfig()
	tc.Languages = cfg.Tesseract.Languages
	tc.PageSegMode = gosseract.PageSegMode(cfg.Tesseract.PageSegMode)
	tc.Variables = cfg.Tesseract.Variables
	tc.Logger = log

	src := source{from: "tesseract"}
	var texts []string
	for i, path := range capPages(paths, cfg.OCR.MaxPages) {
		img, err := os.ReadFile(path)
		if err != nil {
			return source{}, fmt.Errorf("failed to read image %s: %w", path, err)
		}
		page, text, err := tesseract.RecognizePage(img, i+1, tc)
		if err != nil {
			return source{}, fmt.Errorf("page %d: %w", i+1, err)
		}
		src.pages = append(src.pages, page)
		texts = append(texts, text)
	}
	src.text = strings.Join(texts, "\n\n")
	return src, nil
}

func capPages(paths []string, limit int) []string {
	if limit > 0 && len(paths) > limit {
		return paths[:limit]
	}
	return paths
}

// placeholders maps "{{field}}" to each field value, empty ones to "" so no
// placeholder survives in the filled sheet.
func placeholders(info fields.DocumentInfo) map[string]string {
	out := map[string]string{}
	for k, v := range info.AllFields() {
		out["{{"+k+"}}"] = v
	}
	return out
}

func checkOutput(path string, overwrite bool) error {
	if path == "" || overwrite {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("output file %s already exists, use --overwrite to overwrite", path)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
