// receiptmark stamps the receipt acknowledgement page of a filing: it strikes
// through the addressee word and writes the receipt date and the signer's name
// next to their printed titles.
//
// The page is found and measured from OCR word grids, given as an hOCR file,
// the JSON word grids saved by docinfo, or page images recognized here with
// Tesseract. Grid page N must be a rendering of PDF page N.
//
// Usage:
//
//	receiptmark --pdf filing.pdf --output stamped.pdf (--hocr | --words | --images) [options]
//
// Required flags:
//
//	--pdf string        Filing PDF to stamp
//	--output string     Output PDF path
//
// Word grid options (one required):
//
//	--hocr string       hOCR file of the rasterized pages
//	--words string      Word grid JSON saved by docinfo --words
//	--images strings    Page images recognized with Tesseract, in page order
//
// Stamp options:
//
//	--date string       Text written after the era word (default today as "8年10月18日")
//	--signer string     Signer name (default from config)
//	--debug             Outline the anchor slots
//	--force             Stamp again even if a stamp layer already exists
//	--overwrite         Overwrite the output file if it exists
//
// Example:
//
//	receiptmark --config office.yaml --pdf filing.pdf --hocr filing.hocr --output filing_received.pdf
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/gardar/faxreceipt/pkg/config"
	"github.com/gardar/faxreceipt/pkg/hocr"
	"github.com/gardar/faxreceipt/pkg/pdfmark"
	"github.com/gardar/faxreceipt/pkg/receipt"
	"github.com/gardar/faxreceipt/pkg/tesseract"
)

// reiwaStart is the first year of the current era.
const reiwaStart = 2019

type options struct {
	configPath string
	pdfPath    string
	outputPath string
	hocrPath   string
	wordsPath  string
	imagePaths []string
	date       string
	signer     string
	debug      bool
	force      bool
	overwrite  bool
	logLevel   string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to the config YAML file")
	flag.StringVar(&o.pdfPath, "pdf", "", "Path to the filing PDF to stamp")
	flag.StringVar(&o.outputPath, "output", "", "Output PDF path")
	flag.StringVar(&o.hocrPath, "hocr", "", "Path to an hOCR file of the rasterized pages")
	flag.StringVar(&o.wordsPath, "words", "", "Path to word grid JSON saved by docinfo")
	flag.StringSliceVar(&o.imagePaths, "images", nil, "Page images recognized with Tesseract, in page order")
	flag.StringVar(&o.date, "date", "", "Text written after the era word (default today's era date)")
	flag.StringVar(&o.signer, "signer", "", "Signer name (default from config)")
	flag.BoolVar(&o.debug, "debug", false, "Outline the anchor slots in red")
	flag.BoolVar(&o.force, "force", false, "Stamp again even if a stamp layer is already detected")
	flag.BoolVar(&o.overwrite, "overwrite", false, "Overwrite the output PDF if it already exists")
	flag.StringVar(&o.logLevel, "log-level", "", "Override the configured log level")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.pdfPath == "" || o.outputPath == "" {
		flag.Usage()
		return fmt.Errorf("--pdf and --output are required")
	}
	grids := 0
	for _, set := range []bool{o.hocrPath != "", o.wordsPath != "", len(o.imagePaths) > 0} {
		if set {
			grids++
		}
	}
	if grids != 1 {
		flag.Usage()
		return fmt.Errorf("exactly one of --hocr, --words or --images must be provided")
	}
	if _, err := os.Stat(o.outputPath); err == nil && !o.overwrite {
		return fmt.Errorf("output file %s already exists, use --overwrite to overwrite", o.outputPath)
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

	pages, err := readPages(o, cfg, log)
	if err != nil {
		return err
	}
	pdfBytes, err := os.ReadFile(o.pdfPath)
	if err != nil {
		return fmt.Errorf("failed to read input PDF: %w", err)
	}

	finder := receipt.New(cfg.ReceiptConfig(), receipt.WithLogger(log))
	located, ok := finder.Locate(pages)
	if !ok {
		return fmt.Errorf("word grids have no pages")
	}
	log.WithFields(logrus.Fields{
		"page":    located.Page.Number,
		"score":   located.Score.Total,
		"visited": located.Visited,
	}).Info("located receipt page")

	set := finder.Detect(located.Page.Words, located.Page.Height)
	log.WithFields(set.Fields()).Info("detected receipt anchors")
	if set.StrikeTarget == nil {
		log.Warn("addressee word not found, the strike-through is skipped")
	}

	sizes, err := pdfmark.PageSizes(pdfBytes)
	if err != nil {
		return err
	}
	if located.Page.Number < 1 || located.Page.Number > len(sizes) {
		return fmt.Errorf("receipt page %d is not in the PDF (%d pages)", located.Page.Number, len(sizes))
	}
	size := sizes[located.Page.Number-1]
	mapper := pdfmark.Mapper{
		ImageWidth:  located.Page.Width,
		ImageHeight: located.Page.Height,
		PageWidth:   size.Width,
		PageHeight:  size.Height,
	}
	pos := pdfmark.Position(located.Page.Number, set, mapper)

	stamp := cfg.StampConfig(log)
	stamp.Debug = o.debug
	stamp.Force = o.force
	stamp.DateText = o.date
	if stamp.DateText == "" {
		stamp.DateText = eraDate(time.Now())
	}
	if o.signer != "" {
		stamp.SignerName = o.signer
	}

	out, err := pdfmark.Stamp(pdfBytes, pos, stamp)
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.outputPath, out, 0666); err != nil {
		return fmt.Errorf("failed to write output PDF: %w", err)
	}
	log.WithField("path", o.outputPath).Info("receipt page stamped")
	return nil
}

func readPages(o options, cfg config.Config, log logrus.FieldLogger) ([]receipt.Page, error) {
	switch {
	case o.hocrPath != "":
		data, err := os.ReadFile(o.hocrPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read hOCR file: %w", err)
		}
		doc, err := hocr.Parse(data)
		if err != nil {
			return nil, err
		}
		return doc.ReceiptPages(), nil

	case o.wordsPath != "":
		data, err := os.ReadFile(o.wordsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read word grids: %w", err)
		}
		var pages []receipt.Page
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("failed to decode word grids: %w", err)
		}
		return pages, nil
	}

	tc := tesseract.DefaultConfig()
	tc.Languages = cfg.Tesseract.Languages
	tc.PageSegMode = gosseract.PageSegMode(cfg.Tesseract.PageSegMode)
	tc.Variables = cfg.Tesseract.Variables
	tc.Logger = log

	var pages []receipt.Page
	for i, path := range o.imagePaths {
		img, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", path, err)
		}
		page, _, err := tesseract.RecognizePage(img, i+1, tc)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// eraDate formats t as the part of a date that follows the era name, for
// example "8年10月18日". The first year of the era is written "元".
func eraDate(t time.Time) string {
	year := "元"
	if y := t.Year() - reiwaStart + 1; y > 1 {
		year = strconv.Itoa(y)
	}
	return fmt.Sprintf("%s年%d月%d日", year, t.Month(), t.Day())
}
