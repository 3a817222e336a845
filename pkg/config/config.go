// Package config loads the office configuration shared by the command-line
// tools: the court fax dictionary, the firm's own identity, receipt layout
// tuning and the OCR and logging settings.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/gardar/faxreceipt/pkg/gdocai"
	"github.com/gardar/faxreceipt/pkg/pdfmark"
	"github.com/gardar/faxreceipt/pkg/receipt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the YAML file.
type Config struct {
	CourtFaxes  map[string]string `yaml:"court_faxes"`
	OwnIdentity OwnIdentity       `yaml:"own_identity"`
	Extraction  Extraction        `yaml:"extraction"`
	Anchors     Anchors           `yaml:"anchors"`
	Stamp       Stamp             `yaml:"stamp"`
	OCR         OCR               `yaml:"ocr"`
	DocumentAI  gdocai.Config     `yaml:"documentai"`
	Tesseract   Tesseract         `yaml:"tesseract"`
	Log         Log               `yaml:"log"`
}

// OwnIdentity lists what identifies the firm itself in a filing.
type OwnIdentity struct {
	LawyerNames []string `yaml:"lawyer_names"`
	FaxNumbers  []string `yaml:"fax_numbers"`
	FaxPatterns []string `yaml:"fax_patterns"` // regexps over "03-1234-5678" style numbers
}

// Extraction switches field extraction heuristics.
type Extraction struct {
	RequireCounselProximity bool `yaml:"require_counsel_proximity"`
}

// Anchors tunes the receipt layout, in pixels at the OCR resolution.
type Anchors struct {
	Label             string   `yaml:"label"`
	EraToken          string   `yaml:"era_token"`
	AgentToken        string   `yaml:"agent_token"`
	CounselToken      string   `yaml:"counsel_token"`
	StrikeTarget      string   `yaml:"strike_target"`
	PersonSuffix      string   `yaml:"person_suffix"`
	PartyTokens       []string `yaml:"party_tokens"`
	DateMarkers       []string `yaml:"date_markers"`
	ConfidentScore    int      `yaml:"confident_score"`
	LabelMargin       float64  `yaml:"label_margin"`
	LineTolerance     float64  `yaml:"line_tolerance"`
	SplitTolerance    float64  `yaml:"split_tolerance"`
	DateOffsetAbove   float64  `yaml:"date_offset_above"`
	EstimateLeft      float64  `yaml:"estimate_left"`
	EstimateHeight    float64  `yaml:"estimate_height"`
	SignatureQuantile float64  `yaml:"signature_quantile"`
}

// Stamp configures the receipt annotation.
type Stamp struct {
	LayerName   string  `yaml:"layer_name"`
	SignerName  string  `yaml:"signer_name"`
	FontName    string  `yaml:"font_name"`
	FontFile    string  `yaml:"font_file"`
	FontSize    float64 `yaml:"font_size"`
	FontFill    float64 `yaml:"font_fill"`
	StrikeWidth float64 `yaml:"strike_width"`
	Gap         float64 `yaml:"gap"`
}

// Tesseract configures the local OCR engine.
type Tesseract struct {
	Languages   []string          `yaml:"languages"`
	PageSegMode int               `yaml:"page_seg_mode"` // Tesseract --psm value
	Variables   map[string]string `yaml:"variables"`
}

// OCR caps the pages sent to an OCR engine.
type OCR struct {
	MaxPages     int `yaml:"max_pages"`
	MinTextChars int `yaml:"min_text_chars"` // below this the text layer is ignored
}

// Default returns a configuration usable without a file. The court fax
// dictionary is empty: numbers come from the office's own file.
func Default() Config {
	r := receipt.DefaultConfig()
	s := pdfmark.DefaultConfig()
	return Config{
		CourtFaxes: map[string]string{},
		Anchors: Anchors{
			Label:             r.Label,
			EraToken:          r.EraToken,
			AgentToken:        r.AgentToken,
			CounselToken:      r.CounselToken,
			StrikeTarget:      r.StrikeTarget,
			PersonSuffix:      r.PersonSuffix,
			PartyTokens:       r.PartyTokens,
			DateMarkers:       r.DateMarkers,
			ConfidentScore:    r.ConfidentScore,
			LabelMargin:       r.LabelMargin,
			LineTolerance:     r.LineTolerance,
			SplitTolerance:    r.SplitTolerance,
			DateOffsetAbove:   r.DateOffsetAbove,
			EstimateLeft:      r.EstimateLeft,
			EstimateHeight:    r.EstimateHeight,
			SignatureQuantile: r.SignatureQuantile,
		},
		Stamp: Stamp{
			LayerName:   s.LayerName,
			FontName:    s.Font.Name,
			FontSize:    s.Font.Size,
			FontFill:    s.Font.Fill,
			StrikeWidth: s.StrikeWidth,
			Gap:         s.Gap,
		},
		OCR:       OCR{MaxPages: 3, MinTextChars: 20},
		Tesseract: Tesseract{Languages: []string{"jpn"}, PageSegMode: 3},
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting no component could work with.
func (c Config) Validate() error {
	a := c.Anchors
	switch {
	case a.Label == "":
		return fmt.Errorf("%w: anchors.label is empty", ErrInvalidConfig)
	case a.StrikeTarget == "":
		return fmt.Errorf("%w: anchors.strike_target is empty", ErrInvalidConfig)
	case a.LabelMargin < 0, a.LineTolerance < 0, a.SplitTolerance < 0,
		a.DateOffsetAbove < 0, a.EstimateLeft < 0, a.EstimateHeight < 0:
		return fmt.Errorf("%w: anchor tolerances and offsets must not be negative", ErrInvalidConfig)
	case a.SignatureQuantile < 0 || a.SignatureQuantile > 1:
		return fmt.Errorf("%w: anchors.signature_quantile must be within [0, 1]", ErrInvalidConfig)
	case c.Stamp.LayerName == "":
		return fmt.Errorf("%w: stamp.layer_name is empty", ErrInvalidConfig)
	case c.Stamp.FontFill <= 0 || c.Stamp.FontFill > 1:
		return fmt.Errorf("%w: stamp.font_fill must be within (0, 1]", ErrInvalidConfig)
	case c.Tesseract.PageSegMode < 0 || c.Tesseract.PageSegMode > 13:
		return fmt.Errorf("%w: tesseract.page_seg_mode must be within [0, 13]", ErrInvalidConfig)
	case c.OCR.MaxPages < 0:
		return fmt.Errorf("%w: ocr.max_pages must not be negative", ErrInvalidConfig)
	}
	for court, fax := range c.CourtFaxes {
		if court == "" || fax == "" {
			return fmt.Errorf("%w: court_faxes entry %q: %q", ErrInvalidConfig, court, fax)
		}
	}
	if _, err := c.faxPatterns(); err != nil {
		return err
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) faxPatterns() ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range c.OwnIdentity.FaxPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: own_identity.fax_patterns %q: %v", ErrInvalidConfig, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
