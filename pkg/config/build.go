package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/faxreceipt/pkg/fields"
	"github.com/gardar/faxreceipt/pkg/pdfmark"
	"github.com/gardar/faxreceipt/pkg/receipt"
)

// Log configures the logrus output of the tools.
type Log struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text or json
}

func (l Log) level() (logrus.Level, error) {
	if l.Level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}

// NewLogger returns a logger writing to w at the configured level and format.
func (l Log) NewLogger(w io.Writer) (*logrus.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	switch strings.ToLower(l.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: log.format %q, want text or json", ErrInvalidConfig, l.Format)
	}
	return logger, nil
}

// FieldsConfig builds the field extractor input.
func (c Config) FieldsConfig() (fields.Config, error) {
	patterns, err := c.faxPatterns()
	if err != nil {
		return fields.Config{}, err
	}
	return fields.Config{
		CourtFaxes:              c.CourtFaxes,
		OwnLawyerNames:          c.OwnIdentity.LawyerNames,
		OwnFaxNumbers:           c.OwnIdentity.FaxNumbers,
		OwnFaxPatterns:          patterns,
		RequireCounselProximity: c.Extraction.RequireCounselProximity,
	}, nil
}

// ReceiptConfig builds the receipt layout, keeping the default scoring.
func (c Config) ReceiptConfig() receipt.Config {
	r := receipt.DefaultConfig()
	a := c.Anchors
	r.Label = a.Label
	r.EraToken = a.EraToken
	r.AgentToken = a.AgentToken
	r.CounselToken = a.CounselToken
	r.StrikeTarget = a.StrikeTarget
	r.PersonSuffix = a.PersonSuffix
	r.PartyTokens = append([]string(nil), a.PartyTokens...)
	r.DateMarkers = append([]string(nil), a.DateMarkers...)
	if a.ConfidentScore > 0 {
		r.ConfidentScore = a.ConfidentScore
	}
	r.LabelMargin = a.LabelMargin
	r.LineTolerance = a.LineTolerance
	r.SplitTolerance = a.SplitTolerance
	r.DateOffsetAbove = a.DateOffsetAbove
	r.EstimateLeft = a.EstimateLeft
	r.EstimateHeight = a.EstimateHeight
	r.SignatureQuantile = a.SignatureQuantile
	return r
}

// StampConfig builds the annotation settings. DateText is left to the caller.
func (c Config) StampConfig(logger logrus.FieldLogger) pdfmark.StampConfig {
	s := pdfmark.DefaultConfig()
	st := c.Stamp
	s.LayerName = st.LayerName
	s.SignerName = st.SignerName
	s.StrikeWidth = st.StrikeWidth
	s.Gap = st.Gap
	s.Font.File = st.FontFile
	if st.FontName != "" {
		s.Font.Name = st.FontName
	}
	if st.FontSize > 0 {
		s.Font.Size = st.FontSize
	}
	s.Font.Fill = st.FontFill
	s.Logger = logger
	return s
}
