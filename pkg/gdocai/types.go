package gdocai

import (
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

// Config locates the Document AI processor.
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
	// CredentialsFile overrides GOOGLE_APPLICATION_CREDENTIALS when set.
	CredentialsFile string `yaml:"credentials_file"`
}

// Validate reports the first missing processor setting.
func (c Config) Validate() error {
	switch {
	case c.ProjectID == "":
		return fmt.Errorf("documentai: project_id is required")
	case c.Location == "":
		return fmt.Errorf("documentai: location is required")
	case c.ProcessorID == "":
		return fmt.Errorf("documentai: processor_id is required")
	}
	return nil
}

// processorName is the resource name of the configured processor.
func (c Config) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Result is the OCR output of one document.
type Result struct {
	Raw   *documentaipb.Document `json:"-"` // Original Document AI response, nil for RecognizePages
	Text  string                 `json:"text"`
	Pages []receipt.Page         `json:"pages"`
}
