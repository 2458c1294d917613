package pricing

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

const catalogEnv = "PRICING_CATALOG_YAML"

//go:embed catalog.yaml
var catalogFS embed.FS

// Load reads the catalog from PRICING_CATALOG_YAML when set, else from the
// embedded document. Any read or validation failure falls back to Default.
func Load(log *logger.Logger) *Catalog {
	c, src, err := load(strings.TrimSpace(os.Getenv(catalogEnv)))
	if err != nil {
		if log != nil {
			log.Warn("pricing: catalog load failed; using built-in catalog", "source", src, "error", err)
		}
		return Default()
	}
	if log != nil {
		log.Info("pricing: catalog loaded", "source", src, "extras", len(c.doc.Extras), "sqft_tiers", len(c.doc.SqftRanges))
	}
	return c
}

func load(path string) (*Catalog, string, error) {
	var (
		data []byte
		src  = "embedded"
		err  error
	)
	if path != "" {
		src = path
		data, err = os.ReadFile(path)
	} else {
		data, err = catalogFS.ReadFile("catalog.yaml")
	}
	if err != nil {
		return nil, src, err
	}
	c, err := Parse(data)
	return c, src, err
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("empty catalog document")
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.FrequencyDiscounts == nil {
		doc.FrequencyDiscounts = map[string]float64{}
	}
	return NewCatalog(doc)
}
