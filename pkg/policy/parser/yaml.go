package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
)

// yamlDocument is the intermediate structure for decoding a policy file.
// It matches the file layout before handoff to the normalizer.
type yamlDocument struct {
	SourceID        string                 `yaml:"source_id"`
	Parent          string                 `yaml:"parent"`
	Priority        *int                   `yaml:"priority"`
	DefaultStrategy string                 `yaml:"default_strategy"`
	Policy          map[string]interface{} `yaml:"policy"`
}

// ParseBytes decodes one policy document from YAML bytes. The sourcePath is
// used for error reporting only.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (normalizer.RawDocument, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return normalizer.RawDocument{}, &ParseError{
			FilePath: sourcePath,
			Message:  "invalid YAML",
			Cause:    err,
		}
	}

	if doc.SourceID == "" {
		return normalizer.RawDocument{}, &ParseError{
			FilePath: sourcePath,
			Message:  "document has no source_id",
		}
	}

	tree := doc.Policy
	if tree == nil {
		tree = map[string]interface{}{}
	}

	return normalizer.RawDocument{
		SourceID:        doc.SourceID,
		ParentRef:       doc.Parent,
		Priority:        doc.Priority,
		DefaultStrategy: doc.DefaultStrategy,
		Tree:            tree,
	}, nil
}
