package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
)

// ParseError reports a file that could not be read or decoded.
type ParseError struct {
	// FilePath is the path to the file that failed to parse.
	FilePath string

	// Message describes the parse failure.
	Message string

	// Cause is the underlying decoder or I/O error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error in %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parser reads policy document files.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads one policy document file.
func (p *Parser) ParseFile(path string) (normalizer.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return normalizer.RawDocument{}, &ParseError{
			FilePath: path,
			Message:  "failed to read file",
			Cause:    err,
		}
	}
	return p.ParseBytes(data, path)
}

// ParseFiles reads an ordered list of policy document files. The file order
// becomes the declaration order of the resulting documents.
func (p *Parser) ParseFiles(paths []string) ([]normalizer.RawDocument, error) {
	raws := make([]normalizer.RawDocument, 0, len(paths))
	for _, path := range paths {
		raw, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// ParseDir reads every .yaml/.yml file in a directory, in sorted file-name
// order so declaration order is stable across platforms.
func (p *Parser) ParseDir(dir string) ([]normalizer.RawDocument, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, &ParseError{
				FilePath: dir,
				Message:  "failed to list policy files",
				Cause:    err,
			}
		}
		paths = append(paths, matches...)
	}

	if len(paths) == 0 {
		return nil, &ParseError{
			FilePath: dir,
			Message:  "no policy files found",
		}
	}

	sort.Strings(paths)
	return p.ParseFiles(paths)
}
