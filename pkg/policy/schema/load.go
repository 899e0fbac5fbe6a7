package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

// yamlProfile is the on-disk form of a custom profile.
type yamlProfile struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Required    []string          `yaml:"required"`
	Recommended []string          `yaml:"recommended"`
	Types       map[string]string `yaml:"types"`
	RedFlags    []string          `yaml:"red_flags"`
}

// Load reads a custom profile from a YAML file. Custom profiles carry no
// value rules; those are only available on built-in profiles.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var raw yamlProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("profile %s has no name", path)
	}

	profile := &Profile{
		Name:        raw.Name,
		Description: raw.Description,
		RedFlags:    raw.RedFlags,
	}

	for _, p := range raw.Required {
		canonical, err := ast.CanonicalizePath(p)
		if err != nil {
			return nil, fmt.Errorf("profile %s: required path %q: %w", path, p, err)
		}
		profile.Required = append(profile.Required, canonical)
	}
	for _, p := range raw.Recommended {
		canonical, err := ast.CanonicalizePath(p)
		if err != nil {
			return nil, fmt.Errorf("profile %s: recommended path %q: %w", path, p, err)
		}
		profile.Recommended = append(profile.Recommended, canonical)
	}

	if len(raw.Types) > 0 {
		profile.Types = make(map[string]ast.ValueKind, len(raw.Types))
		for p, kindName := range raw.Types {
			canonical, err := ast.CanonicalizePath(p)
			if err != nil {
				return nil, fmt.Errorf("profile %s: typed path %q: %w", path, p, err)
			}
			kind, err := parseKind(kindName)
			if err != nil {
				return nil, fmt.Errorf("profile %s: path %q: %w", path, p, err)
			}
			profile.Types[canonical] = kind
		}
	}

	return profile, nil
}

// Resolve returns the built-in profile with the given name, or loads the
// name as a file path when no built-in matches and the file exists.
func Resolve(name string) (*Profile, error) {
	if profile, err := Builtin(name); err == nil {
		return profile, nil
	}
	if _, err := os.Stat(name); err == nil {
		return Load(name)
	}
	return nil, fmt.Errorf("unknown profile %q (available: %v)", name, Names())
}

func parseKind(name string) (ast.ValueKind, error) {
	switch name {
	case "scalar":
		return ast.KindScalar, nil
	case "list":
		return ast.KindList, nil
	case "mapping":
		return ast.KindMapping, nil
	case "null":
		return ast.KindNull, nil
	default:
		return ast.KindScalar, fmt.Errorf("unknown value kind %q", name)
	}
}
