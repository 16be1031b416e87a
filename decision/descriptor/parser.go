// Package descriptor provides deployment descriptor parsing.
// This is the entry point for verification - every declared component flows through here.
package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	checkerrors "infra-check/pkg/errors"
)

// Layout records where the components section was found.
type Layout string

const (
	LayoutRoot Layout = "root" // components: at the document root
	LayoutSpec Layout = "spec" // spec.components
)

// Component is one declared infrastructure unit.
type Component struct {
	Type       string         `yaml:"type" json:"type" validate:"required"`
	Name       string         `yaml:"name" json:"name" validate:"required"`
	Properties map[string]any `yaml:"properties,omitempty" json:"properties,omitempty"`
	ConnectsTo []Component    `yaml:"connectsTo,omitempty" json:"connectsTo,omitempty"`

	// Problem is set when the record is incomplete; such a record is reported
	// on its own and never looked up.
	Problem string `yaml:"-" json:"problem,omitempty"`
}

// Document is a fully parsed deployment descriptor.
type Document struct {
	Path       string         `json:"path,omitempty"`
	Layout     Layout         `json:"layout"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Region     string         `json:"region,omitempty"`
	Components []Component    `json:"components"`

	// ARNs holds every ARN literal found anywhere in the document, first-seen order.
	ARNs []string `json:"arns,omitempty"`
}

// Parser parses deployment descriptors
type Parser struct {
	// Validate marks records without a type or name with a Problem.
	Validate bool
}

// NewParser creates a new descriptor parser
func NewParser() *Parser {
	return &Parser{
		Validate: true,
	}
}

// ParseFile parses a descriptor file
func (p *Parser) ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, checkerrors.NewDescriptorNotFoundError(path, err)
	}
	doc, err := p.parse(path, data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse parses a descriptor from a reader
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, checkerrors.NewDescriptorNotFoundError("", err)
	}
	return p.parse("", buf.Bytes())
}

// ParseBytes parses a descriptor from bytes
func (p *Parser) ParseBytes(data []byte) (*Document, error) {
	return p.parse("", data)
}

func (p *Parser) parse(path string, data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, checkerrors.NewDescriptorMalformedError(path, err)
	}

	var tree yaml.Node
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, checkerrors.NewDescriptorMalformedError(path, err)
	}

	doc, err := p.transform(&raw)
	if err != nil {
		return nil, checkerrors.NewDescriptorInvalidError(path, err.Error())
	}
	doc.Path = path
	doc.ARNs = ExtractARNs(&tree)

	if p.Validate {
		markInvalid(doc.Components, "components")
	}

	return doc, nil
}

// transform converts the raw YAML shape to our domain model
func (p *Parser) transform(raw *rawDocument) (*Document, error) {
	doc := &Document{
		Metadata: raw.Metadata,
	}

	switch {
	case raw.Components != nil:
		doc.Layout = LayoutRoot
		doc.Components = raw.Components
	case raw.Spec != nil && raw.Spec.Components != nil:
		doc.Layout = LayoutSpec
		doc.Components = raw.Spec.Components
	default:
		return nil, fmt.Errorf("no components section at the document root or under spec")
	}

	if doc.Metadata == nil && raw.Spec != nil {
		doc.Metadata = raw.Spec.Metadata
	}
	doc.Metadata = normalizeMap(doc.Metadata)

	doc.Region = resolveRegion(raw)
	normalizeComponents(doc.Components)

	return doc, nil
}

// resolveRegion walks the known environment locations in priority order
func resolveRegion(raw *rawDocument) string {
	// 1. Root environment section
	if raw.Environment.AWSRegion != "" {
		return raw.Environment.AWSRegion
	}
	if raw.Spec == nil {
		return ""
	}

	// 2. spec.environment
	if raw.Spec.Environment.AWSRegion != "" {
		return raw.Spec.Environment.AWSRegion
	}

	// 3. First module pack environment
	for _, pak := range raw.Spec.Modulepak {
		if pak.Environment.AWSRegion != "" {
			return pak.Environment.AWSRegion
		}
	}

	return ""
}

// normalizeComponents guarantees non-nil properties on every record and
// string keys in every nested mapping.
func normalizeComponents(components []Component) {
	for i := range components {
		if components[i].Properties == nil {
			components[i].Properties = make(map[string]any)
		}
		components[i].Properties = normalizeMap(components[i].Properties)
		normalizeComponents(components[i].ConnectsTo)
	}
}

func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

// normalizeValue rewrites map[any]any, which yaml produces for mappings with
// non-string keys such as `80: http`, into map[string]any.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = normalizeValue(e)
		}
		return out
	case []any:
		for i, e := range val {
			val[i] = normalizeValue(e)
		}
		return val
	}
	return v
}

// =============================================================================
// RAW YAML STRUCTURES
// =============================================================================

type rawDocument struct {
	Metadata    map[string]any `yaml:"metadata"`
	Environment rawEnvironment `yaml:"environment"`
	Components  []Component    `yaml:"components"`
	Spec        *rawSpec       `yaml:"spec"`
}

type rawSpec struct {
	Metadata    map[string]any `yaml:"metadata"`
	Environment rawEnvironment `yaml:"environment"`
	Components  []Component    `yaml:"components"`
	Modulepak   []rawModulePak `yaml:"modulepak"`
}

type rawModulePak struct {
	Environment rawEnvironment `yaml:"environment"`
}

type rawEnvironment struct {
	AWSRegion string `yaml:"awsRegion"`
}
