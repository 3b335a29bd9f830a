// Package request loads cluster-setup request documents and performs the
// shallow structural checks that must pass before the domain validators can
// run at all: the document parses, at least one node is listed, and no
// section is absurdly oversized. Everything value-level (option names,
// option values, address counts, duplicates) is left to the corosync
// validators so their diagnostics stay intact.
package request

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Structural limits for request documents. Deliberately looser than the
	// domain limits (8 knet links, 8 addresses per node) so oversized input
	// still reaches the validators that report it properly.
	MaxNodes             = 64
	MaxLinks             = 32
	MaxAddrsPerNode      = 32
	MaxOptionsPerSection = 128
)

func init() {
	validate = validator.New()
}

// Document is a cluster-setup request as read from a YAML file.
type Document struct {
	ClusterName      string              `yaml:"cluster_name" validate:"max=255"`
	Transport        string              `yaml:"transport" validate:"max=32"`
	Nodes            []Node              `yaml:"nodes" validate:"required,min=1,dive"`
	Links            []map[string]string `yaml:"links"`
	TransportOptions map[string]string   `yaml:"transport_options"`
	Compression      map[string]string   `yaml:"compression"`
	Crypto           map[string]string   `yaml:"crypto"`
	Totem            map[string]string   `yaml:"totem"`
	Quorum           map[string]string   `yaml:"quorum"`
	Qdevice          *Qdevice            `yaml:"qdevice"`
}

// Node is one cluster node entry.
type Node struct {
	Name  string   `yaml:"name" validate:"max=255"`
	Addrs []string `yaml:"addrs" validate:"omitempty,dive,max=255"`
}

// Qdevice is an optional quorum-device section.
type Qdevice struct {
	Model      string            `yaml:"model" validate:"max=32"`
	Options    map[string]string `yaml:"options"`
	Generic    map[string]string `yaml:"generic"`
	Heuristics map[string]string `yaml:"heuristics"`
}

// Load reads and parses a request document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a request document from raw YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing request document: %w", err)
	}
	return &doc, nil
}

// ValidateDocument validates the structure of a setup request.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return errors.New("request document cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}

	// Additional size validation
	if len(doc.Nodes) > MaxNodes {
		return fmt.Errorf("Nodes: maximum %d nodes allowed, got %d", MaxNodes, len(doc.Nodes))
	}
	if len(doc.Links) > MaxLinks {
		return fmt.Errorf("Links: maximum %d links allowed, got %d", MaxLinks, len(doc.Links))
	}
	for i, node := range doc.Nodes {
		if len(node.Addrs) > MaxAddrsPerNode {
			return fmt.Errorf("Nodes: node at index %d has %d addresses, maximum is %d", i, len(node.Addrs), MaxAddrsPerNode)
		}
	}

	type section struct {
		name    string
		options map[string]string
	}
	sections := []section{
		{"transport_options", doc.TransportOptions},
		{"compression", doc.Compression},
		{"crypto", doc.Crypto},
		{"totem", doc.Totem},
		{"quorum", doc.Quorum},
	}
	if doc.Qdevice != nil {
		sections = append(sections,
			section{"qdevice.options", doc.Qdevice.Options},
			section{"qdevice.generic", doc.Qdevice.Generic},
			section{"qdevice.heuristics", doc.Qdevice.Heuristics},
		)
	}
	for _, s := range sections {
		if err := ValidateSectionSize(s.name, len(s.options)); err != nil {
			return err
		}
	}
	for i, link := range doc.Links {
		if err := ValidateSectionSize(fmt.Sprintf("links[%d]", i), len(link)); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSectionSize validates the number of options in one request section.
func ValidateSectionSize(section string, size int) error {
	if size > MaxOptionsPerSection {
		return fmt.Errorf("%s: maximum %d options allowed, got %d", section, MaxOptionsPerSection, size)
	}
	return nil
}

// MaxLinkNumber derives the highest usable knet link number from the node
// address lists: links are indexed by address position, so a cluster whose
// widest node carries n addresses can reference link numbers 0..n-1.
func (doc *Document) MaxLinkNumber() int {
	maxAddrs := 0
	for _, node := range doc.Nodes {
		if len(node.Addrs) > maxAddrs {
			maxAddrs = len(node.Addrs)
		}
	}
	return maxAddrs - 1
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
