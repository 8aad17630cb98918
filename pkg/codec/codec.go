// Package codec reads and writes portable automation documents in JSON or YAML.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
)

// DocumentVersion is the current automation document format.
const DocumentVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat      = errors.New("unknown document format")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// ParseFormat accepts json, yaml and yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Document is the owner-independent export of an automation.
type Document struct {
	Version     int            `json:"version"               yaml:"version"`
	Name        string         `json:"name"                  yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Schedule    string         `json:"schedule,omitempty"    yaml:"schedule,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"    yaml:"metadata,omitempty"`
	Flow        graph.Snapshot `json:"flow"                  yaml:"flow"`
}

// FromAutomation builds the export document of an automation.
func FromAutomation(automation *models.Automation) Document {
	return Document{
		Version:     DocumentVersion,
		Name:        automation.Name,
		Description: automation.Description,
		Schedule:    automation.Schedule,
		Metadata:    automation.Metadata,
		Flow:        automation.FlowData.Normalize(),
	}
}

// Automation returns a new, inactive automation for the document. Agent and integration
// references are not part of the document.
func (d Document) Automation(ownerID string) *models.Automation {
	return &models.Automation{
		Record:      models.Record{OwnerID: ownerID},
		Name:        d.Name,
		Description: d.Description,
		Schedule:    d.Schedule,
		Metadata:    d.Metadata,
		FlowData:    d.Flow.Normalize(),
	}
}

// Encode writes the document in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(doc)
		if err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode reads a document and checks that its flow is a well formed graph.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document

	switch format {
	case FormatJSON:
		err := json.NewDecoder(r).Decode(&doc)
		if err != nil {
			return Document{}, fmt.Errorf("failed to decode json document: %w", err)
		}
	case FormatYAML:
		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return Document{}, fmt.Errorf("failed to decode yaml document: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if doc.Version != DocumentVersion {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	_, err := graph.Deserialize(doc.Flow)
	if err != nil {
		return Document{}, err
	}

	doc.Flow = doc.Flow.Normalize()

	return doc, nil
}
