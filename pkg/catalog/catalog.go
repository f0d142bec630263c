// Package catalog reads software-catalog entity descriptors (catalog-info.yaml)
// and extracts the ServiceNow annotations that scope srenow to an entity.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clcollins/srenow/pkg/snow"
	"gopkg.in/yaml.v3"
)

const (
	// AnnotationQuery holds a free-form encoded query fragment
	AnnotationQuery = "servicenow.com/query"
	// AnnotationCISysID holds the sys_id of the entity's configuration item
	AnnotationCISysID = "servicenow.com/ci-sysid"
)

var ErrNoAnnotations = fmt.Errorf("add the '%s' or '%s' annotation to the entity's catalog-info.yaml", AnnotationQuery, AnnotationCISysID)

// Entity is the subset of a catalog entity descriptor srenow reads
type Entity struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
}

type Metadata struct {
	Name        string            `yaml:"name"`
	Namespace   string            `yaml:"namespace"`
	Title       string            `yaml:"title"`
	Annotations map[string]string `yaml:"annotations"`
}

// LoadFile reads the first entity in the file at path
func LoadFile(path string) (*Entity, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile(): %w", err)
	}
	return Parse(b)
}

// Parse decodes a catalog descriptor. Files may hold several YAML documents;
// the first one of kind Component is used, otherwise the first document.
func Parse(b []byte) (*Entity, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))

	var first *Entity
	for {
		var e Entity
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog.Parse(): %w", err)
		}
		if first == nil {
			first = &e
		}
		if strings.EqualFold(e.Kind, "Component") {
			return &e, nil
		}
	}

	if first == nil {
		return nil, errors.New("catalog.Parse(): no entity found")
	}
	return first, nil
}

// DisplayName is the entity title, falling back to its name
func (e *Entity) DisplayName() string {
	if e.Metadata.Title != "" {
		return e.Metadata.Title
	}
	return e.Metadata.Name
}

// Scope returns the ServiceNow scope described by the entity's annotations
func (e *Entity) Scope() (snow.Scope, error) {
	s := snow.Scope{
		Name:    e.DisplayName(),
		Query:   strings.TrimSpace(e.Metadata.Annotations[AnnotationQuery]),
		CISysID: strings.TrimSpace(e.Metadata.Annotations[AnnotationCISysID]),
	}
	if s.Empty() {
		return s, fmt.Errorf("catalog: entity %q has no ServiceNow annotations: %w", e.Metadata.Name, ErrNoAnnotations)
	}
	return s, nil
}
