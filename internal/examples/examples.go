// Package examples embeds the STU3 example resources the round-trip tests
// and the CLI run against.
package examples

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml testdata/*.json
var files embed.FS

// FS holds the fixture JSON files at its root.
var FS fs.FS

func init() {
	sub, err := fs.Sub(files, "testdata")
	if err != nil {
		panic(err)
	}
	FS = sub
}

// Fixture describes one example file.
type Fixture struct {
	File         string `yaml:"file"`
	ResourceType string `yaml:"resourceType"`
	Description  string `yaml:"description"`
}

type manifest struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

var (
	loadOnce sync.Once
	loaded   []Fixture
	loadErr  error
)

// Manifest returns every fixture listed in manifest.yaml, in file order.
func Manifest() ([]Fixture, error) {
	loadOnce.Do(func() {
		data, err := files.ReadFile("manifest.yaml")
		if err != nil {
			loadErr = fmt.Errorf("read manifest: %w", err)
			return
		}
		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			loadErr = fmt.Errorf("parse manifest: %w", err)
			return
		}
		loaded = m.Fixtures
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Fixture, len(loaded))
	copy(out, loaded)
	return out, nil
}

// Load returns the contents of the named fixture file.
func Load(name string) ([]byte, error) {
	data, err := fs.ReadFile(FS, name)
	if err != nil {
		return nil, fmt.Errorf("load example %s: %w", name, err)
	}
	return data, nil
}

// ByResourceType returns the fixtures of one resource type.
func ByResourceType(resourceType string) ([]Fixture, error) {
	all, err := Manifest()
	if err != nil {
		return nil, err
	}
	var out []Fixture
	for _, f := range all {
		if f.ResourceType == resourceType {
			out = append(out, f)
		}
	}
	return out, nil
}

// ResourceTypes returns the distinct resource types covered by the
// fixtures, sorted.
func ResourceTypes() ([]string, error) {
	all, err := Manifest()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, f := range all {
		if !seen[f.ResourceType] {
			seen[f.ResourceType] = true
			out = append(out, f.ResourceType)
		}
	}
	sort.Strings(out)
	return out, nil
}
