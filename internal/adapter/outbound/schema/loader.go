// Package schema compiles the JSON Agents manifest schema and evaluates
// documents against it. Compiled schemas are cached process-wide, keyed by
// a hash of the schema bytes, so repeated validations (watch mode, the
// HTTP service) do not recompile.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed json-agents.json
var bundledSchema []byte

// Loader compiles and caches manifest schemas. Safe for concurrent use.
type Loader struct {
	mu    sync.Mutex
	cache map[uint64]*gojsonschema.Schema
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{cache: make(map[uint64]*gojsonschema.Schema)}
}

// Bundled returns the compiled schema shipped with the binary.
func (l *Loader) Bundled() (*gojsonschema.Schema, error) {
	return l.compile(bundledSchema)
}

// FromFile compiles a schema from a file on disk, for users who maintain
// their own manifest profile.
func (l *Loader) FromFile(path string) (*gojsonschema.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return l.compile(b)
}

func (l *Loader) compile(b []byte) (*gojsonschema.Schema, error) {
	key := xxhash.Sum64(b)

	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.cache[key]; ok {
		return s, nil
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	l.cache[key] = s
	return s, nil
}

// Validate evaluates doc against the bundled schema, or the schema file
// at path when non-empty.
func (l *Loader) Validate(doc any, path string) ([]string, error) {
	var (
		s   *gojsonschema.Schema
		err error
	)
	if path != "" {
		s, err = l.FromFile(path)
	} else {
		s, err = l.Bundled()
	}
	if err != nil {
		return nil, err
	}
	return Errors(s, doc)
}

// Errors evaluates a decoded manifest document against the schema and
// returns one formatted message per violation. A nil slice means the
// document conforms structurally.
func Errors(s *gojsonschema.Schema, doc any) ([]string, error) {
	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("Schema error at '%s': %s", e.Field(), e.Description()))
	}
	return msgs, nil
}
