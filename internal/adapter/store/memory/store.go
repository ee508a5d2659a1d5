// Package memory provides the read-only in-memory candidate store.
//
// The roster is loaded once (embedded default, a YAML/JSON file, or rows
// handed over by another adapter) and never mutated afterwards, so the
// store is safe for concurrent readers without locks.
package memory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

//go:embed candidates.yaml
var defaultDataset []byte

// Dataset is the on-disk shape of a roster file.
type Dataset struct {
	Candidates []domain.Candidate `yaml:"candidates" json:"candidates"`
}

// Store implements domain.CandidateStore over a fixed slice.
type Store struct {
	candidates []domain.Candidate
	byName     map[string]int
}

// New builds a store; names must be non-empty and unique ignoring case.
func New(candidates []domain.Candidate) (*Store, error) {
	s := &Store{
		candidates: make([]domain.Candidate, 0, len(candidates)),
		byName:     make(map[string]int, len(candidates)),
	}
	for i, c := range candidates {
		key := nameKey(c.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: candidate %d has no name", domain.ErrInvalidArgument, i)
		}
		if _, dup := s.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate candidate %q", domain.ErrInvalidArgument, c.Name)
		}
		s.byName[key] = len(s.candidates)
		s.candidates = append(s.candidates, c)
	}
	return s, nil
}

// Default returns a store over the embedded roster.
func Default() (*Store, error) {
	cs, err := Parse(defaultDataset)
	if err != nil {
		return nil, fmt.Errorf("op=memory.Default: %w", err)
	}
	return New(cs)
}

// LoadFile reads a .yaml, .yml or .json roster file.
func LoadFile(path string) ([]domain.Candidate, error) {
	var parse func([]byte) ([]domain.Candidate, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = Parse
	case ".json":
		parse = ParseJSON
	default:
		return nil, fmt.Errorf("%w: unsupported dataset extension %q", domain.ErrInvalidArgument, filepath.Ext(path))
	}
	// #nosec G304 -- dataset path comes from operator configuration
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=memory.LoadFile: %w", err)
	}
	cs, err := parse(b)
	if err != nil {
		return nil, fmt.Errorf("op=memory.LoadFile %s: %w", path, err)
	}
	return cs, nil
}

// Parse decodes a YAML roster document.
func Parse(data []byte) ([]domain.Candidate, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: parse dataset: %v", domain.ErrInvalidArgument, err)
	}
	return ds.validate()
}

// ParseJSON decodes a JSON roster document with the same shape as Parse.
func ParseJSON(data []byte) ([]domain.Candidate, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: parse dataset: %v", domain.ErrInvalidArgument, err)
	}
	return ds.validate()
}

func (ds Dataset) validate() ([]domain.Candidate, error) {
	if len(ds.Candidates) == 0 {
		return nil, fmt.Errorf("%w: dataset has no candidates", domain.ErrInvalidArgument)
	}
	return ds.Candidates, nil
}

// All returns the roster in store order.
func (s *Store) All() []domain.Candidate {
	return slices.Clone(s.candidates)
}

// Get looks a candidate up by name, ignoring case and surrounding spaces.
func (s *Store) Get(name string) (domain.Candidate, error) {
	i, ok := s.byName[nameKey(name)]
	if !ok {
		return domain.Candidate{}, fmt.Errorf("%w: candidate %q", domain.ErrNotFound, name)
	}
	return s.candidates[i], nil
}

// Len reports the roster size.
func (s *Store) Len() int { return len(s.candidates) }

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
