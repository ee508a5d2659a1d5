package memory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/store/memory"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

func TestDefault_LoadsEmbeddedRosterInOrder(t *testing.T) {
	s, err := memory.Default()
	require.NoError(t, err)
	require.Equal(t, 5, s.Len())

	names := make([]string, 0, s.Len())
	for _, c := range s.All() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Alexander Reed", "Sarah Chen", "Rajesh Kumar", "Emily Johnson", "Michael Park"}, names)

	alex, err := s.Get("alexander reed")
	require.NoError(t, err)
	assert.Equal(t, "Principal Full Stack Architect", alex.Title)
	assert.Equal(t, "9 years", alex.Experience)
	assert.Len(t, alex.Skills, 11)
	assert.Len(t, alex.Projects, 3)
	assert.Len(t, alex.Certifications, 2)
	assert.Equal(t, "$160K - $190K", alex.ExpectedSalary)
	assert.Contains(t, alex.Summary, "startup")
}

func TestGet_UnknownName(t *testing.T) {
	s, err := memory.Default()
	require.NoError(t, err)
	_, err = s.Get("nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNew_RejectsMissingAndDuplicateNames(t *testing.T) {
	_, err := memory.New([]domain.Candidate{{Name: " "}})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = memory.New([]domain.Candidate{{Name: "A"}, {Name: "a"}})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAll_ReturnsCopyOfRoster(t *testing.T) {
	s, err := memory.New([]domain.Candidate{{Name: "A"}, {Name: "B"}})
	require.NoError(t, err)
	all := s.All()
	all[0] = domain.Candidate{Name: "mutated"}
	assert.Equal(t, "A", s.All()[0].Name)
}

func TestLoadFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(`
candidates:
  - name: Dana
    title: Staff Engineer
    skills: [Go, Kafka]
    experience: 8 years
    expectedSalary: "$1"
`), 0o600))
	cs, err := memory.LoadFile(yml)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, []string{"Go", "Kafka"}, cs[0].Skills)
	assert.Equal(t, "$1", cs[0].ExpectedSalary)

	js := filepath.Join(dir, "roster.json")
	require.NoError(t, os.WriteFile(js, []byte(`{
	"candidates": [{"name": "Eve", "skills": ["React"], "expectedSalary": "$2"}]
}`), 0o600))
	cs, err = memory.LoadFile(js)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "Eve", cs[0].Name)
	assert.Equal(t, "$2", cs[0].ExpectedSalary)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := memory.LoadFile(filepath.Join(dir, "roster.csv"))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = memory.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("candidates: []\n"), 0o600))
	_, err = memory.LoadFile(empty)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = memory.LoadFile(bad)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
