package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"about.md":          "# About\nBackend engineer.",
		"skills.json":       `{"backend":["Go","PostgreSQL"],"frontend":["React"],"tools_platforms":["Docker"],"programming_languages":{"primary":["Go"]}}`,
		"projects.json":     `[{"id":"p1","title":"LedgerLink","domain":"Fintech","description":"d","key_features":["f"],"tech_stack":["Go"],"status":"production"}]`,
		"experience.json":   `[{"role":"Backend Engineer","company":"Brightline","duration":"2023 - Present"}]`,
		"education.json":    `[{"degree":"BE in Computer Science","institution":"PIT","duration":"2017 - 2021"}]`,
		"certificates.json": `[{"name":"CKA","issuer":"CNCF","year":"2023"}]`,
		"contact.json":      `{"email":"a@b.c","github":"https://github.com/x"}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeDataDir(t)

	snap, err := Load(dir)
	require.NoError(t, err)

	assert.Contains(t, snap.About, "Backend engineer")
	assert.Equal(t, []string{"Go", "PostgreSQL"}, snap.Skills.Backend)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "LedgerLink", snap.Projects[0].Title)
	require.Len(t, snap.Experience, 1)
	assert.Equal(t, "Brightline", snap.Experience[0].Company)
	assert.Len(t, snap.Education, 1)
	assert.Len(t, snap.Certificates, 1)
	assert.Equal(t, "a@b.c", snap.Contact.Email)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "projects.json")))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_BadJSON(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.json"), []byte("{"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_RepoData(t *testing.T) {
	// The checked-in data directory must always parse.
	snap, err := Load(filepath.Join("..", "..", "data"))
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Projects)
	assert.NotEmpty(t, snap.Skills.Backend)
	assert.NotEmpty(t, snap.Contact.Email)
}
