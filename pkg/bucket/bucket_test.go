package bucket

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKey(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProjectIDFromKey(t *testing.T) {
	path := writeKey(t, `{"type":"service_account","project_id":"uet-education-qa"}`)

	projectID, err := projectIDFromKey(path)
	require.NoError(t, err)
	assert.Equal(t, "uet-education-qa", projectID)
}

func TestProjectIDFromKeyErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := projectIDFromKey(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := projectIDFromKey(writeKey(t, "not json"))
		assert.Error(t, err)
	})

	t.Run("no project id", func(t *testing.T) {
		_, err := projectIDFromKey(writeKey(t, `{"type":"service_account"}`))
		assert.Error(t, err)
	})
}
