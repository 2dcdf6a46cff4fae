package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDistributePreviewsPlan(t *testing.T) {
	fs := afero.NewMemMapFs()
	csv := "firstName,phone,notes\nAnn,555-0101,\nBen,555-0102,\nCat,555-0103,\nDan,555-0104,\nEve,555-0105,\n"
	require.NoError(t, afero.WriteFile(fs, "/contacts.csv", []byte(csv), 0o644))

	out, err := runCLI(t, fs, "distribute", "--file", "/contacts.csv", "--agents", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "5 records from /contacts.csv across 2 agents")
	assert.Regexp(t, `Agent 1\s+3\s+1-3`, out)
	assert.Regexp(t, `Agent 2\s+2\s+4-5`, out)
}

func TestDistributeShowsIdleAgents(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/one.csv", []byte("firstName,phone\nAnn,555\n"), 0o644))

	out, err := runCLI(t, fs, "distribute", "-f", "/one.csv", "-n", "3")
	require.NoError(t, err)
	assert.Regexp(t, `Agent 3\s+0\s+-`, out)
}

func TestDistributeRejectsBadInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.csv", []byte("firstName,phone\nAnn,call me\n"), 0o644))

	_, err := runCLI(t, fs, "distribute", "--file", "/bad.csv")
	require.Error(t, err)

	_, err = runCLI(t, fs, "distribute", "--file", "/notes.txt")
	require.Error(t, err)

	_, err = runCLI(t, fs, "distribute", "--file", "/bad.csv", "--agents", "0")
	require.ErrorContains(t, err, "--agents must be positive")
}

func TestWriteCommandsNeedPostgres(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := runCLI(t, afero.NewMemMapFs(), "create-admin", "--email", "ops@example.com", "--password", "changeme")
	require.ErrorContains(t, err, "storage.driver=postgres")

	_, err = runCLI(t, afero.NewMemMapFs(), "migrate")
	require.ErrorContains(t, err, "storage.driver=postgres")
}

func TestAgentsListOnEmptyMemoryStore(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("UPLOAD_STAGING_DIR", t.TempDir())

	out, err := runCLI(t, afero.NewMemMapFs(), "agents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No agents found.")
}
