package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureStagedCopiesLibrary(t *testing.T) {
	src := filepath.Join(t.TempDir(), "libaio.so")
	require.NoError(t, os.WriteFile(src, []byte("\x7fELF"), 0o755))

	cfg := Config{
		Dir:           filepath.Join(t.TempDir(), "bridge"),
		StagedLibrary: "libaio.so",
		LibrarySource: src,
	}
	require.NoError(t, EnsureStaged(cfg, testLogger()))

	data, err := os.ReadFile(cfg.StagedLibraryPath())
	require.NoError(t, err)
	assert.Equal(t, []byte("\x7fELF"), data)

	// Second run leaves the staged copy alone.
	require.NoError(t, os.WriteFile(src, []byte("changed"), 0o755))
	require.NoError(t, EnsureStaged(cfg, testLogger()))
	data, err = os.ReadFile(cfg.StagedLibraryPath())
	require.NoError(t, err)
	assert.Equal(t, []byte("\x7fELF"), data)
}

func TestEnsureStagedWithoutSource(t *testing.T) {
	cfg := Config{
		Dir:           filepath.Join(t.TempDir(), "bridge"),
		StagedLibrary: "libaio.so",
	}
	require.NoError(t, EnsureStaged(cfg, testLogger()))

	info, err := os.Stat(cfg.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(cfg.StagedLibraryPath())
	assert.True(t, os.IsNotExist(err))
}

func TestProcessFileRoundTrip(t *testing.T) {
	cfg := Config{Dir: t.TempDir(), ProcessFile: "process.txt"}
	require.NoError(t, WriteProcessFile(cfg, 4321, 50123))

	pid, port, err := ReadProcessFile(cfg.ProcessFilePath())
	require.NoError(t, err)
	assert.Equal(t, 4321, pid)
	assert.Equal(t, 50123, port)

	RemoveProcessFile(cfg)
	_, _, err = ReadProcessFile(cfg.ProcessFilePath())
	assert.Error(t, err)
}

func TestReadProcessFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "process.txt")
	for _, contents := range []string{"", "1234", "a:b", "1234:"} {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
		_, _, err := ReadProcessFile(path)
		assert.Error(t, err, "contents %q", contents)
	}
}
