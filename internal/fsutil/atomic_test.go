package fsutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteFile(dir, "a.json", strings.NewReader("first")))
	require.NoError(t, WriteFile(dir, "a.json", strings.NewReader("second")))

	got, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}

func TestWriteFile_MissingDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing"), "a.json", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "article")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteFile_LongName(t *testing.T) {
	dir := t.TempDir()
	name := strings.Repeat("a", 250) + ".json"

	require.NoError(t, WriteFile(dir, name, strings.NewReader("{}")))

	got, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestWriteFile_ConcurrentWriters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := EnsureDir(dir); err != nil {
				errs <- err
				return
			}
			body := strings.Repeat(strconv.Itoa(i%10), 64<<10)
			if err := WriteFile(dir, "same.json", strings.NewReader(body)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "same.json"))
	require.NoError(t, err)
	require.Len(t, got, 64<<10)
	assert.Equal(t, strings.Repeat(string(got[0]), 64<<10), string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestIsTemp(t *testing.T) {
	assert.True(t, IsTemp(".tmp-12345"))
	assert.False(t, IsTemp(".a.json.12345.tmp"))
	assert.False(t, IsTemp("a.json"))
	assert.False(t, IsTemp(".hidden"))
	assert.False(t, IsTemp(""))
}
