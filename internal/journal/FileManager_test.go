package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctd/internal/models"
	"ctd/internal/testutil"
)

func TestFileManager_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.dat")

	source := NewJournal(journalConfig(100))
	source.Record(models.TransitionStart, "42")
	source.Record(models.TransitionStop, "42")

	fm := NewFileManager(&testutil.MockCompressor{}, source, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	restored := NewJournal(journalConfig(100))
	fm2 := NewFileManager(&testutil.MockCompressor{}, restored, &testutil.MockLogger{})
	require.NoError(t, fm2.LoadFromFile(path))

	events := restored.Events()
	require.Len(t, events, 2)
	assert.Equal(t, source.Events()[0].ID, events[0].ID)
	assert.Equal(t, models.TransitionStop, events[1].Kind)
}

func TestFileManager_RoundTripWithZstd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.dat")

	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	source := NewJournal(journalConfig(100))
	for i := 0; i < 50; i++ {
		source.Record(models.TransitionStart, "42")
	}

	fm := NewFileManager(compressor, source, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	restored := NewJournal(journalConfig(100))
	fm2 := NewFileManager(compressor, restored, &testutil.MockLogger{})
	require.NoError(t, fm2.LoadFromFile(path))

	assert.Equal(t, 50, restored.Size())
}

func TestFileManager_LoadMissingFileIsNoop(t *testing.T) {
	j := NewJournal(journalConfig(100))
	fm := NewFileManager(&testutil.MockCompressor{}, j, &testutil.MockLogger{})

	require.NoError(t, fm.LoadFromFile(filepath.Join(t.TempDir(), "absent.dat")))
	assert.Zero(t, j.Size())
}

func TestFileManager_LoadCorruptFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.dat")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	j := NewJournal(journalConfig(100))
	fm := NewFileManager(&testutil.MockCompressor{}, j, &testutil.MockLogger{})

	assert.Error(t, fm.LoadFromFile(path))
	assert.Zero(t, j.Size())
}

func TestFileManager_CompressFailureAborts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.dat")

	j := NewJournal(journalConfig(100))
	fm := NewFileManager(&testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress failed") },
	}, j, &testutil.MockLogger{})

	assert.Error(t, fm.SaveToFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.dat")

	j := NewJournal(journalConfig(100))
	j.Record(models.TransitionFinalize, "42")
	fm := NewFileManager(&testutil.MockCompressor{}, j, &testutil.MockLogger{})

	require.NoError(t, fm.SaveToFile(path))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file must not linger")
}

func TestFileManager_RestorePreservesTimestamps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.dat")

	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	source := NewJournal(journalConfig(100))
	source.PutEvents([]*models.TransitionEvent{{ID: "a", CaseID: "42", Kind: models.TransitionStart, At: at}})

	fm := NewFileManager(&testutil.MockCompressor{}, source, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	restored := NewJournal(journalConfig(100))
	require.NoError(t, NewFileManager(&testutil.MockCompressor{}, restored, &testutil.MockLogger{}).LoadFromFile(path))

	require.Len(t, restored.Events(), 1)
	assert.True(t, at.Equal(restored.Events()[0].At))
}
