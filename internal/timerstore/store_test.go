package timerstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctd/internal/bus"
	"ctd/internal/models"
	"ctd/internal/structures"
	"ctd/internal/testutil"
)

func newTestStore(t *testing.T) (StoreInterface, *bus.Bus, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "timer.json")
	b := bus.New()
	conf := &structures.Config{
		Timer: structures.TimerConfig{StatePath: path, FetchTimeout: time.Second},
	}
	store, err := NewStore(conf, b, &testutil.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store, b, path
}

type signalCounter struct {
	mu    sync.Mutex
	count int
}

func (sc *signalCounter) inc() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.count++
}

func (sc *signalCounter) get() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.count
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)

	record := &models.ActiveTimerRecord{CaseID: "42", StartedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, store.Save(record))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.True(t, record.Equal(loaded))
}

func TestStore_ClearThenLoadReturnsNil(t *testing.T) {
	store, _, _ := newTestStore(t)

	require.NoError(t, store.Save(&models.ActiveTimerRecord{CaseID: "42", StartedAt: time.Now()}))
	require.NoError(t, store.Clear())

	assert.Nil(t, store.Load())
}

func TestStore_ClearWithoutRecordIsNoop(t *testing.T) {
	store, _, _ := newTestStore(t)

	require.NoError(t, store.Clear())
	assert.Nil(t, store.Load())
}

func TestStore_LoadMissingFileReturnsNil(t *testing.T) {
	store, _, _ := newTestStore(t)

	assert.Nil(t, store.Load())
}

func TestStore_LoadMalformedContentReturnsNil(t *testing.T) {
	store, _, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))
	assert.Nil(t, store.Load())
}

func TestStore_LoadMissingFieldsReturnsNil(t *testing.T) {
	store, _, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte(`{"caseId":"42"}`), 0644))
	assert.Nil(t, store.Load())

	require.NoError(t, os.WriteFile(path, []byte(`{"startedAt":"2026-08-30T10:00:00Z"}`), 0644))
	assert.Nil(t, store.Load())
}

func TestStore_SingleRecordInvariant(t *testing.T) {
	store, _, _ := newTestStore(t)

	require.NoError(t, store.Save(&models.ActiveTimerRecord{CaseID: "42", StartedAt: time.Now()}))
	require.NoError(t, store.Save(&models.ActiveTimerRecord{CaseID: "43", StartedAt: time.Now()}))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "43", loaded.CaseID)
}

func TestStore_SaveNotifiesSubscribersSynchronously(t *testing.T) {
	store, b, _ := newTestStore(t)

	var observed *models.ActiveTimerRecord
	b.Subscribe(bus.SignalTimerChanged, func() {
		// the write must be durable before the signal fires
		observed = store.Load()
	})

	require.NoError(t, store.Save(&models.ActiveTimerRecord{CaseID: "42", StartedAt: time.Now()}))

	require.NotNil(t, observed)
	assert.Equal(t, "42", observed.CaseID)
}

func TestStore_ClearNotifiesSubscribers(t *testing.T) {
	store, b, _ := newTestStore(t)
	require.NoError(t, store.Save(&models.ActiveTimerRecord{CaseID: "42", StartedAt: time.Now()}))

	counter := &signalCounter{}
	b.Subscribe(bus.SignalTimerChanged, counter.inc)

	require.NoError(t, store.Clear())
	assert.Equal(t, 1, counter.get())
}

func TestStore_ExternalWriteIsRepublished(t *testing.T) {
	store, b, path := newTestStore(t)

	counter := &signalCounter{}
	b.Subscribe(bus.SignalTimerChanged, counter.inc)

	// simulate another process writing the state file
	data := []byte(`{"caseId":"77","startedAt":"2026-08-30T10:00:00Z"}`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	require.Eventually(t, func() bool {
		return counter.get() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "77", loaded.CaseID)
}

func TestStore_OwnWriteIsNotRepublished(t *testing.T) {
	store, b, _ := newTestStore(t)

	counter := &signalCounter{}
	b.Subscribe(bus.SignalTimerChanged, counter.inc)

	require.NoError(t, store.Save(&models.ActiveTimerRecord{CaseID: "42", StartedAt: time.Now()}))

	// the synchronous signal fires once; the watcher must not echo it
	assert.Never(t, func() bool {
		return counter.get() > 1
	}, 300*time.Millisecond, 20*time.Millisecond)
}
