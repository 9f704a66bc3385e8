package files

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cnhpulse/internal/dataprocessing"
	apperrors "cnhpulse/internal/errors"
	"cnhpulse/internal/shared/testutil"
)

const storeCSV = "descricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada,qtd_condutores\n" +
	"RECIFE,E,51-60 ANOS,S,12\n"

// countingLoader wraps the real loader and counts parses
type countingLoader struct {
	inner   *dataprocessing.Loader
	calls   atomic.Int32
	release chan struct{}
}

func (l *countingLoader) Load(ctx context.Context, path string) (*dataprocessing.Table, error) {
	l.calls.Add(1)
	if l.release != nil {
		<-l.release
	}
	return l.inner.Load(ctx, path)
}

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) CacheHit(ctx context.Context)  { m.Called() }
func (m *mockObserver) CacheMiss(ctx context.Context) { m.Called() }
func (m *mockObserver) TableLoaded(ctx context.Context, d time.Duration, err error) {
	m.Called(err == nil)
}

func newCountingLoader() *countingLoader {
	return &countingLoader{inner: dataprocessing.NewLoader(dataprocessing.LoadOptions{}, nil)}
}

func writeSource(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "condutores.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTableStoreMemoizes(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := writeSource(t, t.TempDir(), storeCSV)
	loader := newCountingLoader()

	observer := &mockObserver{}
	observer.On("CacheMiss").Once()
	observer.On("TableLoaded", true).Once()
	observer.On("CacheHit").Twice()

	store := NewTableStore(loader, time.Minute, logger, WithObserver(observer))

	first, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		again, err := store.Get(context.Background(), path)
		require.NoError(t, err)
		assert.Same(t, first, again)
	}

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 1, store.Len())
	observer.AssertExpectations(t)
}

func TestTableStoreReloadsOnChange(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := writeSource(t, t.TempDir(), storeCSV)
	loader := newCountingLoader()
	store := NewTableStore(loader, time.Minute, logger)

	first, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(12), first.Sum())

	require.NoError(t, os.WriteFile(path, []byte(storeCSV+"OLINDA,C,18-21 ANOS,N,3\n"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(15), second.Sum())
	assert.Equal(t, int32(2), loader.calls.Load())
	assert.Equal(t, 1, store.Len(), "stale version must be dropped")
	assert.True(t, handler.ContainsMessage("source changed"))
}

func TestTableStoreSharesConcurrentLoads(t *testing.T) {
	path := writeSource(t, t.TempDir(), storeCSV)
	loader := newCountingLoader()
	loader.release = make(chan struct{})
	store := NewTableStore(loader, time.Minute, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*dataprocessing.Table, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tbl, err := store.Get(context.Background(), path)
			assert.NoError(t, err)
			results[i] = tbl
		}(i)
	}

	// Let every caller reach the store before the parse finishes.
	time.Sleep(50 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestTableStoreErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewTableStore(newCountingLoader(), time.Minute, nil)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Get(context.Background(), filepath.Join(dir, "absent.csv"))
		var loadErr *apperrors.DataLoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := store.Get(context.Background(), dir)
		var loadErr *apperrors.DataLoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("parse failures are not cached", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "descricao_municipio\nRECIFE\n")
		loader := newCountingLoader()
		s := NewTableStore(loader, time.Minute, nil)

		_, err := s.Get(context.Background(), path)
		require.Error(t, err)
		_, err = s.Get(context.Background(), path)
		require.Error(t, err)
		assert.Equal(t, int32(2), loader.calls.Load())
		assert.Equal(t, 0, s.Len())
	})
}

func TestTableStoreInvalidate(t *testing.T) {
	path := writeSource(t, t.TempDir(), storeCSV)
	loader := newCountingLoader()
	store := NewTableStore(loader, time.Minute, nil)

	_, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	store.Invalidate(path)
	assert.Equal(t, 0, store.Len())

	_, err = store.Get(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}
