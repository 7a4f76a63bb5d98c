package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/internal/knowledge"
	"cyber-doctor/internal/knowledge/repository"
	"cyber-doctor/internal/search"
	"cyber-doctor/pkg/chunker"
	"cyber-doctor/pkg/log"
)

type fakeRepo struct {
	ensured   int
	ensureErr error
	upserted  []knowledge.Chunk
	upsertErr error
	lastOpt   repository.SearchOptions
	docs      []search.Document
	searchErr error
}

func (f *fakeRepo) EnsureCollection(ctx context.Context) error {
	f.ensured++
	return f.ensureErr
}

func (f *fakeRepo) UpsertChunks(ctx context.Context, chunks []knowledge.Chunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, chunks...)
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, opt repository.SearchOptions) ([]search.Document, error) {
	f.lastOpt = opt
	return f.docs, f.searchErr
}

func newUseCase(t *testing.T, repo *fakeRepo) *implUseCase {
	t.Helper()
	c, err := chunker.NewWithEncoder(chunker.RuneEncoder{}, 10, 2)
	require.NoError(t, err)
	return New(log.NewNop(), repo, c)
}

func TestRetrieve(t *testing.T) {
	repo := &fakeRepo{docs: []search.Document{{Content: "多运动"}}}
	uc := newUseCase(t, repo)

	docs, err := uc.Retrieve(context.Background(), "  糖尿病怎么预防 ", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, repository.SearchOptions{Query: "糖尿病怎么预防", Limit: DefaultTopK}, repo.lastOpt)

	_, err = uc.Retrieve(context.Background(), " ", 3)
	assert.ErrorIs(t, err, knowledge.ErrEmptyQuery)

	repo.searchErr = errors.New("qdrant down")
	_, err = uc.Retrieve(context.Background(), "高血压", 3)
	assert.Error(t, err)
}

func TestIndexDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diabetes.md"), []byte("糖尿病患者应控制饮食并规律运动，定期监测血糖。"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "bp.html"),
		[]byte("<html><head><script>var x=1;</script></head><body><p>高血压要低盐饮食</p></body></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("   "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o644))

	repo := &fakeRepo{}
	uc := newUseCase(t, repo)

	out, err := uc.IndexDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.ensured)
	assert.Equal(t, 2, out.Files)
	assert.Equal(t, []string{"empty.txt"}, out.Skipped)
	assert.Equal(t, len(repo.upserted), out.Chunks)

	sources := map[string]bool{}
	for _, c := range repo.upserted {
		sources[c.Source] = true
		assert.NotContains(t, c.Text, "var x")
	}
	assert.True(t, sources["diabetes.md"])
	assert.True(t, sources["sub/bp.html"])
}

func TestIndexDirectory_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		_, err := newUseCase(t, &fakeRepo{}).IndexDirectory(context.Background(), t.TempDir())
		assert.ErrorIs(t, err, knowledge.ErrNoFilesIndexed)
	})

	t.Run("collection", func(t *testing.T) {
		_, err := newUseCase(t, &fakeRepo{ensureErr: errors.New("boom")}).IndexDirectory(context.Background(), t.TempDir())
		assert.Error(t, err)
	})

	t.Run("upsert", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("内容"), 0o644))
		_, err := newUseCase(t, &fakeRepo{upsertErr: errors.New("boom")}).IndexDirectory(context.Background(), dir)
		assert.Error(t, err)
	})
}
