// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

// MockResolver is a test double for [services.MetadataResolver].
//
// It serves Metadata by video id and counts calls per id. Unknown ids fail with Err,
// or [shared.ErrFetchFailed] when Err is nil.
type MockResolver struct {
	Metadata map[string]models.VideoMetadata
	Err      error
	Delay    time.Duration

	mu    sync.Mutex
	calls map[string]int
}

// NewMockResolver creates a resolver that knows the given videos.
func NewMockResolver(videos ...models.VideoMetadata) *MockResolver {
	m := &MockResolver{Metadata: map[string]models.VideoMetadata{}, calls: map[string]int{}}
	for _, v := range videos {
		m.Metadata[v.VideoID] = v
	}
	return m
}

func (m *MockResolver) Resolve(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[videoID]++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	meta, ok := m.Metadata[videoID]
	if !ok {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, shared.ErrFetchFailed
	}
	return &meta, nil
}

// Calls returns how many times videoID was resolved.
func (m *MockResolver) Calls(videoID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[videoID]
}

// TotalCalls returns the number of Resolve calls for all ids.
func (m *MockResolver) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// MockSearcher is a test double for [services.Searcher].
type MockSearcher struct {
	Results []models.SearchResult
	Err     error
	Queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	if maxResults > 0 && len(m.Results) > maxResults {
		return m.Results[:maxResults], nil
	}
	return m.Results, nil
}

// Video builds metadata with predictable fields for id.
func Video(id, title, duration string) models.VideoMetadata {
	return models.VideoMetadata{
		VideoID:     id,
		Title:       title,
		Thumbnail:   "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
		Channel:     "Channel " + id,
		Description: "Description " + id,
		Duration:    duration,
	}
}

// NewTestDatabase opens a migrated in-memory database closed at test cleanup.
func NewTestDatabase(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
