package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/pagefields/cache"
	"github.com/use-agent/pagefields/engine"
	"github.com/use-agent/pagefields/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStore) Set(ctx context.Context, key, html string) error {
	return m.Called(ctx, key, html).Error(0)
}

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Name() string { return "mock" }

func (m *mockEngine) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*engine.FetchResult)
	return res, args.Error(1)
}

func forURL(url string) interface{} {
	return mock.MatchedBy(func(r *engine.FetchRequest) bool { return r.URL == url })
}

const (
	testURL  = "https://example.com"
	testHTML = `<html><h1>Hello</h1><meta name="description" content="A page"><meta name="keywords" content="test"></html>`
)

var testFields = models.FieldMap{
	{Name: "title", Spec: models.Selector("h1")},
	{Name: "meta", Spec: models.MetaNames("description", "keywords")},
}

func TestExtract_CachedPageSkipsNetwork(t *testing.T) {
	store := new(mockStore)
	eng := new(mockEngine)
	store.On("Get", mock.Anything, cache.Key(testURL)).Return(testHTML, true, nil)

	res, err := New(store, eng).Extract(context.Background(), testURL, testFields)
	require.NoError(t, err)

	title, _ := res.Text("title")
	assert.Equal(t, "Hello", title)
	eng.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_MissFetchesAndStores(t *testing.T) {
	store := new(mockStore)
	eng := new(mockEngine)
	store.On("Get", mock.Anything, cache.Key(testURL)).Return("", false, nil)
	eng.On("Fetch", mock.Anything, forURL(testURL)).
		Return(&engine.FetchResult{HTML: testHTML, StatusCode: 200, EngineName: "mock"}, nil).Once()
	store.On("Set", mock.Anything, cache.Key(testURL), testHTML).Return(nil).Once()

	res, err := New(store, eng).Extract(context.Background(), testURL, testFields)
	require.NoError(t, err)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Hello","meta":{"description":"A page","keywords":"test"}}`, string(out))
	store.AssertExpectations(t)
	eng.AssertExpectations(t)
}

func TestExtract_NonSuccessStatusFails(t *testing.T) {
	store := new(mockStore)
	eng := new(mockEngine)
	store.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	eng.On("Fetch", mock.Anything, forURL(testURL)).
		Return(&engine.FetchResult{HTML: "nope", StatusCode: 503}, nil)

	res, err := New(store, eng).Extract(context.Background(), testURL, testFields)
	require.Error(t, err)
	assert.Nil(t, res)

	var scrapeErr *models.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, models.ErrCodeFetchFailed, scrapeErr.Code)
	assert.Equal(t, "Failed to fetch URL: https://example.com", scrapeErr.Message)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_EngineErrorPassesThrough(t *testing.T) {
	store := new(mockStore)
	eng := new(mockEngine)
	boom := errors.New("connection refused")
	store.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	eng.On("Fetch", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := New(store, eng).Extract(context.Background(), testURL, testFields)
	assert.ErrorIs(t, err, boom)
}

func TestExtract_SecondCallUsesCache(t *testing.T) {
	store := cache.NewMemory(0, 0)
	defer store.Close()
	eng := new(mockEngine)
	eng.On("Fetch", mock.Anything, forURL(testURL)).
		Return(&engine.FetchResult{HTML: testHTML, StatusCode: 200}, nil).Once()

	x := New(store, eng)
	for i := 0; i < 3; i++ {
		res, err := x.Extract(context.Background(), testURL, testFields)
		require.NoError(t, err)
		title, _ := res.Text("title")
		assert.Equal(t, "Hello", title)
	}

	eng.AssertNumberOfCalls(t, "Fetch", 1)
	cached, ok, err := store.Get(context.Background(), cache.Key(testURL))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, testHTML, cached)
}

func TestExtract_CacheErrorsDoNotFailExtraction(t *testing.T) {
	store := new(mockStore)
	eng := new(mockEngine)
	store.On("Get", mock.Anything, mock.Anything).Return("", false, errors.New("disk I/O error"))
	store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("database is locked"))
	eng.On("Fetch", mock.Anything, mock.Anything).
		Return(&engine.FetchResult{HTML: testHTML, StatusCode: 200}, nil)

	res, err := New(store, eng).Extract(context.Background(), testURL, testFields)
	require.NoError(t, err)
	title, _ := res.Text("title")
	assert.Equal(t, "Hello", title)
	eng.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestExtract_InvalidSelectorAborts(t *testing.T) {
	store := new(mockStore)
	store.On("Get", mock.Anything, mock.Anything).Return(testHTML, true, nil)

	fields := models.FieldMap{{Name: "bad", Spec: models.Selector("h1[")}}
	_, err := New(store, new(mockEngine)).Extract(context.Background(), testURL, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid selector "h1["`)
}
