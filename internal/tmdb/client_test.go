package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const trendingFixture = `{
	"page": 1,
	"results": [
		{"id": 42, "title": "Some Movie", "overview": "A movie.", "poster_path": "/p.jpg", "vote_average": 7.5},
		{"id": 43, "title": "Another Movie", "overview": "Another.", "poster_path": "/q.jpg", "vote_average": 6.1}
	],
	"total_pages": 1,
	"total_results": 2
}`

func TestTrendingMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/movie/week", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"), "expected api key on every request")
		w.Write([]byte(trendingFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	list, err := c.TrendingMovies(context.Background())
	assert.NoError(t, err, "expected no error")
	assert.Len(t, list.Results, 2, "expected two movies")
	assert.Equal(t, 42, list.Results[0].Id)
	assert.Equal(t, "Some Movie", list.Results[0].Title)
	assert.Equal(t, 7.5, list.Results[0].VoteAverage)
}

func TestSearchMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "alien", r.URL.Query().Get("query"), "expected search query to be forwarded")
		w.Write([]byte(trendingFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	list, err := c.SearchMovies(context.Background(), "alien")
	assert.NoError(t, err, "expected no error")
	assert.Len(t, list.Results, 2)
}

func TestMovieDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/42", r.URL.Path)
		w.Write([]byte(`{"id": 42, "title": "Some Movie", "overview": "A movie.",
			"genres": [{"id": 18, "name": "Drama"}], "release_date": "2020-01-01"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	movie, err := c.MovieDetails(context.Background(), "42")
	assert.NoError(t, err, "expected no error")
	assert.Equal(t, 42, movie.Id)
	assert.Equal(t, "Some Movie", movie.Title)
	assert.Equal(t, []Genre{{Id: 18, Name: "Drama"}}, movie.Genres)
	assert.Equal(t, "2020-01-01", movie.ReleaseDate)
}

func TestMovieVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/42/videos", r.URL.Path)
		w.Write([]byte(`{"id": 42, "results": [{"id": "abc", "key": "dQw4w9WgXcQ", "site": "YouTube", "type": "Trailer", "official": true}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	list, err := c.MovieVideos(context.Background(), "42")
	assert.NoError(t, err, "expected no error")
	assert.Len(t, list.Results, 1)
	assert.Equal(t, "dQw4w9WgXcQ", list.Results[0].Key)
	assert.True(t, list.Results[0].Official)
}

func TestSimilarMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/42/similar", r.URL.Path)
		w.Write([]byte(trendingFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	list, err := c.SimilarMovies(context.Background(), "42")
	assert.NoError(t, err, "expected no error")
	assert.Len(t, list.Results, 2)
}

func TestClient_unexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	_, err := c.TrendingMovies(context.Background())
	assert.Error(t, err, "expected error on non-200 status")
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestClient_serverUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // close immediately so the request fails

	c := NewClient(srv.URL, "test-key")
	_, err := c.TrendingMovies(context.Background())
	assert.Error(t, err, "expected error when catalog is unreachable")
}
