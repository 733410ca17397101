// Package tmdb is a thin read-through client for The Movie Database
// REST API. It is entirely out of process from the relay: a failing
// catalog lookup degrades the page that asked for it and nothing else.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type Genre struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	Id           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	BackdropPath string  `json:"backdrop_path"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIds     []int   `json:"genre_ids,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
}

type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type Video struct {
	Id       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type VideoList struct {
	Id      int     `json:"id"`
	Results []Video `json:"results"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

func (c *Client) TrendingMovies(ctx context.Context) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/trending/movie/week", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/search/movie", url.Values{"query": {query}}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) MovieDetails(ctx context.Context, movieId string) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, "/movie/"+url.PathEscape(movieId), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *Client) MovieVideos(ctx context.Context, movieId string) (*VideoList, error) {
	var list VideoList
	if err := c.get(ctx, "/movie/"+url.PathEscape(movieId)+"/videos", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) SimilarMovies(ctx context.Context, movieId string) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/movie/"+url.PathEscape(movieId)+"/similar", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
