package config

import (
	"encoding/base64"
	"fmt"
)

const (
	DefaultTMDBBaseURL   = "https://api.themoviedb.org/3"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	SigningKey     []byte
	AllowedOrigins []string
	TMDBBaseURL    string
	TMDBAPIKey     string
	OpenAIBaseURL  string
	// OpenAIAPIKey may be empty, in which case movie blurbs are
	// unavailable and the blurb endpoint degrades
	OpenAIAPIKey string
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, databaseDSN, base64Secret string, allowedOrigins []string, tmdbAPIKey, openAIAPIKey string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	if tmdbAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		ServerAddr:     serverAddr,
		DatabaseDSN:    databaseDSN,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
		TMDBBaseURL:    DefaultTMDBBaseURL,
		TMDBAPIKey:     tmdbAPIKey,
		OpenAIBaseURL:  DefaultOpenAIBaseURL,
		OpenAIAPIKey:   openAIAPIKey,
	}, nil
}
