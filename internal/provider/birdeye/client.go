package birdeye

import (
	"net/http"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=birdeye_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIClient is a client for the BirdEye multi-price API.
type APIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client used for all requests.
	httpClient HTTPClient
	// header contains the headers sent with each request, including the API key.
	header http.Header
}

// APIClientOption is a configuration option for the BirdEye API client.
type APIClientOption func(*APIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) APIClientOption {
	return func(c *APIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) APIClientOption {
	return func(c *APIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) APIClientOption {
	return func(c *APIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

const defaultBaseURL = "https://public-api.birdeye.so"

// NewAPIClient creates a new BirdEye API client. The key is sent as the
// X-API-KEY header on every request; the chain is pinned to solana.
func NewAPIClient(key string, options ...APIClientOption) (*APIClient, error) {
	var client = &APIClient{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	client.header.Set("accept", "application/json")
	client.header.Set("x-chain", "solana")
	if key != "" {
		client.header.Set("X-API-KEY", key)
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// Name identifies the provider in caller-facing output.
func (c *APIClient) Name() string { return "BirdEye" }
