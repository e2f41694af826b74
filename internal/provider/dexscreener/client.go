package dexscreener

import (
	"net/http"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=dexscreener_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIClient is a client for the DexScreener pairs API. The API is unkeyed.
type APIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client used for all requests.
	httpClient HTTPClient
	// header contains the headers sent with each request.
	header http.Header
}

// APIClientOption is a configuration option for the DexScreener API client.
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

const defaultBaseURL = "https://api.dexscreener.com"

// NewAPIClient creates a new DexScreener API client.
func NewAPIClient(options ...APIClientOption) (*APIClient, error) {
	var client = &APIClient{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	client.header.Set("accept", "application/json")
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// Name identifies the provider in caller-facing output.
func (c *APIClient) Name() string { return "DexScreener" }
