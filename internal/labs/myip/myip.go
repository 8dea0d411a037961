// Package myip is the dev-workflow lab: a single outbound GET that reports
// the caller's public address.
package myip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"container-labs/internal/logging"

	"github.com/sirupsen/logrus"
)

const (
	DefaultURL     = "https://httpbin.org/ip"
	DefaultTimeout = 10 * time.Second
)

type Result struct {
	Origin     string
	StatusCode int
}

type response struct {
	Origin string `json:"origin"`
}

type Client struct {
	http *http.Client
	url  string
}

func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, url: url}
}

// Lookup issues one GET and decodes the origin field of the body.
func (c *Client) Lookup(ctx context.Context) (*Result, error) {
	logger := logging.GetLogger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", c.url, err)
	}
	defer resp.Body.Close()

	logger.WithFields(logrus.Fields{
		"url":    c.url,
		"status": resp.StatusCode,
	}).Debug("Received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.url)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Origin == "" {
		return nil, fmt.Errorf("response from %s has no origin", c.url)
	}

	return &Result{Origin: body.Origin, StatusCode: resp.StatusCode}, nil
}

// Run looks up the public address within timeout and prints it to w.
func Run(ctx context.Context, w io.Writer, c *Client, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.Lookup(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Your public IP: %s\n", result.Origin)
	fmt.Fprintf(w, "Status code: %d\n", result.StatusCode)
	return nil
}
