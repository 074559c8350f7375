// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package gateway carries the off-chain proof fetch as an explicit
// two-message exchange.
//
// Phase one produces a Request value: everything needed to fetch the proof
// bytes plus an opaque context the caller wants echoed back. Phase two —
// decoding the response and verifying it — happens wherever the caller
// resumes, typically resolver.ResolveWithProof. The two phases share no
// hidden state; everything travels inside the Request.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/starkproof/starkproof/felt"
	"github.com/starkproof/starkproof/logger"
)

// Request describes one proof fetch: which contract and storage key to prove,
// at which block, and where to ask. Context is opaque to this package and is
// returned untouched to whoever resumes the exchange.
type Request struct {
	URLs        []string     `json:"urls"`
	Contract    felt.Element `json:"contract"`
	StorageKey  felt.Element `json:"storage_key"`
	BlockNumber int64        `json:"block_number"`
	Context     []byte       `json:"context,omitempty"`
}

// body is what gets POSTed to a gateway.
type body struct {
	Contract    string `json:"contract"`
	StorageKey  string `json:"storage_key"`
	BlockNumber int64  `json:"block_number"`
}

// Client fetches proof bytes from proof gateways. It retries transient
// failures per endpoint and falls through to the next URL on hard failures.
// The zero value is not usable; construct with NewClient.
type Client struct {
	http *retryablehttp.Client
	log  zerolog.Logger
}

// NewClient returns a gateway client with sane retry defaults.
func NewClient() *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.Logger = nil
	return &Client{http: c, log: logger.Logger()}
}

// Fetch executes the request against each gateway in order and returns the
// first successful response body, raw and unverified. Verification of the
// bytes is entirely the caller's business.
func (c *Client) Fetch(ctx context.Context, req *Request) ([]byte, error) {
	if len(req.URLs) == 0 {
		return nil, errors.New("gateway: no gateway URLs configured")
	}

	payload, err := json.Marshal(body{
		Contract:    felt.Hex(&req.Contract),
		StorageKey:  felt.Hex(&req.StorageKey),
		BlockNumber: req.BlockNumber,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, url := range req.URLs {
		data, err := c.post(ctx, url, payload)
		if err != nil {
			c.log.Warn().Err(err).Str("gateway", url).Msg("proof fetch failed, trying next gateway")
			lastErr = err
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("gateway: all %d gateway(s) failed, last error: %w", len(req.URLs), lastErr)
}

func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway: %s answered %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
