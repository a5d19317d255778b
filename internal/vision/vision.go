// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vision extracts printed text from label photographs using the
// Google Cloud Vision REST API.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/medivision/medscan/pkg/types"
)

// annotateBase is the Cloud Vision annotate endpoint. Declared as a var
// so tests can substitute an httptest server.
var annotateBase = "https://vision.googleapis.com/v1/images:annotate"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "medscan/0.1"
)

// Client performs OCR through the Cloud Vision API.
type Client struct {
	client    *http.Client
	apiKey    string
	userAgent string
}

// New builds a Client from configuration. The API key is required; an
// error from ExtractText reports a missing key at call time so a
// pipeline without OCR can still construct its dependencies.
func New(cfg types.OCRConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		apiKey:    cfg.APIKey,
		userAgent: userAgent,
	}
}

// ExtractText sends the image to Cloud Vision and returns the full
// detected text block. An empty string with nil error means the image
// contained no recognizable text.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no Cloud Vision API key configured")
	}
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	// Content is []byte: encoding/json emits it base64-encoded, which is
	// exactly the wire format the API expects.
	reqBody := annotateRequest{
		Requests: []imageRequest{{
			Image: imageContent{Content: image},
			Features: []feature{
				{Type: "TEXT_DETECTION"},
				{Type: "DOCUMENT_TEXT_DETECTION"},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding annotate request: %w", err)
	}

	reqURL := annotateBase + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Vision API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Vision API returned HTTP %d", resp.StatusCode)
	}

	var ar annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", fmt.Errorf("parsing Vision response: %w", err)
	}

	if len(ar.Responses) == 0 {
		return "", nil
	}
	r := ar.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("Vision API error %d: %s", r.Error.Code, r.Error.Message)
	}
	return r.FullTextAnnotation.Text, nil
}

// Cloud Vision API JSON structures.
type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content []byte `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	FullTextAnnotation fullTextAnnotation `json:"fullTextAnnotation"`
	Error              *apiError          `json:"error,omitempty"`
}

type fullTextAnnotation struct {
	Text string `json:"text"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
