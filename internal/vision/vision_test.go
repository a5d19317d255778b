// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medivision/medscan/pkg/types"
)

func visionTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func testClient(ts *httptest.Server, key string) *Client {
	c := New(types.OCRConfig{APIKey: key})
	c.client = ts.Client()
	return c
}

func TestExtractText(t *testing.T) {
	var receivedKey string
	var receivedBody struct {
		Requests []struct {
			Image struct {
				Content string `json:"content"`
			} `json:"image"`
			Features []struct {
				Type string `json:"type"`
			} `json:"features"`
		} `json:"requests"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&receivedBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"responses":[{"fullTextAnnotation":{"text":"PARACETAMOL\n500mg Tablet"}}]}`)
	}))
	defer ts.Close()

	old := annotateBase
	annotateBase = ts.URL
	defer func() { annotateBase = old }()

	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	text, err := testClient(ts, "test-key").ExtractText(context.Background(), image)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if want := "PARACETAMOL\n500mg Tablet"; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if receivedKey != "test-key" {
		t.Errorf("key param = %q, want %q", receivedKey, "test-key")
	}

	if len(receivedBody.Requests) != 1 {
		t.Fatalf("request count = %d, want 1", len(receivedBody.Requests))
	}
	// Image bytes travel base64-encoded.
	if want := base64.StdEncoding.EncodeToString(image); receivedBody.Requests[0].Image.Content != want {
		t.Errorf("image content = %q, want %q", receivedBody.Requests[0].Image.Content, want)
	}
	features := receivedBody.Requests[0].Features
	if len(features) != 2 || features[0].Type != "TEXT_DETECTION" || features[1].Type != "DOCUMENT_TEXT_DETECTION" {
		t.Errorf("features = %+v, want TEXT_DETECTION and DOCUMENT_TEXT_DETECTION", features)
	}
}

func TestExtractTextNoTextFound(t *testing.T) {
	ts := visionTestServer(http.StatusOK, `{"responses":[{}]}`)
	defer ts.Close()

	old := annotateBase
	annotateBase = ts.URL
	defer func() { annotateBase = old }()

	text, err := testClient(ts, "test-key").ExtractText(context.Background(), []byte{0x01})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty for image without text", text)
	}
}

func TestExtractTextAPIError(t *testing.T) {
	ts := visionTestServer(http.StatusOK, `{"responses":[{"error":{"code":3,"message":"Bad image data.","status":"INVALID_ARGUMENT"}}]}`)
	defer ts.Close()

	old := annotateBase
	annotateBase = ts.URL
	defer func() { annotateBase = old }()

	_, err := testClient(ts, "test-key").ExtractText(context.Background(), []byte{0x01})
	if err == nil {
		t.Fatal("expected per-image API error")
	}
	if !strings.Contains(err.Error(), "Bad image data") {
		t.Errorf("error = %q, should carry the API message", err.Error())
	}
}

func TestExtractTextHTTPNon200(t *testing.T) {
	ts := visionTestServer(http.StatusForbidden, `{"error":{"code":403}}`)
	defer ts.Close()

	old := annotateBase
	annotateBase = ts.URL
	defer func() { annotateBase = old }()

	_, err := testClient(ts, "bad-key").ExtractText(context.Background(), []byte{0x01})
	if err == nil || !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("error = %v, want HTTP 403", err)
	}
}

func TestExtractTextMissingKey(t *testing.T) {
	c := New(types.OCRConfig{})
	_, err := c.ExtractText(context.Background(), []byte{0x01})
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("error = %v, want missing-key error", err)
	}
}

func TestExtractTextEmptyImage(t *testing.T) {
	c := New(types.OCRConfig{APIKey: "test-key"})
	_, err := c.ExtractText(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "empty image") {
		t.Errorf("error = %v, want empty-image error", err)
	}
}
