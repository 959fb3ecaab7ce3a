// Package ocr calls the OCR.space text recognition API.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainocr "github.com/tunerp/backend/internal/domain/ocr"
	"github.com/tunerp/backend/internal/infrastructure/config"
)

const (
	defaultAPIURL   = "https://api.ocr.space/parse/image"
	defaultLanguage = "fre"
	defaultEngine   = "2"
	defaultTimeout  = 30 * time.Second

	maxResponseSize = 2 * 1024 * 1024
)

var (
	ErrMissingAPIKey = errors.New("ocr: api key is required")
	ErrEmptyImage    = errors.New("ocr: image is required")
	ErrNoText        = errors.New("ocr: no text recognized")
)

// Client implements domainocr.Recognizer against OCR.space
type Client struct {
	apiURL     string
	apiKey     string
	language   string
	engine     string
	httpClient *http.Client
}

// NewClient creates an OCR.space client
func NewClient(cfg config.OCRConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiURL:   cfg.APIURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		engine:   cfg.Engine,
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	if c.language == "" {
		c.language = defaultLanguage
	}
	if c.engine == "" {
		c.engine = defaultEngine
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}
	return c, nil
}

// RecognizeURL reads the image served at imageURL
func (c *Client) RecognizeURL(ctx context.Context, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", ErrEmptyImage
	}
	form := c.baseForm()
	form.Set("url", imageURL)
	return c.parse(ctx, form)
}

// RecognizeBase64 reads an inline image. data may already carry a data: URI prefix.
func (c *Client) RecognizeBase64(ctx context.Context, data, mimeType string) (string, error) {
	if strings.TrimSpace(data) == "" {
		return "", ErrEmptyImage
	}
	if !strings.HasPrefix(data, "data:") {
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		data = "data:" + mimeType + ";base64," + data
	}
	form := c.baseForm()
	form.Set("base64Image", data)
	return c.parse(ctx, form)
}

func (c *Client) baseForm() url.Values {
	form := url.Values{}
	form.Set("language", c.language)
	form.Set("OCREngine", c.engine)
	form.Set("isOverlayRequired", "false")
	form.Set("scale", "true")
	return form
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText   string `json:"ParsedText"`
		ErrorMessage string `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func (c *Client) parse(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ocr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("ocr: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr: provider returned status %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ocr: decode response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr: processing failed: %s", errorMessage(parsed.ErrorMessage))
	}

	var text strings.Builder
	for _, r := range parsed.ParsedResults {
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(r.ParsedText)
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrNoText
	}
	return text.String(), nil
}

// errorMessage flattens ErrorMessage, which the API sends either as a string or a list
func errorMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return "unknown error"
}

var _ domainocr.Recognizer = (*Client)(nil)
