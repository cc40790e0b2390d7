// Package inference is the HTTP client for the remote inference service.
// Both operations upload the image as a single multipart field named
// "image"; classify answers with JSON, denoise with the image bytes.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"imglab/internal/config"
	"imglab/internal/errors"
	"imglab/internal/log"
	"imglab/pkg/types"
)

// FieldName is the multipart field carrying the image
const FieldName = "image"

// maxDenoiseBytes bounds the denoise response body
const maxDenoiseBytes = 64 << 20

// Client talks to the inference service
type Client struct {
	baseURL      string
	classifyPath string
	denoisePath  string
	http         *http.Client
	logger       *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger replaces the package-level logger
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the service described by cfg
func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.Service.BaseURL, "/"),
		classifyPath: cfg.Service.ClassifyPath,
		denoisePath:  cfg.Service.DenoisePath,
		http:         &http.Client{Timeout: cfg.Timeout()},
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL used for op
func (c *Client) Endpoint(op types.Operation) string {
	if op == types.Denoise {
		return c.baseURL + c.denoisePath
	}
	return c.baseURL + c.classifyPath
}

type classifyResponse struct {
	PredictedClass *string  `json:"predicted_class"`
	Confidence     *float64 `json:"confidence"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Classify uploads file to the classify endpoint and decodes the label
func (c *Client) Classify(ctx context.Context, file *types.SelectedFile) (*types.ClassificationResult, error) {
	resp, err := c.post(ctx, types.Classify, file)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewOperationError(types.Classify.String(), errors.MalformedResponse, err)
	}
	if body.PredictedClass == nil || *body.PredictedClass == "" {
		return nil, errors.NewOperationError(types.Classify.String(), errors.MalformedResponse,
			errors.New("missing predicted_class"))
	}
	if body.Confidence == nil {
		return nil, errors.NewOperationError(types.Classify.String(), errors.MalformedResponse,
			errors.New("missing confidence"))
	}
	if *body.Confidence < 0 || *body.Confidence > 1 {
		return nil, errors.NewOperationError(types.Classify.String(), errors.MalformedResponse,
			errors.Newf("confidence %v outside [0,1]", *body.Confidence))
	}

	return &types.ClassificationResult{Label: *body.PredictedClass, Confidence: *body.Confidence}, nil
}

// Denoise uploads file to the denoise endpoint and returns the image body
// with its media type
func (c *Client) Denoise(ctx context.Context, file *types.SelectedFile) ([]byte, string, error) {
	resp, err := c.post(ctx, types.Denoise, file)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDenoiseBytes+1))
	if err != nil {
		return nil, "", errors.NewOperationError(types.Denoise.String(), errors.TransportFailed, err)
	}
	if len(data) == 0 {
		return nil, "", errors.NewOperationError(types.Denoise.String(), errors.MalformedResponse,
			errors.New("empty body"))
	}
	if len(data) > maxDenoiseBytes {
		return nil, "", errors.NewOperationError(types.Denoise.String(), errors.MalformedResponse,
			errors.Newf("body exceeds %d bytes", maxDenoiseBytes))
	}

	mediaType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, "", errors.NewOperationError(types.Denoise.String(), errors.MalformedResponse,
			errors.Newf("unexpected content type %s", mediaType))
	}
	return data, mediaType, nil
}

// post sends file as multipart form data and returns a 2xx response.
// Any other outcome is converted into an OperationError.
func (c *Client) post(ctx context.Context, op types.Operation, file *types.SelectedFile) (*http.Response, error) {
	if file == nil {
		return nil, errors.ErrNoFileSelected
	}

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return nil, errors.NewOperationError(op.String(), errors.TransportFailed, err)
	}

	url := c.Endpoint(op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.NewOperationError(op.String(), errors.TransportFailed, err)
	}
	req.Header.Set("Content-Type", contentType)

	opLog := c.logger.With(log.F("operation", op.String()), log.F("url", url), log.F("file", file.Name))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		wrapped := errors.NewOperationError(op.String(), errors.TransportFailed, err)
		opLog.WithError(wrapped).Error("inference request failed")
		return nil, wrapped
	}

	opLog = opLog.With(log.F("status", resp.StatusCode), log.F("elapsed", time.Since(start).String()))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		wrapped := errors.NewStatusError(op.String(), resp.StatusCode, readErrorDetail(resp.Body))
		opLog.WithError(wrapped).Warn("inference service rejected request")
		return nil, wrapped
	}

	opLog.Debug("inference request succeeded")
	return resp, nil
}

func encodeMultipart(file *types.SelectedFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldName, escapeQuotes(file.Name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// readErrorDetail extracts the {"error": "..."} message the service sends
// with 4xx responses, falling back to a short plain-text body
func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "<") || len(text) > 200 {
		return ""
	}
	return text
}
