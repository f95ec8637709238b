package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(Config{BaseURL: ts.URL + "/", APIKey: "secret", HTTPClient: ts.Client()}, nil)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(APIKeyHeader))
		io.WriteString(w, `{"status": "ok"}`)
	})

	raw, err := c.Health(context.Background())
	require.NoError(t, err)
	status, _ := raw.Get("status")
	assert.Equal(t, "ok", status.String())
}

func TestHealthFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	})

	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "down for maintenance")
}

func TestUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil)
	_, err := c.Health(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	c.client.CloseIdleConnections()
}

func TestAnalyze(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze-statement", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(APIKeyHeader))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "statement.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 fake", string(data))

		io.WriteString(w, `{"summary": "Score: 72", "bank": "Acme"}`)
	})

	raw, err := c.Analyze(context.Background(), "/tmp/statement.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, []string{"summary", "bank"}, raw.Keys())
}

func TestAnalyzeFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[1, 2]`)
	})
	path := filepath.Join(t.TempDir(), "scan.PNG")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))

	raw, err := c.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, raw.Equal(models.NewArray(models.NewNumber(1), models.NewNumber(2))))
}

func TestAnalyzeValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail": [
			{"loc": ["body", "file"], "msg": "field required", "type": "value_error.missing"},
			{"loc": ["body", 0], "msg": "file too large", "type": "value_error"}
		]}`)
	})

	_, err := c.Analyze(context.Background(), "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamValidationFailed)
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, "validation error: field required, file too large", err.Error())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"field required", "file too large"}, verr.Messages())
	assert.Equal(t, "value_error.missing", verr.Details[0].Type)
}

func TestAnalyzeRejectsUnsupportedUpload(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.Analyze(context.Background(), "statement.docx", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedUpload)
	assert.Zero(t, calls.Load())
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"broken": `)
	})

	_, err := c.Analyze(context.Background(), "a.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"statement.pdf", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"scan.png", true},
		{"notes.txt", false},
		{"archive.pdf.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		err := ValidateUpload(tt.name)
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrUnsupportedUpload, tt.name)
		}
	}
}
