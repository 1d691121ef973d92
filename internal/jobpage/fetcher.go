// Package jobpage downloads a job posting and reduces it to its text.
package jobpage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tmc/langchaingo/documentloaders"
	"go.uber.org/zap"

	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/telemetry"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; cv-matchmaker/1.0)"

	acceptHeader    = "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8"
	contentEncoding = "gzip"
)

var tracer = telemetry.GetTracer("cv-matchmaker/jobpage")

type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

func New(logger *zap.Logger, timeout time.Duration, userAgent string) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch performs a single GET of link and returns the text content of the
// first loaded document. There are no retries.
func (f *Fetcher) Fetch(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "FetchJobPage")
	defer span.End()

	target, err := parseLink(link)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(telemetry.String("http.url", target.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", apperrors.Fetch("creating request", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Encoding", contentEncoding)

	f.logger.Debug("make request", zap.String("url", target.String()))
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", apperrors.Fetch(fmt.Sprintf("requesting %s", target), err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	span.SetAttributes(telemetry.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", apperrors.Fetch(fmt.Sprintf("bad status from %s: %s", target, resp.Status), nil)
	}

	if ct := resp.Header.Get("Content-Type"); !isTextual(ct) {
		return "", apperrors.Fetch(fmt.Sprintf("unsupported content type from %s: %s", target, ct), nil)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", apperrors.Fetch("decoding gzip body", err)
		}
		defer gzipReader.Close()
		body = gzipReader
	}

	docs, err := documentloaders.NewHTML(body).Load(ctx)
	if err != nil {
		return "", apperrors.Fetch(fmt.Sprintf("parsing page %s", target), err)
	}
	if len(docs) == 0 {
		return "", apperrors.Fetch(fmt.Sprintf("no document loaded from %s", target), nil)
	}

	text := strings.TrimSpace(docs[0].PageContent)
	if text == "" {
		return "", apperrors.Fetch(fmt.Sprintf("page %s has no text", target), nil)
	}

	f.logger.Debug("job page loaded",
		zap.String("url", target.String()),
		zap.Int("text_length", len(text)),
	)
	span.SetAttributes(telemetry.Int("page.text_length", len(text)))

	return text, nil
}

func parseLink(link string) (*url.URL, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, apperrors.Fetch("job link is empty", nil)
	}

	target, err := url.Parse(link)
	if err != nil {
		return nil, apperrors.Fetch(fmt.Sprintf("invalid job link %q", link), err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, apperrors.Fetch(fmt.Sprintf("job link %q must be http or https", link), nil)
	}
	if target.Host == "" {
		return nil, apperrors.Fetch(fmt.Sprintf("job link %q has no host", link), nil)
	}

	return target, nil
}

// isTextual accepts an absent content type as well as HTML, XHTML and plain text.
func isTextual(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return true
	}
	return strings.Contains(ct, "html") || strings.HasPrefix(ct, "text/plain")
}
