package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/resume"
)

const (
	ModeCSV  = "csv"
	ModeLink = "link"

	fieldMode   = "mode"
	fieldLink   = "link"
	fieldJobs   = "jobs"
	fieldResume = "resume"

	ResultFilename = "job_match_results.csv"
	csvContentType = "text/csv"

	pageTitle = "Auto CV Matchmaker"
)

var acceptedResumeTypes = strings.Join([]string{".pdf", ".docx", ".txt", resume.MimePDF, resume.MimeDOCX, resume.MimePlain}, ",")

// matchRequest is the parsed multipart form shared by the page and the API.
type matchRequest struct {
	mode   string
	link   string
	jobs   []byte
	resume resume.Resume
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":  pageTitle,
		"Accept": acceptedResumeTypes,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	c.Next()
}

func (s *Server) matchPage(c *gin.Context) {
	req, err := parseMatchRequest(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if req.mode == ModeLink {
		result, err := s.matcher.RunSingle(c.Request.Context(), req.resume, req.link)
		if err != nil {
			s.renderError(c, err)
			return
		}

		c.HTML(http.StatusOK, "result.html", gin.H{
			"Title":  pageTitle,
			"Link":   result.Link,
			"Result": result.MatchResult,
			"Fit":    result.Verdict.Fit,
			"Known":  result.Verdict.Known,
		})
		return
	}

	s.serveBatch(c, req, s.renderError)
}

func (s *Server) matchAPI(c *gin.Context) {
	req, err := parseMatchRequest(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}

	if req.mode == ModeLink {
		result, err := s.matcher.RunSingle(c.Request.Context(), req.resume, req.link)
		if err != nil {
			s.jsonError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id":   result.RequestID,
			"link":         result.Link,
			"match_result": result.MatchResult,
			"fit":          result.Verdict.Fit,
			"fit_known":    result.Verdict.Known,
		})
		return
	}

	s.serveBatch(c, req, s.jsonError)
}

func (s *Server) serveBatch(c *gin.Context, req *matchRequest, onError func(*gin.Context, error)) {
	ds, err := s.matcher.RunBatch(c.Request.Context(), req.resume, bytes.NewReader(req.jobs))
	if err != nil {
		onError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf); err != nil {
		onError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ResultFilename))
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}

func parseMatchRequest(c *gin.Context) (*matchRequest, error) {
	if _, err := c.MultipartForm(); err != nil {
		return nil, uploadError(err)
	}

	link := strings.TrimSpace(c.PostForm(fieldLink))
	mode := strings.ToLower(strings.TrimSpace(c.PostForm(fieldMode)))
	if mode == "" {
		mode = ModeCSV
		if link != "" {
			mode = ModeLink
		}
	}

	req := &matchRequest{mode: mode, link: link}

	switch mode {
	case ModeLink:
		if link == "" {
			return nil, apperrors.InvalidInput("enter the link to the job description", nil)
		}
	case ModeCSV:
		data, _, err := readUpload(c, fieldJobs)
		if err != nil {
			return nil, err
		}
		req.jobs = data
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown mode %q", mode), nil)
	}

	data, header, err := readUpload(c, fieldResume)
	if err != nil {
		return nil, err
	}
	req.resume = resume.Resume{
		Name: header.Filename,
		Mime: header.Header.Get("Content-Type"),
		Data: data,
	}

	return req, nil
}

func readUpload(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("%s file is required", field), nil)
		}
		return nil, nil, uploadError(err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("opening %s upload", field), err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("reading %s upload", field), err)
	}
	if len(data) == 0 {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("%s file is empty", field), nil)
	}

	return data, header, nil
}

type uploadTooLargeError struct {
	err error
}

func (e *uploadTooLargeError) Error() string { return "upload too large: " + e.err.Error() }
func (e *uploadTooLargeError) Unwrap() error { return e.err }

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &uploadTooLargeError{err: err}
	}
	return apperrors.InvalidInput("parsing upload", err)
}

func statusFor(err error) int {
	var tooLarge *uploadTooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeSchema, apperrors.ErrTypeExtraction, apperrors.ErrTypeInvalidInput:
		return http.StatusUnprocessableEntity
	case apperrors.ErrTypeFetch, apperrors.ErrTypeLLM:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	if kind := apperrors.TypeOf(err); kind != "" {
		return string(kind)
	}
	return http.StatusText(statusFor(err))
}

func (s *Server) logError(c *gin.Context, err error, status int) {
	_ = c.Error(err)
	fields := []zap.Field{zap.Int("status", status), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		s.logger.Error("match request failed", fields...)
		return
	}
	s.logger.Warn("match request rejected", fields...)
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	s.logError(c, err, status)
	c.HTML(status, "error.html", gin.H{
		"Title": pageTitle,
		"Kind":  errorKind(err),
		"Error": err.Error(),
	})
}

func (s *Server) jsonError(c *gin.Context, err error) {
	status := statusFor(err)
	s.logError(c, err, status)
	c.JSON(status, gin.H{
		"error": err.Error(),
		"type":  errorKind(err),
	})
}
