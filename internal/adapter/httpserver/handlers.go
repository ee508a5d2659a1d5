package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg     config.Config
	Matches usecase.MatchService
	// Optional readiness probes; nil probes are skipped.
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs a Server.
func NewServer(cfg config.Config, matches usecase.MatchService, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Matches: matches, DBCheck: dbCheck, RedisCheck: redisCheck}
}

type analyzeResponse struct {
	Success         bool     `json:"success"`
	ExtractedSkills []string `json:"extractedSkills"`
	JobContext      []string `json:"jobContext"`
}

type matchResponse struct {
	Success         bool                     `json:"success"`
	ExtractedSkills []string                 `json:"extractedSkills"`
	JobContext      []string                 `json:"jobContext"`
	Candidates      []domain.RankedCandidate `json:"candidates"`
}

func notAcceptable(w http.ResponseWriter, r *http.Request) bool {
	if acceptsJSON(r) {
		return false
	}
	writeStatus(w, http.StatusNotAcceptable, "not acceptable", map[string]string{"accept": r.Header.Get("Accept")})
	return true
}

const defaultBodyLimit = 64 << 10

func (s *Server) bodyLimit() int64 {
	if s.Cfg.MaxJobDescriptionBytes <= 0 {
		return defaultBodyLimit
	}
	return s.Cfg.MaxJobDescriptionBytes
}

func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, details map[string]string, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeStatus(w, http.StatusRequestEntityTooLarge, "payload too large", map[string]int64{"max_bytes": s.bodyLimit()})
		return
	}
	writeError(w, r, err, details)
}

// AnalyzeHandler extracts skills and context from a JSON job description.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		var req analyzeRequest
		if details, err := decodeJSON(w, r, s.bodyLimit(), &req); err != nil {
			s.writeDecodeError(w, r, details, err)
			return
		}
		s.writeAnalysis(w, r, req.JobDescription)
	}
}

func (s *Server) writeAnalysis(w http.ResponseWriter, r *http.Request, text string) {
	ex, err := s.Matches.Analyze(r.Context(), text)
	if err != nil {
		var details any
		if errors.Is(err, domain.ErrInvalidArgument) {
			details = map[string]string{"jobDescription": "required"}
		}
		writeError(w, r, err, details)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, ExtractedSkills: ex.ExtractedSkills, JobContext: ex.JobContext})
}

// AnalyzeUploadHandler analyzes a job description uploaded as a text file in
// the multipart field "job".
func (s *Server) AnalyzeUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		// Leave room for multipart framing around the file itself.
		maxBytes := s.bodyLimit()*2 + 4096
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeStatus(w, http.StatusRequestEntityTooLarge, "payload too large", map[string]int64{"max_bytes": s.bodyLimit()})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		f, h, err := r.FormFile("job")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: job file required", domain.ErrInvalidArgument), map[string]string{"field": "job"})
			return
		}
		defer func() { _ = f.Close() }()

		if !allowedExt(h.Filename) {
			writeStatus(w, http.StatusUnsupportedMediaType, "unsupported media type (extension)", map[string]string{"filename": h.Filename})
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.bodyLimit()+1))
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read job file: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if int64(len(data)) > s.bodyLimit() {
			writeStatus(w, http.StatusRequestEntityTooLarge, "payload too large", map[string]int64{"max_bytes": s.bodyLimit()})
			return
		}
		if mt := mimetype.Detect(data); !allowedMIME(mt.String()) {
			writeStatus(w, http.StatusUnsupportedMediaType, "unsupported media type (content)",
				map[string]string{"mime": mt.String(), "filename": h.Filename})
			return
		}
		s.writeAnalysis(w, r, textx.SanitizeText(string(data)))
	}
}

// allowedExt accepts plain text and markdown uploads.
func allowedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// allowedMIME accepts any sniffed text/* type; markdown is often detected as text/plain or text/html.
func allowedMIME(m string) bool {
	return strings.HasPrefix(strings.ToLower(m), "text/")
}

// MatchHandler ranks the roster for a job description.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		q, qdetails, err := parseMatchQuery(r)
		if err != nil {
			writeError(w, r, err, qdetails)
			return
		}
		var req matchRequest
		if details, err := decodeJSON(w, r, s.bodyLimit(), &req); err != nil {
			s.writeDecodeError(w, r, details, err)
			return
		}
		res, err := s.Matches.Match(r.Context(), usecase.MatchRequest{
			JobDescription:  req.JobDescription,
			ExtractedSkills: req.ExtractedSkills,
			JobContext:      req.JobContext,
			MinScore:        q.MinScore,
			Limit:           q.Limit,
			Explain:         q.Explain,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, matchResponse{
			Success:         true,
			ExtractedSkills: res.ExtractedSkills,
			JobContext:      res.JobContext,
			Candidates:      res.Candidates,
		})
	}
}

// CandidatesHandler lists the roster.
func (s *Server) CandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		all := s.Matches.Candidates(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(all), "candidates": all})
	}
}

// CandidateHandler returns one roster entry by name.
func (s *Server) CandidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r) {
			return
		}
		c, err := s.Matches.Candidate(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "candidate": c})
	}
}

type readyCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// ReadyzHandler probes the configured backends and the loaded roster.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := []readyCheck{probe(ctx, "store", s.storeCheck)}
		if s.DBCheck != nil {
			checks = append(checks, probe(ctx, "db", s.DBCheck))
		}
		if s.RedisCheck != nil {
			checks = append(checks, probe(ctx, "redis", s.RedisCheck))
		}
		status := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				status = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, status, map[string]any{"checks": checks})
	}
}

func (s *Server) storeCheck(ctx context.Context) error {
	if len(s.Matches.Candidates(ctx)) == 0 {
		return errors.New("no candidates loaded")
	}
	return nil
}

func probe(ctx context.Context, name string, fn func(context.Context) error) readyCheck {
	if err := fn(ctx); err != nil {
		return readyCheck{Name: name, Details: err.Error()}
	}
	return readyCheck{Name: name, OK: true}
}
