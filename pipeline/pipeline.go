// Package pipeline composes the draft-to-survey stages behind one service:
// load → segment → extract → validate/check, plus Decipher export. Stages are
// pure and share no mutable state, so a Service is safe for concurrent
// requests.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/surveyforge/draftd/audit"
	"github.com/surveyforge/draftd/decipher"
	"github.com/surveyforge/draftd/docpipe"
	"github.com/surveyforge/draftd/extract"
	"github.com/surveyforge/draftd/schema"
	"github.com/surveyforge/draftd/segment"
	"github.com/surveyforge/draftd/survey"
)

// Result is the outcome of running the full pipeline over a draft.
type Result struct {
	Survey       survey.Survey `json:"survey_json"`
	Valid        bool          `json:"valid"`
	SchemaErrors []string      `json:"schema_errors"`
	ExtraIssues  []string      `json:"extra_issues"`
}

// Service runs the draft pipeline.
type Service struct {
	cfg       *Config
	logger    *slog.Logger
	docs      *docpipe.Pipeline
	extractor extract.Extractor
	audit     *audit.Store
}

// Option configures a Service.
type Option func(*Service)

// WithAudit attaches a pipeline-run audit store. The store stays owned by
// the caller; the service never closes it.
func WithAudit(store *audit.Store) Option {
	return func(s *Service) { s.audit = store }
}

// New creates a Service. The drafts directory is created on demand.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:    cfg,
		logger: logger,
		docs: docpipe.New(docpipe.Config{
			MaxFileSize: cfg.MaxFileBytes(),
			Logger:      logger,
		}),
		extractor: extract.Extractor{
			Title:    cfg.SurveyTitle,
			Language: cfg.SurveyLanguage,
		},
	}
	for _, o := range opts {
		o(s)
	}

	if err := os.MkdirAll(cfg.DraftsDir, 0755); err != nil {
		return nil, fmt.Errorf("create drafts dir: %w", err)
	}

	return s, nil
}

// SaveDraft copies an uploaded draft into the drafts directory, keyed by the
// original filename. The returned cleanup removes the file (unless
// keep_drafts is set) and must run on every exit path.
func (s *Service) SaveDraft(filename string, r io.Reader) (string, func(), error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", nil, fmt.Errorf("invalid draft filename %q", filename)
	}
	path := filepath.Join(s.cfg.DraftsDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("save draft: %w", err)
	}
	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()

	cleanup := func() {
		if s.cfg.KeepDrafts {
			return
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("draft cleanup", "path", path, "error", err)
		}
	}

	if copyErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("save draft: %w", copyErr)
	}
	if closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("save draft: %w", closeErr)
	}
	return path, cleanup, nil
}

// Ingest loads a draft file and segments it into question chunks.
func (s *Service) Ingest(ctx context.Context, path string) (segment.Structured, error) {
	start := time.Now()

	draft, err := s.docs.Load(ctx, path)
	if err != nil {
		s.record(ctx, &audit.Run{
			Filename: filepath.Base(path), Operation: "ingest",
			Status: "error", Error: err.Error(), DurationMs: time.Since(start).Milliseconds(),
		})
		return segment.Structured{}, err
	}

	structured := segment.Structure(draft.Text)
	s.record(ctx, &audit.Run{
		Filename: filepath.Base(path), Format: string(draft.Format), Operation: "ingest",
		Chunks: len(structured.Chunks), Status: "success",
		DurationMs: time.Since(start).Milliseconds(),
	})
	return structured, nil
}

// Extract runs the full pipeline over a draft file: load, segment, extract,
// schema-validate and consistency-check. Validation failures are data, not
// errors: the request succeeds with Valid=false.
func (s *Service) Extract(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	draft, err := s.docs.Load(ctx, path)
	if err != nil {
		s.record(ctx, &audit.Run{
			Filename: filepath.Base(path), Operation: "extract",
			Status: "error", Error: err.Error(), DurationMs: time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	structured := segment.Structure(draft.Text)
	extracted := s.extractor.Extract(structured.Chunks)
	report := s.Validate(&extracted)

	s.record(ctx, &audit.Run{
		Filename: filepath.Base(path), Format: string(draft.Format), Operation: "extract",
		Chunks: len(structured.Chunks), Questions: len(extracted.Questions),
		Valid: report.Valid, Status: "success",
		DurationMs: time.Since(start).Milliseconds(),
	})

	return &Result{
		Survey:       extracted,
		Valid:        report.Valid,
		SchemaErrors: report.SchemaErrors,
		ExtraIssues:  report.ExtraIssues,
	}, nil
}

// Validate produces the full validation report for a canonical survey:
// schema conformance plus advisory consistency issues.
func (s *Service) Validate(sv *survey.Survey) survey.ValidationReport {
	valid, schemaErrors := schema.ValidateSurvey(sv)
	if schemaErrors == nil {
		schemaErrors = []string{}
	}
	issues := survey.Check(sv)
	if issues == nil {
		issues = []string{}
	}
	return survey.ValidationReport{
		Valid:        valid,
		SchemaErrors: schemaErrors,
		ExtraIssues:  issues,
	}
}

// Export renders a canonical survey as Decipher XML.
func (s *Service) Export(ctx context.Context, sv *survey.Survey) (string, error) {
	start := time.Now()

	out, err := decipher.Build(sv)
	if err != nil {
		s.record(ctx, &audit.Run{
			Operation: "export", Status: "error", Error: err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		return "", err
	}

	s.record(ctx, &audit.Run{
		Operation: "export", Questions: len(sv.Questions), Valid: true,
		Status: "success", DurationMs: time.Since(start).Milliseconds(),
	})
	return out, nil
}

// Audit returns the attached audit store, or nil.
func (s *Service) Audit() *audit.Store { return s.audit }

func (s *Service) record(ctx context.Context, r *audit.Run) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, r); err != nil {
		s.logger.Warn("audit record", "operation", r.Operation, "error", err)
	}
}
