package application

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/validator"
	"github.com/fairyhq/fairy/internal/logging"
)

// ReportWriter checks and persists legacy reports.
type ReportWriter interface {
	Validate(rep domain.ReportV0) error
	WriteReport(outDir string, rep domain.ReportV0) (string, error)
}

// ValidateRequest describes one legacy single-table validation.
type ValidateRequest struct {
	InputPath  string
	Kind       string
	Rulepacks  []domain.RulepackRef
	Provenance domain.Provenance
	// OutDir receives report_v0.json. When empty the report is built and
	// checked against the schema but not written.
	OutDir string
}

// ValidateResult is the outcome of a legacy validation.
type ValidateResult struct {
	Report    domain.ReportV0
	Validator string
	Path      string
}

// ValidateService runs the legacy path:
// load table → resolve validator by kind → build ReportV0 → write.
type ValidateService struct {
	tables   domain.TableLoader
	registry *validator.Registry
	writer   ReportWriter
	now      func() time.Time
}

// NewValidateService creates a ValidateService. The registry is injected so
// callers control which kinds exist.
func NewValidateService(tables domain.TableLoader, registry *validator.Registry, writer ReportWriter) *ValidateService {
	return &ValidateService{tables: tables, registry: registry, writer: writer, now: time.Now}
}

// WithClock overrides the time source, for reproducible reports.
func (s *ValidateService) WithClock(now func() time.Time) *ValidateService {
	s.now = now
	return s
}

func (s *ValidateService) Validate(ctx context.Context, req ValidateRequest) (*ValidateResult, error) {
	log := logging.WithFields(ctx, "input", req.InputPath, "kind", req.Kind)

	v, err := s.registry.Resolve(req.Kind)
	if err != nil {
		return nil, err
	}
	if v.Name() != req.Kind {
		log.Info("no validator for kind, using fallback", "validator", v.Name())
	}

	loaded, err := s.tables.Load(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}

	meta := v.Validate(loaded.Table)
	log.Debug("validated", "validator", v.Name(), "rows", meta.NRows, "warnings", len(meta.Warnings))

	rep := BuildReportV0(ReportV0Input{
		InputPath:  req.InputPath,
		Filename:   filepath.Base(req.InputPath),
		SHA256:     loaded.SHA256,
		Meta:       meta,
		Rulepacks:  req.Rulepacks,
		Provenance: req.Provenance,
		Now:        s.now(),
	})

	result := &ValidateResult{Report: rep, Validator: v.Name()}
	if req.OutDir == "" {
		if err := s.writer.Validate(rep); err != nil {
			return nil, err
		}
		return result, nil
	}

	path, err := s.writer.WriteReport(req.OutDir, rep)
	if err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	log.Info("report written", "path", path)
	result.Path = path
	return result, nil
}
