// Package service wires the domain validators into manifest-level
// validation: schema checking, dispatch of embedded URIs and policy
// expressions, and result merging.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/json-agents/jsonagents-go/internal/adapter/outbound/schema"
	"github.com/json-agents/jsonagents-go/internal/domain/policy"
	"github.com/json-agents/jsonagents-go/internal/domain/uri"
)

// Report is the outcome of validating one manifest. Valid is true exactly
// when Errors is empty.
type Report struct {
	// ID uniquely identifies this validation run.
	ID string `json:"id"`
	// File is the manifest path, empty when validating an in-memory document.
	File string `json:"file,omitempty"`
	// Valid is true when no errors were found.
	Valid bool `json:"valid"`
	// Errors are validation failures, each prefixed with a positional label.
	Errors []string `json:"errors"`
	// Warnings never affect validity.
	Warnings []string `json:"warnings"`
	// Manifest is the decoded document, nil when decoding failed.
	Manifest map[string]any `json:"-"`
	// Duration is how long validation took.
	Duration time.Duration `json:"-"`
	// CreatedAt is when the run started (UTC).
	CreatedAt time.Time `json:"-"`
}

// HistoryStore persists validation runs. Implementations must tolerate
// concurrent calls.
type HistoryStore interface {
	// Record stores one completed validation run.
	Record(ctx context.Context, r Report) error
}

// ManifestService validates JSON Agents manifests end to end.
type ManifestService struct {
	schemas    *schema.Loader
	schemaPath string
	uri        *uri.Validator
	policy     *policy.Validator
	history    HistoryStore
	logger     *slog.Logger
}

// NewManifestService creates a ManifestService. schemaPath overrides the
// bundled schema when non-empty. history may be nil to disable run
// recording.
func NewManifestService(schemas *schema.Loader, schemaPath string, history HistoryStore, logger *slog.Logger) *ManifestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManifestService{
		schemas:    schemas,
		schemaPath: schemaPath,
		uri:        uri.NewValidator(),
		policy:     policy.NewValidator(),
		history:    history,
		logger:     logger,
	}
}

// ValidateFile loads and validates a manifest file. JSON is the native
// format; .yaml/.yml files are decoded with yaml.v3 and validated against
// the same schema. Load failures become report errors, never panics.
func (s *ManifestService) ValidateFile(ctx context.Context, path string, strict bool) Report {
	start := time.Now()

	doc, loadErr := loadManifest(path)
	var report Report
	if loadErr != "" {
		report = newReport([]string{loadErr}, nil, nil)
	} else {
		report = s.validate(doc, strict)
	}
	report.File = path
	report.Duration = time.Since(start)

	s.record(ctx, report)
	return report
}

// ValidateManifest validates an already-decoded manifest document.
func (s *ManifestService) ValidateManifest(ctx context.Context, doc map[string]any, strict bool) Report {
	start := time.Now()
	report := s.validate(doc, strict)
	report.Duration = time.Since(start)

	s.record(ctx, report)
	return report
}

func (s *ManifestService) record(ctx context.Context, report Report) {
	s.logger.Debug("manifest validated",
		"run_id", report.ID,
		"file", report.File,
		"valid", report.Valid,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"duration", report.Duration,
	)
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, report); err != nil {
		s.logger.Warn("failed to record validation run", "run_id", report.ID, "error", err)
	}
}

func newReport(errs, warnings []string, doc map[string]any) Report {
	return Report{
		ID:        uuid.NewString(),
		Valid:     len(errs) == 0,
		Errors:    errs,
		Warnings:  warnings,
		Manifest:  doc,
		CreatedAt: time.Now().UTC(),
	}
}

// loadManifest reads and decodes a manifest file. The returned string is
// an error message, empty on success; load problems are report data, not
// control flow.
func loadManifest(path string) (map[string]any, string) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("File not found: %v", err)
		}
		return nil, fmt.Sprintf("Failed to read file: %v", err)
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Sprintf("Invalid YAML: %v", err)
		}
	default:
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Sprintf("Invalid JSON: %v", err)
		}
	}
	return doc, ""
}

// validate runs schema validation and dispatches every embedded URI and
// policy expression, merging findings with positional labels. Strict mode
// is a post-processing step: warnings are appended to errors and cleared,
// never a separate path through the checks.
func (s *ManifestService) validate(doc map[string]any, strict bool) Report {
	var errs, warnings []string

	schemaErrs, err := s.schemaErrors(doc)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Schema validation error: %v", err))
	} else {
		errs = append(errs, schemaErrs...)
	}

	errs, warnings = s.checkAgentID(doc, errs, warnings)
	errs = s.checkToolIDs(doc, errs)
	errs = s.checkGraphNodes(doc, errs)
	errs, warnings = s.checkPolicies(doc, errs, warnings)
	errs = s.checkEdgeConditions(doc, errs)

	if caps, _ := doc["capabilities"].([]any); len(caps) == 0 {
		warnings = append(warnings, "No capabilities declared")
	}

	if strict && len(warnings) > 0 {
		errs = append(errs, warnings...)
		warnings = nil
	}

	return newReport(errs, warnings, doc)
}

func (s *ManifestService) schemaErrors(doc map[string]any) ([]string, error) {
	return s.schemas.Validate(doc, s.schemaPath)
}

// checkAgentID validates agent.id as an ajson:// URI. The agent identity
// must always be an ajson URI, so no prefix gate applies here.
func (s *ManifestService) checkAgentID(doc map[string]any, errs, warnings []string) ([]string, []string) {
	agent, _ := doc["agent"].(map[string]any)
	id, _ := agent["id"].(string)
	if id == "" {
		return errs, warnings
	}

	result := s.uri.Validate(id)
	if !result.Valid {
		errs = append(errs, result.Errors...)
	}
	warnings = append(warnings, result.Warnings...)
	return errs, warnings
}

// checkToolIDs validates tool identifiers that use the ajson scheme.
// Tools may carry plain opaque IDs; only scheme-prefixed ones are URIs.
// Tool URI warnings are dropped: tool entries are referenced constantly
// and warning on each reference would be noise.
func (s *ManifestService) checkToolIDs(doc map[string]any, errs []string) []string {
	tools, _ := doc["tools"].([]any)
	for i, t := range tools {
		tool, _ := t.(map[string]any)
		id, _ := tool["id"].(string)
		if !strings.HasPrefix(id, uri.SchemePrefix) {
			continue
		}
		result := s.uri.Validate(id)
		if !result.Valid {
			for _, e := range result.Errors {
				errs = append(errs, fmt.Sprintf("Tool[%d] %s", i, e))
			}
		}
	}
	return errs
}

func (s *ManifestService) checkGraphNodes(doc map[string]any, errs []string) []string {
	graph, _ := doc["graph"].(map[string]any)
	nodes, _ := graph["nodes"].([]any)
	for i, n := range nodes {
		node, _ := n.(map[string]any)
		ref, _ := node["ref"].(string)
		if !strings.HasPrefix(ref, uri.SchemePrefix) {
			continue
		}
		result := s.uri.Validate(ref)
		if !result.Valid {
			for _, e := range result.Errors {
				errs = append(errs, fmt.Sprintf("Graph node[%d] %s", i, e))
			}
		}
	}
	return errs
}

func (s *ManifestService) checkPolicies(doc map[string]any, errs, warnings []string) ([]string, []string) {
	policies, _ := doc["policies"].([]any)
	for i, p := range policies {
		pol, _ := p.(map[string]any)
		where, _ := pol["where"].(string)
		if where == "" {
			continue
		}
		result := s.policy.Validate(where)
		if !result.Valid {
			for _, e := range result.Errors {
				errs = append(errs, fmt.Sprintf("Policy[%d] %s", i, e))
			}
		}
		for _, w := range result.Warnings {
			warnings = append(warnings, fmt.Sprintf("Policy[%d] %s", i, w))
		}
	}
	return errs, warnings
}

func (s *ManifestService) checkEdgeConditions(doc map[string]any, errs []string) []string {
	graph, _ := doc["graph"].(map[string]any)
	edges, _ := graph["edges"].([]any)
	for i, e := range edges {
		edge, _ := e.(map[string]any)
		condition, _ := edge["condition"].(string)
		if condition == "" {
			continue
		}
		result := s.policy.Validate(condition)
		if !result.Valid {
			for _, msg := range result.Errors {
				errs = append(errs, fmt.Sprintf("Edge[%d] condition %s", i, msg))
			}
		}
	}
	return errs
}
