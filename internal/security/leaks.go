// Package security checks documents for credentials before they leave the
// machine.
package security

import (
	"fmt"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"
)

// LeakScanner finds secrets in document content using the gitleaks rule set
type LeakScanner struct {
	detector *detect.Detector
}

// ScanResult contains the results of a leak scan
type ScanResult struct {
	Findings []Finding
	HasLeaks bool
	Document string
}

// Finding represents a detected secret
type Finding struct {
	RuleID      string
	Description string
	Line        int
	Secret      string // Redacted
}

// NewLeakScanner creates a new leak scanner with default gitleaks rules
func NewLeakScanner() (*LeakScanner, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load gitleaks config: %w", err)
	}

	detector.Redact = 80 // Redact 80% of the secret

	return &LeakScanner{
		detector: detector,
	}, nil
}

// ScanDocument scans the content about to be written as document.
func (s *LeakScanner) ScanDocument(document string, content []byte) *ScanResult {
	return s.buildResult(s.detector.DetectString(string(content)), document)
}

func (s *LeakScanner) buildResult(findings []report.Finding, document string) *ScanResult {
	result := &ScanResult{
		Document: document,
		HasLeaks: len(findings) > 0,
		Findings: make([]Finding, 0, len(findings)),
	}

	for _, f := range findings {
		result.Findings = append(result.Findings, Finding{
			RuleID:      f.RuleID,
			Description: f.Description,
			Line:        f.StartLine,
			Secret:      f.Secret, // Already redacted by detector
		})
	}

	return result
}

// FormatFindings formats findings for display
func FormatFindings(result *ScanResult) string {
	if result == nil || len(result.Findings) == 0 {
		return ""
	}

	var sb strings.Builder

	_, _ = fmt.Fprintf(&sb, "found %d potential secret(s) in %s:\n", len(result.Findings), result.Document)

	for i, f := range result.Findings {
		_, _ = fmt.Fprintf(&sb, "  %d. %s (rule %s, line %d): %s\n", i+1, f.Description, f.RuleID, f.Line, f.Secret)
	}

	return sb.String()
}
