package flagguard

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// ErrorKind classifies the root causes a caller may want to branch on
// with errors.Is, mirroring the taxonomy in spec §7.
type ErrorKind string

const (
	ErrMissingName  ErrorKind = "missing_name"
	ErrBadDefault   ErrorKind = "bad_default"
	ErrUnknownDialect ErrorKind = "unknown_dialect"
	ErrMalformedConfig ErrorKind = "malformed_config"
	ErrCyclicDependency ErrorKind = "cyclic_dependency"
)

// Error implements the error interface for ErrorKind so it can serve as
// a sentinel compared with errors.Is.
func (k ErrorKind) Error() string { return string(k) }

// errf wraps an ErrorKind sentinel with a go-errors/errors stack trace,
// the way the teacher wraps root/fatal conditions: callers that only
// need programmatic dispatch use errors.Is against the returned error;
// callers that need a trace for logs get one for free.
func errf(kind ErrorKind, format string, args ...any) error {
	return goerrors.WrapPrefix(kind, fmt.Sprintf(format, args...), 1)
}

// ParseError reports a malformed or ambiguous config document
// (spec §7): wrong dialect, invalid YAML/JSON, or a structurally
// incomplete flag definition. Parsers return *ParseError for document-
// and field-level failures; errors from NewFlag and NewFlagSet are
// passed through as they are. Analyzer.Run returns the error unchanged.
type ParseError struct {
	Source string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ScanError reports a source file the scanner could not read or parse
// at all (as opposed to an ExtractionWarning, which is recoverable).
// Scanning continues past a ScanError: the scanner logs it at debug
// level and the file contributes no check sites. ScanDirectory does not
// return ScanErrors to its caller.
type ScanError struct {
	File   string
	Reason string
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error in %s: %s", e.File, e.Reason)
}

func (e *ScanError) Unwrap() error { return e.Err }

// ExtractionWarning reports a degraded check-site extraction: the
// extractors emit one per file when the tree-sitter parse fails and
// the regex heuristic is used instead. It is never returned as an
// error: it is accumulated on CheckSiteSet.Warnings and copied to
// Report.Warnings.
type ExtractionWarning struct {
	File    string
	Line    int
	Message string
}

func (w ExtractionWarning) String() string {
	return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
}
