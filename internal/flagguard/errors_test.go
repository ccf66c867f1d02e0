package flagguard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrfWrapsSentinel(t *testing.T) {
	err := errf(ErrBadDefault, "flag %q: bad default %q", "checkout-v2", "missing")
	assert.ErrorIs(t, err, ErrBadDefault)
	assert.Contains(t, err.Error(), "checkout-v2")
}

func TestParseError(t *testing.T) {
	inner := errors.New("unexpected token")
	err := &ParseError{Source: "config.json", Line: 12, Reason: "invalid JSON", Err: inner}
	assert.Equal(t, "parse error in config.json:12: invalid JSON", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestParseError_NoLine(t *testing.T) {
	err := &ParseError{Source: "config.json", Reason: "invalid JSON"}
	assert.Equal(t, "parse error in config.json: invalid JSON", err.Error())
}

func TestScanError(t *testing.T) {
	inner := errors.New("permission denied")
	err := &ScanError{File: "a.py", Reason: "failed to read file", Err: inner}
	assert.Equal(t, "scan error in a.py: failed to read file", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestExtractionWarningString(t *testing.T) {
	w := ExtractionWarning{File: "a.py", Line: 7, Message: "regex fallback used: parse failed"}
	assert.Equal(t, "a.py:7: regex fallback used: parse failed", w.String())
}
