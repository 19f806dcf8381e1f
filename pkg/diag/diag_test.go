package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/diag"
)

func TestKindFatalSplit(t *testing.T) {
	assert.True(t, diag.IdentifierCollision.Fatal())
	assert.True(t, diag.ConfigurationError.Fatal())
	assert.False(t, diag.WalkFailure.Fatal())
	assert.False(t, diag.ParseFailure.Fatal())
	assert.False(t, diag.ResolutionMiss.Fatal())
	assert.False(t, diag.HelperUnavailable.Fatal())
}

func TestDiagnosticStringIncludesLineWhenPresent(t *testing.T) {
	withLine := diag.Diagnostic{Kind: diag.ParseFailure, Path: "a.py", Line: 12, Message: "unexpected token"}
	assert.Equal(t, "ParseFailure: a.py:12: unexpected token", withLine.String())

	withPath := diag.Diagnostic{Kind: diag.ResolutionMiss, Path: "a.py", Message: "unresolved import"}
	assert.Equal(t, "ResolutionMiss: a.py: unresolved import", withPath.String())

	bare := diag.Diagnostic{Kind: diag.ConfigurationError, Message: "no languages enabled"}
	assert.Equal(t, "ConfigurationError: no languages enabled", bare.String())
}

func TestErrorWrapsCauseAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := diag.NewFatal(diag.ConfigurationError, "bad config", cause)

	assert.Contains(t, err.Error(), "bad config")
	assert.Contains(t, err.Error(), "boom")
	assert.Same(t, cause, errors.Unwrap(err))

	var target *diag.Error
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, diag.ConfigurationError, target.Kind)
}

func TestCollectorCountsByKind(t *testing.T) {
	c := &diag.Collector{}
	c.Add(diag.Diagnostic{Kind: diag.ResolutionMiss, Path: "a.py"})
	c.Add(diag.Diagnostic{Kind: diag.ResolutionMiss, Path: "b.py"})
	c.Add(diag.Diagnostic{Kind: diag.WalkFailure, Path: "c.py"})

	assert.Len(t, c.Items(), 3)
	assert.Equal(t, 2, c.CountKind(diag.ResolutionMiss))
	assert.Equal(t, 1, c.CountKind(diag.WalkFailure))
	assert.Equal(t, 0, c.CountKind(diag.HelperUnavailable))
}
