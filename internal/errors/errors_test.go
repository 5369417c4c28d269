package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTransport,
		ErrProtocol,
		ErrSchema,
		ErrServe,
		ErrTerminal,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .sysdash.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "transport error",
			code:       ErrTransport,
			message:    "Metrics endpoint unreachable",
			suggestion: "Is 'sysdash serve' running?",
		},
		{
			name:       "protocol error",
			code:       ErrProtocol,
			message:    "Endpoint returned 502 Bad Gateway",
			suggestion: "",
		},
		{
			name:       "schema error",
			code:       ErrSchema,
			message:    "Status payload is missing cpu.usage_percent",
			suggestion: "Check the endpoint version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check .sysdash.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check .sysdash.yaml syntax"},
		},
		{
			name:          "error with cause",
			err:           WrapWithCode(fmt.Errorf("dial tcp: connection refused"), ErrTransport, "Request failed", ""),
			expectedParts: []string{"Request failed", "connection refused"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrProtocol, "Bad status", ""),
			expectedParts: []string{"Bad status"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("context deadline exceeded"),
		ErrTransport,
		"Status request timed out",
		"Raise api.timeout or check the endpoint",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"))
	assert.Contains(t, lines[0], "Status request timed out")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "PROTOCOL: bad status", New(ErrProtocol, "bad status", "ignored").Summary())

	wrapped := WrapWithCode(errors.New("EOF"), ErrTransport, "read failed", "")
	assert.Equal(t, "TRANSPORT: read failed: EOF", wrapped.Summary())
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying network error")
	wrapped := Wrap(cause, "Request failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrTransport, wrapped.Code, "Wrap should default to ErrTransport code")
	assert.Equal(t, "Request failed", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrSchema, "Bad payload", "")

	assert.True(t, errors.Is(wrapped, cause))

	var e *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &e))
	assert.Equal(t, ErrSchema, e.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrTransport))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.False(t, IsCode(errors.New("plain"), ""))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, ErrProtocol, CodeOf(fmt.Errorf("wrapped: %w", New(ErrProtocol, "x", ""))))
}

func TestIsFetchError(t *testing.T) {
	tests := []struct {
		err    error
		expect bool
	}{
		{New(ErrTransport, "x", ""), true},
		{New(ErrProtocol, "x", ""), true},
		{New(ErrSchema, "x", ""), true},
		{New(ErrConfig, "x", ""), false},
		{New(ErrTerminal, "x", ""), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, IsFetchError(tt.err), "%v", tt.err)
	}
}
