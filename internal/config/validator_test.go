package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/alloyc/internal/errors"
)

func TestValidator_ValidateBytes(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "complete config",
			content: `
platform: android
theme: dark
deployType: test
target: webpack
autoStyle: true
sourceMap: true
workers: 2
log:
  verbose: true
  timestamps: false
`,
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "unknown platform",
			content: "platform: blackberry\n",
			wantErr: "platform",
		},
		{
			name:    "unknown deploy type",
			content: "deployType: staging\n",
			wantErr: "deployType",
		},
		{
			name:    "negative workers",
			content: "workers: -1\n",
			wantErr: "workers",
		},
		{
			name:    "wrong type",
			content: "autoStyle: sometimes\n",
			wantErr: "autoStyle",
		},
		{
			name:    "unknown key",
			content: "bogus: 1\n",
			wantErr: "not allowed",
		},
		{
			name:    "invalid YAML",
			content: "platform: [ios\n",
			wantErr: "invalid YAML",
		},
		{
			name:    "not a mapping",
			content: "- ios\n",
			wantErr: "must be a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))
			assert.Contains(t, err.Error(), tt.wantErr)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.NotEmpty(t, verrs)
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(DefaultConfig()))

	cfg := DefaultConfig()
	cfg.Target = "rollup"
	err = v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestValidator_ValidateFile(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("platform: ios\n"), 0o644))

	assert.NoError(t, v.ValidateFile(path))

	err = v.ValidateFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "platform", Message: "conflicting values"},
		{Field: "workers", Message: "invalid value"},
	}

	msg := errs.Error()
	assert.Contains(t, msg, "config validation failed")
	assert.Contains(t, msg, "platform: conflicting values")
	assert.Contains(t, msg, "workers: invalid value")

	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
