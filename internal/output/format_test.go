package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFormatValid(t *testing.T) {
	tests := []struct {
		format OutputFormat
		valid  bool
	}{
		{FormatCode, true},
		{FormatJSON, true},
		{FormatYAML, true},
		{OutputFormat("table"), false},
		{OutputFormat(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.format.Valid())
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  OutputFormat
		valid bool
	}{
		{"", FormatCode, true},
		{"code", FormatCode, true},
		{"JS", FormatCode, true},
		{"json", FormatJSON, true},
		{"yml", FormatYAML, true},
		{"YAML", FormatYAML, true},
		{"table", FormatCode, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOutputFormat(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestValidFormats(t *testing.T) {
	for _, f := range ValidFormats() {
		assert.True(t, OutputFormat(f).Valid(), f)
	}
}
