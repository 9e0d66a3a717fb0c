package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, FormatTable, true).Success("done")
	assert.Contains(t, buf.String(), "\033[32m")
	assert.Contains(t, buf.String(), "done")

	buf.Reset()
	NewPrinter(&buf, FormatTable, false).Error("failed")
	assert.Equal(t, "failed\n", buf.String())
}

type kvTable [][2]string

func (kv kvTable) Headers() []string { return []string{"KEY", "VALUE"} }

func (kv kvTable) Rows() [][]string {
	rows := make([][]string, 0, len(kv))
	for _, pair := range kv {
		rows = append(rows, []string{pair[0], pair[1]})
	}
	return rows
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := PrintTable(&buf, kvTable{{"alpha", "1"}, {"beta", "2"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
}

func TestPrintJSON(t *testing.T) {
	data := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{Name: "test", Value: 42}

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, data))
	assert.Contains(t, buf.String(), `"name": "test"`)
	assert.Contains(t, buf.String(), `"value": 42`)
}

func TestPrintYAML(t *testing.T) {
	data := []struct {
		Name string `yaml:"name"`
	}{{Name: "a"}, {Name: "b"}}

	var buf bytes.Buffer
	require.NoError(t, PrintYAML(&buf, data))
	assert.Contains(t, buf.String(), "- name: a")
	assert.Contains(t, buf.String(), "- name: b")
}
