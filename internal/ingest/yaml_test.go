package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertYAMLToCSV(t *testing.T) {
	raw := t.TempDir()
	out := filepath.Join(t.TempDir(), "csv")
	writeFile(t, filepath.Join(raw, "2023-10", "2023-10-03.yaml"), `
- Ticker: SBIN
  close: 602.95
  date: '2023-10-03 05:30:00'
  high: 604.9
  low: 589.6
  month: 2023-10
  open: 596.6
  volume: 15322196
- Ticker: TCS
  close: 3513.85
  date: '2023-10-03 05:30:00'
  open: 3550
- close: 1
  date: '2023-10-03 05:30:00'
`)
	writeFile(t, filepath.Join(raw, "2023-10", "2023-10-04.yml"), `
Ticker: SBIN
close: 595.1
date: '2023-10-04 05:30:00'
open: ~
extra: yes
`)
	writeFile(t, filepath.Join(raw, "notes.txt"), "not yaml")

	n, err := ConvertYAMLToCSV(raw, out, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sbin, err := os.ReadFile(filepath.Join(out, "SBIN.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"Ticker,close,date,high,low,month,open,volume,extra\n"+
			"SBIN,602.95,2023-10-03 05:30:00,604.9,589.6,2023-10,596.6,15322196,\n"+
			"SBIN,595.1,2023-10-04 05:30:00,,,,,,yes\n",
		string(sbin))

	tcs, err := os.ReadFile(filepath.Join(out, "TCS.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Ticker,close,date,open\nTCS,3513.85,2023-10-03 05:30:00,3550\n", string(tcs))
}

func TestConvertYAMLToCSVCustomKey(t *testing.T) {
	raw := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(raw, "a.yaml"), "- symbol: A\n  close: 1\n- Ticker: B\n  close: 2\n")

	n, err := ConvertYAMLToCSV(raw, out, "symbol")
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(out, "A.csv"))
	assert.NoFileExists(t, filepath.Join(out, "B.csv"))
}

func TestConvertYAMLToCSVInvalidYAML(t *testing.T) {
	raw := t.TempDir()
	writeFile(t, filepath.Join(raw, "bad.yaml"), "- a: [1, 2\n")

	_, err := ConvertYAMLToCSV(raw, t.TempDir(), "")

	assert.ErrorContains(t, err, "bad.yaml")
}
