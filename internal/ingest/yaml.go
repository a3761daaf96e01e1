package ingest

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultTickerKey is the record field that names the symbol in raw dumps.
const DefaultTickerKey = "Ticker"

// record is one YAML mapping with its keys in document order.
type record struct {
	keys   []string
	values map[string]string
}

// ConvertYAMLToCSV walks rawDir for .yaml/.yml files, groups every mapping
// record by its tickerKey field and writes one <symbol>.csv per symbol into
// csvDir. A file may hold a single record or a list of them; records
// without the key are skipped. It returns the number of symbols written.
func ConvertYAMLToCSV(rawDir, csvDir, tickerKey string) (int, error) {
	if tickerKey == "" {
		tickerKey = DefaultTickerKey
	}
	if err := os.MkdirAll(csvDir, 0o755); err != nil {
		return 0, err
	}

	bySymbol := map[string][]record{}
	var symbols []string
	err := filepath.WalkDir(rawDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if d.IsDir() || (ext != ".yaml" && ext != ".yml") {
			return nil
		}
		records, err := readYAMLRecords(path)
		if err != nil {
			return err
		}
		for _, r := range records {
			symbol := strings.TrimSpace(r.values[tickerKey])
			if symbol == "" {
				continue
			}
			if _, ok := bySymbol[symbol]; !ok {
				symbols = append(symbols, symbol)
			}
			bySymbol[symbol] = append(bySymbol[symbol], r)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", rawDir, err)
	}

	for _, symbol := range symbols {
		path := filepath.Join(csvDir, symbol+".csv")
		if err := writeRecords(path, bySymbol[symbol]); err != nil {
			return 0, err
		}
		log.Debug().Str("symbol", symbol).Int("rows", len(bySymbol[symbol])).Msg("convert: wrote csv")
	}
	return len(symbols), nil
}

func readYAMLRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	var nodes []*yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		nodes = root.Content
	case yaml.MappingNode:
		nodes = []*yaml.Node{root}
	}

	var out []record
	for _, n := range nodes {
		if n.Kind != yaml.MappingNode {
			continue
		}
		r := record{values: make(map[string]string, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i].Value, n.Content[i+1]
			if _, dup := r.values[key]; !dup {
				r.keys = append(r.keys, key)
			}
			r.values[key] = scalarText(value)
		}
		out = append(out, r)
	}
	return out, nil
}

// scalarText keeps the scalar exactly as written; nulls and nested nodes
// become empty cells.
func scalarText(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

func writeRecords(path string, records []record) error {
	var header []string
	seen := map[string]bool{}
	for _, r := range records {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = r.values[k]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
