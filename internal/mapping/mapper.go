// Package mapping maps an A-share industry sector to overseas comparison
// tickers. The table is static: loaded once, then read-only.
package mapping

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/dragonboard/internal/contracts"
)

//go:embed sectors.yaml
var defaultTable []byte

// Hint is shown under every mapping
const Hint = "提示：美港股通常在走势上对 A 股有情绪引导或逻辑映射作用。"

type tickerDoc struct {
	Symbol string `yaml:"symbol"`
	Label  string `yaml:"label"`
	Note   string `yaml:"note"`
}

type sectorDoc struct {
	Name    string      `yaml:"name"`
	Targets []tickerDoc `yaml:"targets"`
}

type tableDoc struct {
	Fallback tickerDoc   `yaml:"fallback"`
	Sectors  []sectorDoc `yaml:"sectors"`
}

// Mapper is an immutable sector → tickers table
// ⭐ SSOT: 全球映射表只在这里
type Mapper struct {
	targets  map[string][]contracts.Ticker
	names    []string
	fallback contracts.Ticker
	note     string
}

// New parses a mapping table. Unknown keys are rejected.
func New(r io.Reader) (*Mapper, error) {
	var doc tableDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode mapping table: %w", err)
	}

	if doc.Fallback.Symbol == "" {
		return nil, errors.New("mapping table has no fallback symbol")
	}

	m := &Mapper{
		targets:  make(map[string][]contracts.Ticker, len(doc.Sectors)),
		names:    make([]string, 0, len(doc.Sectors)),
		fallback: contracts.Ticker{Symbol: doc.Fallback.Symbol, Label: doc.Fallback.Label},
		note:     doc.Fallback.Note,
	}

	for _, s := range doc.Sectors {
		if s.Name == "" {
			return nil, errors.New("mapping table has a sector without name")
		}
		if _, dup := m.targets[s.Name]; dup {
			return nil, fmt.Errorf("duplicate sector %q", s.Name)
		}
		if len(s.Targets) == 0 {
			return nil, fmt.Errorf("sector %q has no targets", s.Name)
		}

		tickers := make([]contracts.Ticker, 0, len(s.Targets))
		for _, t := range s.Targets {
			if t.Symbol == "" {
				return nil, fmt.Errorf("sector %q has a target without symbol", s.Name)
			}
			tickers = append(tickers, contracts.Ticker{Symbol: t.Symbol, Label: t.Label})
		}
		m.targets[s.Name] = tickers
		m.names = append(m.names, s.Name)
	}

	return m, nil
}

// Default returns the built-in table
func Default() *Mapper {
	m, err := New(bytes.NewReader(defaultTable))
	if err != nil {
		panic(fmt.Sprintf("embedded sectors.yaml is invalid: %v", err))
	}
	return m
}

// Load returns the table at path, or the built-in one when path is empty
func Load(path string) (*Mapper, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	return New(f)
}

// Map returns the ordered tickers for a sector, or the single fallback
// entry when the sector is unmapped. The result is never empty.
func (m *Mapper) Map(sector string) []contracts.Ticker {
	if t, ok := m.targets[sector]; ok {
		out := make([]contracts.Ticker, len(t))
		copy(out, t)
		return out
	}
	return []contracts.Ticker{m.fallback}
}

// Fallback returns the benchmark suggested for unmapped sectors
func (m *Mapper) Fallback() contracts.Ticker {
	return m.fallback
}

// Has reports whether a sector has its own entry
func (m *Mapper) Has(sector string) bool {
	_, ok := m.targets[sector]
	return ok
}

// Sectors lists mapped sectors in table order
func (m *Mapper) Sectors() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Resolve maps an explicit selection. ok is false when nothing is selected.
func (m *Mapper) Resolve(sel contracts.Selection) (contracts.GlobalMapping, bool) {
	if !sel.Valid {
		return contracts.GlobalMapping{}, false
	}

	gm := contracts.GlobalMapping{
		Sector:  sel.Sector,
		Targets: m.Map(sel.Sector),
	}
	if !m.Has(sel.Sector) {
		gm.Fallback = true
		gm.Note = m.note
	}
	return gm, true
}
