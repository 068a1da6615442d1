// Package plan reads and writes budget plan files: an income plus an
// ordered commitment list, as YAML, JSON or CSV.
package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is the on-disk form of a session.
type Plan struct {
	GrossSalary decimal.Decimal `yaml:"gross_salary" json:"gross_salary"`
	Commitments []Item          `yaml:"commitments" json:"commitments"`
}

// Item is one commitment in a plan file.
type Item struct {
	Name   string          `yaml:"name" json:"name"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Class  string          `yaml:"class,omitempty" json:"class,omitempty"`
}

// FromCommitments builds a Plan from an income and ordered commitments.
func FromCommitments(gross decimal.Decimal, cs []model.Commitment) Plan {
	p := Plan{GrossSalary: gross, Commitments: make([]Item, len(cs))}
	for i, c := range cs {
		p.Commitments[i] = Item{Name: c.Name, Amount: c.Amount, Class: string(c.Classification)}
	}
	return p
}

// Ledger validates the plan's commitments and builds a ledger from them.
func (p Plan) Ledger() (*ledger.Ledger, error) {
	cs := make([]model.Commitment, len(p.Commitments))
	for i, it := range p.Commitments {
		cs[i] = model.Commitment{
			Name:           it.Name,
			Amount:         it.Amount,
			Classification: model.ParseClassification(it.Class),
		}
	}
	l, err := ledger.FromCommitments(cs)
	if err != nil {
		return nil, fmt.Errorf("plan commitments: %w", err)
	}
	return l, nil
}

// ReadYAML decodes a plan from r.
func ReadYAML(r io.Reader) (Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if err == io.EOF {
			return Plan{}, nil
		}
		return Plan{}, fmt.Errorf("parsing plan: %w", err)
	}
	return p, nil
}

// WriteYAML encodes p to w.
func WriteYAML(w io.Writer, p Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes p to w as indented JSON.
func WriteJSON(w io.Writer, p Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("writing plan json: %w", err)
	}
	return nil
}

// ReadJSON decodes a plan written by WriteJSON.
func ReadJSON(r io.Reader) (Plan, error) {
	var p Plan
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Plan{}, fmt.Errorf("parsing plan json: %w", err)
	}
	return p, nil
}

// ReadFile reads a plan from path. The format follows the extension:
// .json, .csv (commitments only, no salary) or YAML for anything else.
func ReadFile(path string) (Plan, error) {
	f, err := os.Open(path) //nolint:gosec // plan path comes from the command line
	if err != nil {
		return Plan{}, fmt.Errorf("opening plan: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".csv":
		cs, err := ReadCSV(f)
		if err != nil {
			return Plan{}, err
		}
		return FromCommitments(decimal.Zero, cs), nil
	default:
		return ReadYAML(f)
	}
}
