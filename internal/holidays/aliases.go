package holidays

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonny/seasonality/internal/contracts"
)

//go:embed aliases.yaml
var defaultAliases []byte

// AliasMode restricts a rule to national or subdivision runs
type AliasMode string

const (
	AliasNational    AliasMode = "national"
	AliasSubdivision AliasMode = "subdivision"
	AliasAny         AliasMode = "any"
)

// Rename maps one column name to another
type Rename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// AliasRule is a set of renames for one country and mode
type AliasRule struct {
	Country string    `yaml:"country"`
	Mode    AliasMode `yaml:"mode"`
	Renames []Rename  `yaml:"renames"`
}

// AliasTable normalizes holiday column names
type AliasTable struct {
	Rules []AliasRule `yaml:"rules"`
}

// DefaultAliases returns the embedded alias table
func DefaultAliases() (*AliasTable, error) {
	return ParseAliases(defaultAliases)
}

// ParseAliases decodes an alias table, rejecting unknown keys
func ParseAliases(data []byte) (*AliasTable, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var table AliasTable
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("decode alias table: %w", err)
	}

	for i, rule := range table.Rules {
		if rule.Country == "" {
			return nil, fmt.Errorf("alias rule %d: country is required", i)
		}
		switch rule.Mode {
		case AliasNational, AliasSubdivision, AliasAny:
		case "":
			table.Rules[i].Mode = AliasAny
		default:
			return nil, fmt.Errorf("alias rule %d: unknown mode %q", i, rule.Mode)
		}
		for _, r := range rule.Renames {
			if r.From == "" || r.To == "" {
				return nil, fmt.Errorf("alias rule %d: rename needs both from and to", i)
			}
		}
	}

	return &table, nil
}

// Renames returns the renames that apply to a run, in table order
func (a *AliasTable) Renames(countryCode string, subdivision bool) []Rename {
	if a == nil {
		return nil
	}

	mode := AliasNational
	if subdivision {
		mode = AliasSubdivision
	}

	var out []Rename
	for _, rule := range a.Rules {
		if !strings.EqualFold(rule.Country, countryCode) {
			continue
		}
		if rule.Mode != AliasAny && rule.Mode != mode {
			continue
		}
		out = append(out, rule.Renames...)
	}
	return out
}

// Apply renames the matching columns of t in place
func (a *AliasTable) Apply(t *contracts.Table, countryCode string, subdivision bool) error {
	for _, r := range a.Renames(countryCode, subdivision) {
		if err := t.RenameColumn(r.From, r.To); err != nil {
			return err
		}
	}
	return nil
}
