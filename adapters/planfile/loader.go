// Package planfile loads rating plans from HCL, YAML or JSON files.
package planfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"wc-rating/core/rating"
	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// document is the YAML and JSON shape of a plan. Numbers decode straight
// into decimals so rates keep every digit written in the file.
type document struct {
	Name                 string           `yaml:"name" json:"name"`
	ExpenseConstant      decimal.Decimal  `yaml:"expense_constant" json:"expense_constant"`
	DefaultExperienceMod *decimal.Decimal `yaml:"default_experience_mod" json:"default_experience_mod"`
	ScheduleCap          *decimal.Decimal `yaml:"schedule_cap" json:"schedule_cap"`
	Classes              []classEntry     `yaml:"classes" json:"classes"`
	ScheduleFactors      []factorEntry    `yaml:"schedule_factors" json:"schedule_factors"`
	Credits              []creditEntry    `yaml:"credits" json:"credits"`
}

type classEntry struct {
	Code        string          `yaml:"code" json:"code"`
	Description string          `yaml:"description" json:"description"`
	Rate        decimal.Decimal `yaml:"rate" json:"rate"`
}

type factorEntry struct {
	Name    string          `yaml:"name" json:"name"`
	Label   string          `yaml:"label" json:"label"`
	Min     decimal.Decimal `yaml:"min" json:"min"`
	Max     decimal.Decimal `yaml:"max" json:"max"`
	Default decimal.Decimal `yaml:"default" json:"default"`
}

type creditEntry struct {
	Name             string          `yaml:"name" json:"name"`
	Label            string          `yaml:"label" json:"label"`
	Rate             decimal.Decimal `yaml:"rate" json:"rate"`
	EnabledByDefault bool            `yaml:"enabled_by_default" json:"enabled_by_default"`
}

// hclDocument is the HCL shape. HCL numbers are decoded as their decimal
// text, which cty renders without binary float loss.
type hclDocument struct {
	Name                 string      `hcl:"name,optional"`
	ExpenseConstant      *string     `hcl:"expense_constant,optional"`
	DefaultExperienceMod *string     `hcl:"default_experience_mod,optional"`
	ScheduleCap          *string     `hcl:"schedule_cap,optional"`
	Classes              []hclClass  `hcl:"class,block"`
	ScheduleFactors      []hclFactor `hcl:"schedule_factor,block"`
	Credits              []hclCredit `hcl:"credit,block"`
}

type hclClass struct {
	Code        string `hcl:"code,label"`
	Description string `hcl:"description,optional"`
	Rate        string `hcl:"rate"`
}

type hclFactor struct {
	Name    string  `hcl:"name,label"`
	Label   string  `hcl:"label,optional"`
	Min     string  `hcl:"min"`
	Max     string  `hcl:"max"`
	Default *string `hcl:"default,optional"`
}

type hclCredit struct {
	Name             string `hcl:"name,label"`
	Label            string `hcl:"label,optional"`
	Rate             string `hcl:"rate"`
	EnabledByDefault bool   `hcl:"enabled_by_default,optional"`
}

// document converts the HCL body into the shared document
func (h *hclDocument) document(filename string) (*document, error) {
	var firstErr error
	num := func(field, s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil && firstErr == nil {
			firstErr = errors.Parsing(fmt.Sprintf("%s in %s: %q is not a number", field, filename, s), err)
		}
		return d
	}
	optional := func(field string, s *string) *decimal.Decimal {
		if s == nil {
			return nil
		}
		d := num(field, *s)
		return &d
	}

	doc := &document{
		Name:                 h.Name,
		DefaultExperienceMod: optional("default_experience_mod", h.DefaultExperienceMod),
		ScheduleCap:          optional("schedule_cap", h.ScheduleCap),
	}
	if v := optional("expense_constant", h.ExpenseConstant); v != nil {
		doc.ExpenseConstant = *v
	}
	for _, c := range h.Classes {
		doc.Classes = append(doc.Classes, classEntry{
			Code:        c.Code,
			Description: c.Description,
			Rate:        num("class "+c.Code+" rate", c.Rate),
		})
	}
	for _, f := range h.ScheduleFactors {
		entry := factorEntry{
			Name:  f.Name,
			Label: f.Label,
			Min:   num("schedule_factor "+f.Name+" min", f.Min),
			Max:   num("schedule_factor "+f.Name+" max", f.Max),
		}
		if v := optional("schedule_factor "+f.Name+" default", f.Default); v != nil {
			entry.Default = *v
		}
		doc.ScheduleFactors = append(doc.ScheduleFactors, entry)
	}
	for _, c := range h.Credits {
		doc.Credits = append(doc.Credits, creditEntry{
			Name:             c.Name,
			Label:            c.Label,
			Rate:             num("credit "+c.Name+" rate", c.Rate),
			EnabledByDefault: c.EnabledByDefault,
		})
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return doc, nil
}

// Load reads and validates the plan at path. The format follows the extension.
func Load(path string) (*rating.Plan, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to read plan file %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		return ParseHCL(src, path)
	case ".yaml", ".yml":
		return ParseYAML(src, path)
	case ".json":
		return ParseJSON(src, path)
	default:
		return nil, errors.NotSupported("plan file extension " + ext).WithContext("path", path)
	}
}

// ParseHCL parses an HCL plan document
func ParseHCL(src []byte, filename string) (*rating.Plan, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("invalid HCL in "+filename, diags)
	}

	var body hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &body); diags.HasErrors() {
		return nil, errors.Parsing("invalid plan in "+filename, diags)
	}
	doc, err := body.document(filename)
	if err != nil {
		return nil, err
	}
	return doc.plan(filename)
}

// ParseYAML parses a YAML plan document
func ParseYAML(src []byte, filename string) (*rating.Plan, error) {
	var doc document
	if err := yaml.UnmarshalStrict(src, &doc); err != nil {
		return nil, errors.Parsing("invalid YAML in "+filename, err)
	}
	return doc.plan(filename)
}

// ParseJSON parses a JSON plan document
func ParseJSON(src []byte, filename string) (*rating.Plan, error) {
	var doc document
	if err := json.Unmarshal(src, &doc); err != nil {
		return nil, errors.Parsing("invalid JSON in "+filename, err)
	}
	return doc.plan(filename)
}

func (doc *document) plan(filename string) (*rating.Plan, error) {
	spec := rating.PlanSpec{
		Name:                 doc.Name,
		ExpenseConstant:      doc.ExpenseConstant,
		DefaultExperienceMod: doc.DefaultExperienceMod,
		ScheduleCap:          doc.ScheduleCap,
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	for _, c := range doc.Classes {
		spec.Classes = append(spec.Classes, types.ClassRate{
			Code:        types.ClassCode(c.Code),
			Description: c.Description,
			Rate:        c.Rate,
		})
	}
	for _, f := range doc.ScheduleFactors {
		spec.ScheduleFactors = append(spec.ScheduleFactors, rating.ScheduleFactor{
			Name:    f.Name,
			Label:   f.Label,
			Min:     f.Min,
			Max:     f.Max,
			Default: f.Default,
		})
	}
	for _, c := range doc.Credits {
		spec.Credits = append(spec.Credits, rating.ProgramCredit{
			Name:             c.Name,
			Label:            c.Label,
			Rate:             c.Rate,
			EnabledByDefault: c.EnabledByDefault,
		})
	}

	plan, err := rating.NewPlan(spec)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithContext("path", filename)
		}
		return nil, err
	}
	return plan, nil
}
