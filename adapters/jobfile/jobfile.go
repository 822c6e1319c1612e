// Package jobfile reads print-job specifications from HCL files.
//
//	job "spring-mailer" {
//	  quantity = 2000
//	  product  = "postcard"
//	  size     = "6x9"
//	  color    = "4/4"
//	  stock    = "14pt"
//
//	  mailing {
//	    eddm = true
//	  }
//	}
package jobfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"printquote/core/types"
	perrors "printquote/internal/errors"
)

// Extension is the conventional job file suffix
const Extension = ".hcl"

// Job is one job block with its source position
type Job struct {
	Name string
	File string
	Line int
	Spec types.Specification
}

// Position returns "file:line" for messages
func (j Job) Position() string {
	return fmt.Sprintf("%s:%d", j.File, j.Line)
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "job", LabelNames: []string{"name"}},
	},
}

var jobSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "quantity", Required: true},
		{Name: "product", Required: true},
		{Name: "color", Required: true},
		{Name: "size"},
		{Name: "width"},
		{Name: "height"},
		{Name: "stock"},
		{Name: "pages"},
		{Name: "n_up"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "mailing"},
	},
}

var mailingSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "eddm"},
	},
}

// Parser reads job files. It is not safe for concurrent use.
type Parser struct {
	parser *hclparse.Parser
}

// NewParser creates a job file parser
func NewParser() *Parser {
	return &Parser{parser: hclparse.NewParser()}
}

// ParseFile reads every job in one file
func (p *Parser) ParseFile(path string) ([]Job, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Parsing("failed to read job file", err).WithContext("file", path)
	}
	return p.Parse(src, path)
}

// ParseDir reads every job file in a directory, in file name order
func (p *Parser) ParseDir(dir string) ([]Job, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+Extension))
	if err != nil {
		return nil, perrors.Parsing("failed to list job files", err).WithContext("dir", dir)
	}
	sort.Strings(matches)

	var jobs []Job
	for _, m := range matches {
		found, err := p.ParseFile(m)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, found...)
	}
	return jobs, nil
}

// Parse reads every job in src. All diagnostics are reported together.
func (p *Parser) Parse(src []byte, filename string) ([]Job, error) {
	file, diags := p.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	var jobs []Job
	seen := map[string]int{}
	for _, block := range content.Blocks {
		name := block.Labels[0]
		line := block.DefRange.Start.Line
		if prev, ok := seen[name]; ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate job",
				Detail:   fmt.Sprintf("Job %q was already defined on line %d.", name, prev),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			continue
		}
		seen[name] = line

		spec, jobDiags := decodeJob(block.Body)
		diags = append(diags, jobDiags...)
		jobs = append(jobs, Job{Name: name, File: filename, Line: line, Spec: spec})
	}
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}
	return jobs, nil
}

func decodeJob(body hcl.Body) (types.Specification, hcl.Diagnostics) {
	var spec types.Specification
	content, diags := body.Content(jobSchema)
	if diags.HasErrors() {
		return spec, diags
	}
	attrs := content.Attributes

	diags = append(diags, decodeAttr(attrs["quantity"], cty.Number, &spec.Quantity)...)
	diags = append(diags, decodeAttr(attrs["pages"], cty.Number, &spec.TotalPages)...)
	diags = append(diags, decodeAttr(attrs["n_up"], cty.Number, &spec.LetterNUp)...)
	diags = append(diags, decodeAttr(attrs["stock"], cty.String, &spec.Stock)...)

	var product, color, size string
	diags = append(diags, decodeAttr(attrs["product"], cty.String, &product)...)
	diags = append(diags, decodeAttr(attrs["color"], cty.String, &color)...)
	diags = append(diags, decodeAttr(attrs["size"], cty.String, &size)...)
	diags = append(diags, decodeAttr(attrs["width"], cty.Number, &spec.FinishedWidth)...)
	diags = append(diags, decodeAttr(attrs["height"], cty.Number, &spec.FinishedHeight)...)

	if a := attrs["product"]; a != nil && product != "" {
		p, err := types.ParseProductType(product)
		if err != nil {
			diags = append(diags, attrDiag(a, "Unknown product", err))
		}
		spec.Product = p
	}
	if a := attrs["color"]; a != nil && color != "" {
		c, err := types.ParseColorMode(color)
		if err != nil {
			diags = append(diags, attrDiag(a, "Unknown color mode", err))
		}
		spec.Color = c
	}

	switch a := attrs["size"]; {
	case a != nil && (attrs["width"] != nil || attrs["height"] != nil):
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting size",
			Detail:   `Use either "size" or "width" and "height", not both.`,
			Subject:  a.Range.Ptr(),
		})
	case a != nil:
		w, h, err := types.ParseSize(size)
		if err != nil {
			diags = append(diags, attrDiag(a, "Invalid size", err))
		}
		spec.FinishedWidth, spec.FinishedHeight = w, h
	case attrs["width"] == nil || attrs["height"] == nil:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing size",
			Detail:   `A job needs "size" or both "width" and "height".`,
			Subject:  body.MissingItemRange().Ptr(),
		})
	}

	for _, block := range content.Blocks {
		mc, mdiags := block.Body.Content(mailingSchema)
		diags = append(diags, mdiags...)
		spec.WantsMailing = true
		diags = append(diags, decodeAttr(mc.Attributes["eddm"], cty.Bool, &spec.IsEDDM)...)
	}

	return spec, diags
}

// decodeAttr evaluates a constant attribute into target; a nil attribute is skipped
func decodeAttr(attr *hcl.Attribute, want cty.Type, target interface{}) hcl.Diagnostics {
	if attr == nil {
		return nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() || !val.IsKnown() {
		return hcl.Diagnostics{attrDiag(attr, "Invalid value", fmt.Errorf("%s must be a constant", attr.Name))}
	}

	val, err := convert.Convert(val, want)
	if err != nil {
		return hcl.Diagnostics{attrDiag(attr, "Incorrect attribute type", fmt.Errorf("%s must be a %s", attr.Name, want.FriendlyName()))}
	}
	if err := gocty.FromCtyValue(val, target); err != nil {
		return hcl.Diagnostics{attrDiag(attr, "Invalid value", fmt.Errorf("%s: %v", attr.Name, err))}
	}
	return nil
}

func attrDiag(attr *hcl.Attribute, summary string, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   err.Error(),
		Subject:  attr.Expr.Range().Ptr(),
	}
}

// diagError turns diagnostics into a typed parsing error carrying the first error's position
func diagError(filename string, diags hcl.Diagnostics) error {
	err := perrors.Parsing("invalid job file", diags).WithContext("file", filename)
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			err = err.WithContext("line", d.Subject.Start.Line)
			break
		}
	}
	return err
}
