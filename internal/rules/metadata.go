package rules

import (
	"fmt"
	"regexp"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the metadata check.
const (
	CodeMetadataMissing      = "metadata-missing"
	CodeMetadataInvalid      = "metadata-invalid"
	CodeMetadataMissingField = "metadata-missing-field"
	CodeMetadataInvalidField = "metadata-invalid-field"
	CodeMetadataUnknownField = "metadata-unknown-field"
)

// fieldSpec constrains the shape of one metadata field.
type fieldSpec struct {
	maxLength int
	pattern   *regexp.Regexp
}

// categorySchema is the closed field list for one document category.
type categorySchema struct {
	required []string
	allowed  map[string]fieldSpec
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// metadataSchemas holds the per-category field lists. Unrecognized documents
// are not checked.
var metadataSchemas = map[parser.Category]categorySchema{
	parser.CategoryAgent: {
		required: []string{"name", "description"},
		allowed: map[string]fieldSpec{
			"name":        {maxLength: 64, pattern: namePattern},
			"description": {maxLength: 1024},
			"tools":       {},
			"model":       {maxLength: 128},
			"color":       {maxLength: 32},
		},
	},
	parser.CategoryPrompt: {
		required: []string{"description"},
		allowed: map[string]fieldSpec{
			"description": {maxLength: 1024},
			"mode":        {maxLength: 32},
			"model":       {maxLength: 128},
			"tools":       {},
			"variables":   {},
			"inputs":      {},
			"args":        {},
		},
	},
	parser.CategoryInstructions: {
		required: []string{"description"},
		allowed: map[string]fieldSpec{
			"description": {maxLength: 1024},
			"applyTo":     {maxLength: 256},
		},
	},
	parser.CategorySkill: {
		required: []string{"name", "description"},
		allowed: map[string]fieldSpec{
			"name":          {maxLength: 64, pattern: namePattern},
			"description":   {maxLength: 1024},
			"license":       {maxLength: 128},
			"allowed-tools": {},
			"metadata":      {},
		},
	},
}

// checkMetadata validates the metadata header against the category's field
// list: required-field presence, field-shape constraints, and unknown-field
// warnings. Field-level checks are skipped when the header block exists but
// did not decode.
func checkMetadata(doc *parser.Document) []models.Finding {
	schema, ok := metadataSchemas[doc.Category]
	if !ok {
		return nil
	}

	headerRange := models.WholeLine(0, lineLen(doc, 0))
	if doc.FrontmatterRange != nil {
		headerRange = *doc.FrontmatterRange
	}

	if doc.Frontmatter == nil {
		if doc.FrontmatterRange != nil {
			return []models.Finding{{
				Code:     CodeMetadataInvalid,
				Message:  fmt.Sprintf("metadata header does not parse as YAML; %s fields cannot be validated", doc.Category),
				Severity: models.SeverityWarning,
				Range:    headerRange,
				Source:   "metadata",
			}}
		}
		return []models.Finding{{
			Code:     CodeMetadataMissing,
			Message:  fmt.Sprintf("%s documents need a metadata header with: %s", doc.Category, joinFields(schema.required)),
			Severity: models.SeverityWarning,
			Range:    headerRange,
			Source:   "metadata",
		}}
	}

	var findings []models.Finding

	for _, field := range schema.required {
		if _, present := doc.Frontmatter[field]; !present {
			findings = append(findings, models.Finding{
				Code:     CodeMetadataMissingField,
				Message:  fmt.Sprintf("metadata header is missing required field %q", field),
				Severity: models.SeverityWarning,
				Range:    headerRange,
				Source:   "metadata",
			})
		}
	}

	for field, value := range doc.Frontmatter {
		spec, known := schema.allowed[field]
		if !known {
			findings = append(findings, models.Finding{
				Code:     CodeMetadataUnknownField,
				Message:  fmt.Sprintf("field %q is not part of the %s metadata schema", field, doc.Category),
				Severity: models.SeverityHint,
				Range:    headerRange,
				Source:   "metadata",
			})
			continue
		}

		text, isString := value.(string)
		if !isString {
			continue
		}
		if spec.maxLength > 0 && len(text) > spec.maxLength {
			findings = append(findings, models.Finding{
				Code:     CodeMetadataInvalidField,
				Message:  fmt.Sprintf("field %q exceeds the maximum length of %d characters", field, spec.maxLength),
				Severity: models.SeverityWarning,
				Range:    headerRange,
				Source:   "metadata",
			})
		}
		if spec.pattern != nil && !spec.pattern.MatchString(text) {
			findings = append(findings, models.Finding{
				Code:     CodeMetadataInvalidField,
				Message:  fmt.Sprintf("field %q must match %s", field, spec.pattern.String()),
				Severity: models.SeverityWarning,
				Range:    headerRange,
				Source:   "metadata",
			})
		}
	}

	return findings
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}
