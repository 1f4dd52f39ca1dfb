// Package llm - prompt.go builds strict-JSON prompts from a field schema.
package llm

import (
	"fmt"
	"strings"
)

// PromptSchema describes the JSON object a prompt asks the model for.
type PromptSchema struct {
	Name        string        // Schema name (e.g., "ResumeFeedback")
	Description string        // Task preamble
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the model output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model, e.g. `"string"` or `["string"]`
	Description string // Description for the model
	Required    bool
}

// Section is a labeled block of input text appended to a prompt.
type Section struct {
	Label string
	Text  string
}

// BuildJSONPrompt constructs the prompt from schema and input sections.
func BuildJSONPrompt(schema PromptSchema, sections ...Section) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")
	sb.WriteString("- No prose outside the JSON.\n")

	for _, s := range sections {
		sb.WriteString("\n")
		sb.WriteString(s.Label)
		sb.WriteString(":\n\"\"\"\n")
		sb.WriteString(s.Text)
		sb.WriteString("\n\"\"\"\n")
	}

	return sb.String()
}

// FeedbackSchema asks for an ATS-style comparison of resume and job.
func FeedbackSchema() PromptSchema {
	return PromptSchema{
		Name:        "ResumeFeedback",
		Description: "You are an ATS expert. Compare the resume and the job description and assess how well the candidate fits the role.",
		Fields: []SchemaField{
			{Name: "fitScore", Type: "number", Description: "Overall fit from 0 to 100", Required: true},
			{Name: "strengths", Type: `["string"]`, Description: "What the resume does well for this job", Required: true},
			{Name: "weaknesses", Type: `["string"]`, Description: "Gaps against the job requirements", Required: true},
			{Name: "suggestions", Type: `["string"]`, Description: "Concrete edits that would improve the resume", Required: true},
		},
	}
}

// AptitudeQuestionSchema asks for one multiple-choice aptitude question.
func AptitudeQuestionSchema(topic, difficulty string) PromptSchema {
	return PromptSchema{
		Name: "AptitudeQuestion",
		Description: fmt.Sprintf("Generate a multiple-choice aptitude question on the topic '%s' with difficulty '%s'. "+
			"Provide the question, 4 options, the correct answer, and a brief explanation.", topic, difficulty),
		Fields: []SchemaField{
			{Name: "question", Description: "The question text", Required: true},
			{Name: "options", Type: `["string"]`, Description: "Exactly 4 distinct options", Required: true},
			{Name: "answer", Description: "The correct option, copied exactly from options", Required: true},
			{Name: "explanation", Description: "One or two sentences", Required: true},
		},
	}
}
