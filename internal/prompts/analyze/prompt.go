// Package analyze holds the prompt pair for the analysis operation.
package analyze

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for data analysis.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt embedding the instruction and the
// serialized table.
func UserPrompt(instruction, tableJSON string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Instruction, Table string }{instruction, tableJSON}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
