package planner

import (
	"strings"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

const exampleCommand = `{"action":"list_directory","args":{"path":"Desktop"}}`

// BuildSystemPrompt describes the catalog to the model. Optional
// parameters are marked with a trailing question mark.
func BuildSystemPrompt(tools []types.Tool) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}

	var b strings.Builder
	b.WriteString("You are a file-operations planner. Respond ONLY with a JSON object on one line. ")
	b.WriteString("Allowed actions: ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(". Paths MUST be relative to the sandbox root. ")
	b.WriteString("Schemas:\n")
	for _, t := range tools {
		b.WriteString(schemaLine(t))
		b.WriteByte('\n')
	}
	b.WriteString("Example: ")
	b.WriteString(exampleCommand)
	return b.String()
}

func schemaLine(t types.Tool) string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.Name
		if !p.Required {
			params[i] += "?"
		}
	}
	return t.Name + ":{" + strings.Join(params, ",") + "}"
}
