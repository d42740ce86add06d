package properties

import (
	"fmt"
	"regexp"
	"strings"
)

// varPattern matches ((name)) placeholders, the manifest variable syntax.
var varPattern = regexp.MustCompile(`\(\(\s*([\w.\-/]+)\s*\)\)`)

// Interpolate replaces ((name)) placeholders with values from variables.
// It runs on raw text before YAML parsing and reports every missing name at once.
func Interpolate(text string, variables map[string]string) (string, error) {
	var missingVars []string
	seen := make(map[string]bool)

	result := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := varPattern.FindStringSubmatch(match)[1]

		value, ok := variables[key]
		if !ok {
			if !seen[key] {
				seen[key] = true
				missingVars = append(missingVars, key)
			}
			return match
		}
		return value
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing variables: ((%s))", strings.Join(missingVars, ")), (("))
	}

	return result, nil
}

// ParseVariables turns key=value pairs into a variables map.
func ParseVariables(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
