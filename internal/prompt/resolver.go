package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	pathTag = regexp.MustCompile(`\{\{\{path:"([^"]+)"\}\}\}`)
	varTag  = regexp.MustCompile(`\{\{\{var_str:"([^"]+)"\}\}\}`)
)

// Resolve expands a prompt template file. Include tags pull in other files
// relative to the file containing the tag, recursively; variable tags are
// filled from the explicit vars map. An include cycle or an unknown variable
// is an error.
func Resolve(path string, vars map[string]string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve template path %q: %w", path, err)
	}
	text, err := expandFile(abs, map[string]struct{}{})
	if err != nil {
		return "", err
	}
	return substituteVars(text, vars)
}

func expandFile(abs string, visited map[string]struct{}) (string, error) {
	if _, ok := visited[abs]; ok {
		return "", fmt.Errorf("circular include of %q", abs)
	}
	visited[abs] = struct{}{}
	defer delete(visited, abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read template %q: %w", abs, err)
	}
	text := string(data)

	var expandErr error
	text = pathTag.ReplaceAllStringFunc(text, func(tag string) string {
		if expandErr != nil {
			return tag
		}
		ref := pathTag.FindStringSubmatch(tag)[1]
		included, err := expandFile(filepath.Join(filepath.Dir(abs), ref), visited)
		if err != nil {
			expandErr = err
			return tag
		}
		return included
	})
	if expandErr != nil {
		return "", expandErr
	}
	return text, nil
}

func substituteVars(text string, vars map[string]string) (string, error) {
	var missing []string
	out := varTag.ReplaceAllStringFunc(text, func(tag string) string {
		name := varTag.FindStringSubmatch(tag)[1]
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return tag
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved template variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
