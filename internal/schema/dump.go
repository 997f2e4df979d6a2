package schema

import (
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/yasniy-lang/yasniy/internal/errors"
)

// DumpJSON renders functions as the `.yapp` metadata's `schema` array,
// indented for `yasniy schema --format json`.
func DumpJSON(functions []Function) ([]byte, error) {
	out, err := json.MarshalIndent(functions, "", "  ")
	if err != nil {
		return nil, errors.FormatError("", "encoding schema as JSON: "+err.Error(), err)
	}
	return out, nil
}

// DumpYAML renders the same projection as YAML, the `yasniy schema
// --format yaml` CLI default: closer to yasniy source for a human
// skimming a bundle's public surface.
func DumpYAML(functions []Function) ([]byte, error) {
	out, err := yaml.Marshal(functions)
	if err != nil {
		return nil, errors.FormatError("", "encoding schema as YAML: "+err.Error(), err)
	}
	return out, nil
}
