package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultName resolves to the caller-supplied fallback template in Get.
const DefaultName = "default"

// Library maps template names to template bodies. The zero value is an empty
// library.
type Library map[string]string

// LoadLibrary parses a YAML map of template names to template bodies. A
// missing file yields an empty library; any other failure is reported.
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Library{}, nil
		}

		return nil, fmt.Errorf("prompt: load library: %w", err)
	}

	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("prompt: parse library: %w", err)
	}

	return lib, nil
}

// Names returns the template names in sorted order.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Get resolves a named template. The empty name and "default" resolve to
// fallback unless the library defines them; any other unknown name is an
// error.
func (l Library) Get(name, fallback string) (string, error) {
	if tpl, ok := l[name]; ok {
		return tpl, nil
	}

	if name == "" || name == DefaultName {
		return fallback, nil
	}

	return "", fmt.Errorf("prompt: unknown template %q", name)
}
