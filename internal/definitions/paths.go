package definitions

import (
	"os"
	"path/filepath"
)

// SearchPaths returns definition search directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".portalstyle", "themes"))
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "portalstyle", "themes"))
	} else if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "portalstyle", "themes"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "portalstyle", "themes"))
	return paths
}

// LoadFromSearchPaths loads definitions from the search paths followed by
// extra directories, first hit wins per name. Builtins fill in last.
func LoadFromSearchPaths(projectDir string, extra ...string) ([]*Definition, error) {
	paths := append(SearchPaths(projectDir), extra...)
	seen := make(map[string]*Definition)
	order := make([]string, 0)

	add := func(defs []*Definition) {
		for _, def := range defs {
			if _, exists := seen[def.Name]; exists {
				continue
			}
			seen[def.Name] = def
			order = append(order, def.Name)
		}
	}

	for _, path := range paths {
		defs, err := LoadDefinitionsFromDir(path)
		if err != nil {
			return nil, err
		}
		add(defs)
	}

	builtins, err := LoadBuiltinDefinitions()
	if err != nil {
		return nil, err
	}
	add(builtins)

	resolved := make([]*Definition, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}
	return resolved, nil
}
