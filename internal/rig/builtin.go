package rig

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinPrefix selects an embedded rig in LoadAsync and the CLI.
const BuiltinPrefix = "builtin:"

// Builtin returns the embedded rig with the given name.
func Builtin(name string) (*File, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoBuiltin, name)
	}
	return Parse(data)
}

// Builtins lists the embedded rig names.
func Builtins() []string {
	entries, _ := builtinFS.ReadDir("builtin")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
