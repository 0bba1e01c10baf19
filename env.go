package gitcmd

import (
	"sort"
	"strings"
)

// deriveEnv returns a new environment built from base with overrides applied.
// Existing entries are replaced in place and missing ones are appended in key
// order. base is never modified.
func deriveEnv(base []string, overrides map[string]string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[key]; ok {
			if seen[key] {
				continue
			}
			seen[key] = true
			env = append(env, key+"="+v)
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}

	return env
}
