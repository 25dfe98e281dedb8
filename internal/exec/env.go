package exec

import (
	"os"
	"path"
	"sort"
	"strings"
)

// DefaultEnvExclude keeps the agent's own credentials away from commands
// the model asks to run.
var DefaultEnvExclude = []string{"API_KEY"}

// EnvPolicy filters the environment handed to commands.
//
// Filtering runs in two steps:
//  1. Drop variables whose name matches an Exclude pattern.
//  2. Insert Set overrides.
type EnvPolicy struct {
	// Exclude lists case-insensitive wildcard patterns (* and ?) of names.
	Exclude []string `yaml:"exclude"`
	// Set provides explicit key=value overrides inserted after filtering.
	Set map[string]string `yaml:"set"`
}

// Environ applies p to the current process environment.
func (p EnvPolicy) Environ() []string {
	return BuildEnv(os.Environ(), p)
}

// BuildEnv applies p to environ, a list of "KEY=VALUE" entries, and returns
// the result sorted by name.
func BuildEnv(environ []string, p EnvPolicy) []string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || matchesAny(k, p.Exclude) {
			continue
		}
		env[k] = v
	}
	for k, v := range p.Set {
		env[k] = v
	}

	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		if ok, err := path.Match(strings.ToLower(pattern), lower); err == nil && ok {
			return true
		}
	}
	return false
}
