package tree

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// excludeSet holds compiled exclusion globs. A path is excluded when a
// pattern matches either the full path or its final element.
type excludeSet []glob.Glob

func compileExcludes(patterns []string) (excludeSet, error) {
	set := make(excludeSet, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		set = append(set, g)
	}
	return set, nil
}

// ValidateExcludes checks that every pattern compiles.
func ValidateExcludes(patterns []string) error {
	_, err := compileExcludes(patterns)
	return err
}

func (s excludeSet) match(path string) bool {
	if len(s) == 0 {
		return false
	}
	base := filepath.Base(path)
	for _, g := range s {
		if g.Match(path) || g.Match(base) {
			return true
		}
	}
	return false
}
