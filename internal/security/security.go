package security

import (
	"path/filepath"
	"strings"

	"fileshred/internal/config"
)

// ProtectedRoot returns the configured protected path that contains path, or
// "" if path is not protected. Symlinks in the parent directories of path and
// in the protected paths are resolved before comparing. The final component is
// left alone since a symlink target is refused by validation.
func ProtectedRoot(cfg *config.Config, path string) string {
	if cfg == nil {
		cfg = config.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	candidates := []string{abs}
	if resolved := resolveParent(abs); resolved != abs {
		candidates = append(candidates, resolved)
	}

	for _, protected := range cfg.Security.ProtectedPaths {
		root, err := filepath.Abs(protected)
		if err != nil {
			continue
		}
		roots := []string{root}
		if resolved, err := filepath.EvalSymlinks(root); err == nil && resolved != root {
			roots = append(roots, resolved)
		}

		for _, candidate := range candidates {
			for _, r := range roots {
				if within(candidate, r) {
					return protected
				}
			}
		}
	}

	return ""
}

// resolveParent resolves symlinks in the directory part of abs. Missing
// directories are left unresolved.
func resolveParent(abs string) string {
	dir, base := filepath.Split(abs)
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return abs
	}
	return filepath.Join(resolved, base)
}

func within(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}
