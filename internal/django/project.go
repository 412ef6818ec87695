package django

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Project describes a located Django project.
type Project struct {
	// Root is the directory containing manage.py.
	Root string

	// ManagePy is the absolute path to manage.py.
	ManagePy string

	// SettingsDir is the package directory containing settings.py, or
	// empty when none was found. The server can still run without it;
	// manage.py knows its own settings module.
	SettingsDir string
}

// FindProject locates a Django project at dir, or failing that in one of
// dir's immediate subdirectories. The first directory (in name order)
// containing a manage.py wins.
func FindProject(dir string) (Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Project{}, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	candidates := []string{abs}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return Project{}, fmt.Errorf("failed to read project directory %s: %w", abs, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		candidates = append(candidates, filepath.Join(abs, name))
	}

	for _, candidate := range candidates {
		managePy := filepath.Join(candidate, "manage.py")
		info, err := os.Stat(managePy)
		if err != nil || info.IsDir() {
			continue
		}

		return Project{
			Root:        candidate,
			ManagePy:    managePy,
			SettingsDir: findSettingsDir(candidate),
		}, nil
	}

	return Project{}, fmt.Errorf("%w: looked in %s and its subdirectories", ErrProjectNotFound, abs)
}

// findSettingsDir scans the project root's immediate subdirectories for a
// settings.py.
func findSettingsDir(root string) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		settings := filepath.Join(root, name, "settings.py")
		if info, err := os.Stat(settings); err == nil && !info.IsDir() {
			return filepath.Join(root, name)
		}
	}
	return ""
}
