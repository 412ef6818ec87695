package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// DefaultPlanFile is the default test plan file name, looked for in the
// project directory.
const DefaultPlanFile = "wcag_zoo_runner.ini"

// ErrPlanFormat is returned when the test plan file cannot be parsed. The
// plan decides what gets fetched, so a broken plan stops the run before the
// development server is touched.
var ErrPlanFormat = errors.New("plan file format error")

// Plan section names. The in-memory complex bucket is surfaced under the
// label "test" when the plan is written for humans.
const (
	sectionInclude = "include"
	sectionExclude = "exclude"
	sectionTest    = "test"
)

// LoadPlan reads an INI test plan from path.
func LoadPlan(path string) (model.URLPlan, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided plan path is intentional
	if err != nil {
		return model.URLPlan{}, err
	}
	defer f.Close() //nolint:errcheck // Read-only file

	plan, err := ReadPlan(f)
	if err != nil {
		return model.URLPlan{}, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// ReadPlan parses the INI plan format:
//
//	[include]
//	/about/
//	[test]
//	## /products/<int:id>/
//	[exclude]
//	^/admin
//
// One pattern per line. "=" is the sole key/value delimiter and the value
// part is optional, so a bare pattern and "pattern = note" both declare the
// pattern. URLs routinely contain ":", which is why ":" is not a delimiter.
// Comment lines (# or ;) and blank lines are ignored, so the "## " entries
// the generator writes under [test] stay inert until a human uncomments
// them. Unknown sections are tolerated and their entries skipped; duplicate
// entries within a section are dropped.
func ReadPlan(r io.Reader) (model.URLPlan, error) {
	plan := model.URLPlan{Include: []string{}, Exclude: []string{}, Complex: []string{}}
	seen := make(map[string]struct{})

	section := ""
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			continue

		case strings.HasPrefix(line, "["):
			name, ok := sectionName(line)
			if !ok {
				return model.URLPlan{}, fmt.Errorf("%w: line %d: malformed section header %q", ErrPlanFormat, lineNo, line)
			}
			section = name

		case section == "":
			return model.URLPlan{}, fmt.Errorf("%w: line %d: entry before any section header", ErrPlanFormat, lineNo)

		default:
			pattern, _, _ := strings.Cut(line, "=")
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				return model.URLPlan{}, fmt.Errorf("%w: line %d: entry with empty pattern", ErrPlanFormat, lineNo)
			}

			key := section + "\x00" + pattern
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			switch section {
			case sectionInclude:
				plan.Include = append(plan.Include, pattern)
			case sectionExclude:
				plan.Exclude = append(plan.Exclude, pattern)
			case sectionTest:
				plan.Complex = append(plan.Complex, pattern)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return model.URLPlan{}, err
	}

	return plan, nil
}

// sectionName extracts the name from a "[name]" header line.
func sectionName(line string) (string, bool) {
	if !strings.HasSuffix(line, "]") {
		return "", false
	}
	name := strings.TrimSpace(line[1 : len(line)-1])
	if name == "" {
		return "", false
	}
	return name, true
}

// WritePlan writes the plan in the INI format ReadPlan understands,
// sections in the order include, test, exclude. The complex bucket is
// written under [test] as commented-out entries so a human can substitute
// real parameter values and uncomment them.
func WritePlan(w io.Writer, plan model.URLPlan) error {
	var b strings.Builder

	b.WriteString("[" + sectionInclude + "]\n")
	for _, entry := range plan.Include {
		b.WriteString(entry + "\n")
	}

	b.WriteString("[" + sectionTest + "]\n")
	for _, entry := range plan.Complex {
		b.WriteString("## " + entry + "\n")
	}

	b.WriteString("[" + sectionExclude + "]\n")
	for _, entry := range plan.Exclude {
		b.WriteString(entry + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SavePlan writes the plan to path, creating parent directories as needed.
func SavePlan(path string, plan model.URLPlan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return err
	}

	if err := WritePlan(f, plan); err != nil {
		f.Close() //nolint:errcheck,gosec // Write error takes precedence
		return err
	}

	return f.Close()
}
