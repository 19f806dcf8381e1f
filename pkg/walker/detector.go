package walker

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"
)

// markers lists project-root indicator files, extended from the teacher's
// inspector/repository/detector.go set to foreground the three languages
// this spec targets (Python, PHP, JS/TS) while keeping the original
// multi-ecosystem markers so a mixed-language checkout is still detected.
var markers = []string{
	"pyproject.toml",
	"requirements.txt",
	"setup.py",
	"composer.json",
	"package.json",
	"go.mod",
	".git",
}

// Project describes the detected project root for a Source Walker run.
type Project struct {
	Name     string
	Type     string // "python" | "php" | "javascript" | "go" | "unknown"
	RootPath string
}

// DetectProject walks upward from path looking for one of the markers
// above, returning the shallowest match (closest ancestor), mirroring
// inspector/repository/detector.go's findProjectRoot.
func DetectProject(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, kind := findProjectRoot(startDir)
	proj := &Project{Type: "unknown", RootPath: absPath}
	if rootPath != "" {
		proj.RootPath = rootPath
		proj.Type = kind
		proj.Name = extractProjectName(rootPath, kind)
	}
	return proj, nil
}

func findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range markers {
			candidate := filepath.Join(dir, marker)
			if _, err := os.Stat(candidate); err == nil {
				return dir, projectTypeFor(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

func projectTypeFor(marker string) string {
	switch marker {
	case "pyproject.toml", "requirements.txt", "setup.py":
		return "python"
	case "composer.json":
		return "php"
	case "package.json":
		return "javascript"
	case "go.mod":
		return "go"
	default:
		return "unknown"
	}
}

var namePattern = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

// extractProjectName tries to pull a human name out of the marker file,
// reusing detector.go's modfile parsing for Go and a light regex/TOML-ish
// scan for the others (the core never needs a full config parser here; it
// only needs a display name, not semantics).
func extractProjectName(rootPath, projectType string) string {
	switch projectType {
	case "go":
		goModPath := filepath.Join(rootPath, "go.mod")
		content, err := os.ReadFile(goModPath)
		if err != nil {
			return ""
		}
		if mod, err := modfile.Parse(goModPath, content, nil); err == nil && mod.Module != nil {
			parts := strings.Split(mod.Module.Mod.Path, "/")
			return parts[len(parts)-1]
		}
		return ""
	case "javascript":
		return scanJSONName(filepath.Join(rootPath, "package.json"))
	case "php":
		return scanJSONName(filepath.Join(rootPath, "composer.json"))
	case "python":
		return scanPythonProjectName(rootPath)
	default:
		return filepath.Base(rootPath)
	}
}

func scanJSONName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := namePattern.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1]
		}
	}
	return ""
}

var pyProjectNamePattern = regexp.MustCompile(`^\s*name\s*=\s*"([^"]+)"`)

func scanPythonProjectName(rootPath string) string {
	f, err := os.Open(filepath.Join(rootPath, "pyproject.toml"))
	if err != nil {
		return filepath.Base(rootPath)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := pyProjectNamePattern.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1]
		}
	}
	return filepath.Base(rootPath)
}
