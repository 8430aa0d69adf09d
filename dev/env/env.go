package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const moduleName = "gdp-etl"

var modName = regexp.MustCompile(`(?m)^module *([\w\-_./]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == moduleName
}

// GetWorkspaceRoot walks up from the working directory to the directory
// holding this module's go.mod.
func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}

	for {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		parent := filepath.Dir(currentdir)
		if parent == currentdir {
			return "", os.ErrNotExist
		}
		currentdir = parent
	}
}

func GetStateFilePath(path string) (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state", path), nil
}

// ResolvePath expands a leading "<dev_state>" element to the dev state
// directory, creating it if needed. Other paths are returned unchanged.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "<dev_state>") {
		return path, nil
	}

	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Join(root, "dev", ".state"), 0777)
	if err != nil {
		return "", err
	}

	subpath := filepath.Join(strings.Split(path, string(os.PathSeparator))[1:]...)
	statepath := filepath.Join(
		root, "dev", ".state", subpath,
	)

	return statepath, nil
}
