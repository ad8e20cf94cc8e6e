package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"casework/internal/config"
	"casework/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes for an accessible directory, or for a
// missing one whose nearest existing ancestor is writable.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil || parent == filepath.Dir(parent) {
			break
		}
		parent = filepath.Dir(parent)
	}
	if result := CheckDirectoryAccess(name, parent); !result.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot be created under %s)", path, result.Detail)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first setup)", path)}
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
// The scripts directory only needs read access.
func CheckReadableDirectory(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckInterpreters evaluates every configured script interpreter.
func CheckInterpreters(cfg *config.Config) []Result {
	statuses := deps.CheckBinaries(deps.InterpreterRequirements(cfg.Runner.Interpreters))
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Optional: status.Optional, Passed: status.Available}
		if status.Available {
			result.Detail = status.Path
		} else {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	return results
}

// CheckScript verifies that a script referenced by the resolution table
// exists under the scripts directory and can be launched. Scripts without a
// configured interpreter must carry an execute bit.
func CheckScript(cfg *config.Config, script string) Result {
	name := "Script " + script
	path := script
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Paths.ScriptsDir, filepath.FromSlash(script))
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if _, ok := cfg.InterpreterFor(path); ok {
		if err := unix.Access(path, unix.R_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: path}
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not executable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
