package ignore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Policy describes which files of a plugin directory are left out of the
// archive.
type Policy struct {
	// ExcludeHidden drops files and directories whose name starts with
	// "." or "_".
	ExcludeHidden bool
	// Extensions are file suffixes to drop, e.g. ".py".
	Extensions []string
	// Directories are directory names dropped at any depth.
	Directories []string
	// Patterns are extra gitignore-style patterns relative to the root.
	Patterns []string
	// RespectGitignore also applies .gitignore files found under the root.
	RespectGitignore bool
}

// group is a named set of patterns, used to explain why a path is ignored.
type group struct {
	reason  string
	matcher gitignore.Matcher
}

// Ignore encapsulates gitignore pattern matching functionality
type Ignore struct {
	matcher  gitignore.Matcher
	groups   []group
	rootPath string
	skip     map[string]bool

	Logger *slog.Logger
}

// NewIgnore creates a new Ignore instance for the given root path
func NewIgnore(rootPath string, policy Policy) (*Ignore, error) {
	var all []gitignore.Pattern
	var groups []group

	add := func(reason string, ps []gitignore.Pattern) {
		if len(ps) == 0 {
			return
		}
		all = append(all, ps...)
		groups = append(groups, group{reason: reason, matcher: gitignore.NewMatcher(ps)})
	}

	if policy.RespectGitignore {
		// Create a filesystem for the directory
		fs := osfs.New(rootPath)
		patterns, err := gitignore.ReadPatterns(fs, []string{})
		if err != nil {
			return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
		}
		add("matched .gitignore", patterns)
	}

	if policy.ExcludeHidden {
		add("name starts with . or _", parsePatterns([]string{".*", "_*"}))
	}

	exts := make([]string, 0, len(policy.Extensions))
	for _, ext := range policy.Extensions {
		exts = append(exts, "*"+ext)
	}
	add("ignored extension", parsePatterns(exts))

	dirs := make([]string, 0, len(policy.Directories))
	for _, dir := range policy.Directories {
		dirs = append(dirs, strings.TrimSuffix(dir, "/")+"/")
	}
	add("ignored directory", parsePatterns(dirs))

	add("matched exclude pattern", parsePatterns(policy.Patterns))

	return &Ignore{
		matcher:  gitignore.NewMatcher(all),
		groups:   groups,
		rootPath: rootPath,
		skip:     map[string]bool{},
	}, nil
}

func parsePatterns(lines []string) []gitignore.Pattern {
	ps := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	return ps
}

// Skip excludes an absolute path and everything below it, regardless of
// the patterns.
func (ig *Ignore) Skip(path string) {
	ig.skip[filepath.Clean(path)] = true
}

// IsIgnored checks if a path should be ignored according to the policy
func (ig *Ignore) IsIgnored(path string, isDir bool) (bool, error) {
	_, ignored, err := ig.Explain(path, isDir)
	return ignored, err
}

// Explain reports whether path is ignored and why.
func (ig *Ignore) Explain(path string, isDir bool) (string, bool, error) {
	if ig.skip[filepath.Clean(path)] {
		return "excluded path", true, nil
	}

	// Convert absolute path to a relative path for the matcher
	relPath, err := filepath.Rel(ig.rootPath, path)
	if err != nil {
		return "", false, err
	}

	// Skip the root directory
	if relPath == "." {
		return "", false, nil
	}

	parts := strings.Split(relPath, string(os.PathSeparator))
	if !ig.matcher.Match(parts, isDir) {
		return "", false, nil
	}

	reason := "ignored"
	for i := len(ig.groups) - 1; i >= 0; i-- {
		if ig.groups[i].matcher.Match(parts, isDir) {
			reason = ig.groups[i].reason
			break
		}
	}
	return reason, true, nil
}

// WalkFiles walks the file tree rooted at the root path and calls fn for
// every regular file that the policy keeps. rel is slash-separated and
// relative to the root. Ignored directories are not descended into.
func (ig *Ignore) WalkFiles(fn func(path, rel string) error) error {
	return filepath.WalkDir(ig.rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		isDir := d.IsDir()

		// Check if the file/directory should be ignored
		reason, ignored, err := ig.Explain(path, isDir)
		if err != nil {
			return err
		}

		if ignored {
			if ig.Logger != nil {
				ig.Logger.Info("ignoring", "path", path, "reason", reason)
			}
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if isDir || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(ig.rootPath, path)
		if err != nil {
			return err
		}
		return fn(path, filepath.ToSlash(rel))
	})
}
