package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"nexus/internal/port"
)

const defaultPageSize = 100

// Filesystem lists local text files as source documents. The file path is
// the external ID, the base name the title. Paths are matched against
// include and exclude glob patterns relative to the root.
type Filesystem struct {
	root     string
	includes []string
	excludes []string
	pageSize int
}

func NewFilesystem(root string, includes, excludes []string) *Filesystem {
	if len(includes) == 0 {
		includes = []string{"**/*.txt", "**/*.md"}
	}
	return &Filesystem{
		root:     root,
		includes: includes,
		excludes: excludes,
		pageSize: defaultPageSize,
	}
}

func (f *Filesystem) Name() string { return "Filesystem" }

// List walks the root and returns one page of documents in sorted path
// order. The cursor is the numeric offset of the next page.
func (f *Filesystem) List(ctx context.Context, cursor string) ([]port.SourceDocument, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	paths, err := f.matchingPaths()
	if err != nil {
		return nil, "", err
	}

	offset := 0
	if cursor != "" {
		offset, err = strconv.Atoi(cursor)
		if err != nil || offset < 0 {
			return nil, "", fmt.Errorf("malformed cursor %q", cursor)
		}
	}
	if offset >= len(paths) {
		return nil, "", nil
	}

	end := offset + f.pageSize
	if end > len(paths) {
		end = len(paths)
	}

	docs := make([]port.SourceDocument, 0, end-offset)
	for _, rel := range paths[offset:end] {
		full := filepath.Join(f.root, rel)
		info, err := os.Stat(full)
		if err != nil {
			return nil, "", err
		}
		content, err := os.ReadFile(full)
		if err != nil {
			return nil, "", err
		}
		docs = append(docs, port.SourceDocument{
			ID:           rel,
			Title:        filepath.Base(rel),
			Content:      string(content),
			LastModified: info.ModTime(),
		})
	}

	next := ""
	if end < len(paths) {
		next = strconv.Itoa(end)
	}
	return docs, next, nil
}

func (f *Filesystem) matchingPaths() ([]string, error) {
	var paths []string
	err := filepath.Walk(f.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if rel != "." && f.matchesAny(f.excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if f.matchesAny(f.includes, rel) && !f.matchesAny(f.excludes, rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (f *Filesystem) matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}
