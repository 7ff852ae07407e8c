// Package fileutils locates and reads statement files given on the command line.
package fileutils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxStatementSize is the largest statement file ReadStatement accepts.
const MaxStatementSize = 32 << 20

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadStatement reads a statement file, refusing directories and files larger than
// MaxStatementSize.
func ReadStatement(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}
	if info.Size() > MaxStatementSize {
		return nil, fmt.Errorf("file %s is too large: %d bytes (limit %d)", filePath, info.Size(), MaxStatementSize)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// CollectStatements expands paths into a list of files. Files are returned as given;
// directories are walked and contribute the files whose extension accept allows.
// Directory results are sorted.
func CollectStatements(paths []string, accept func(ext string) bool) ([]string, error) {
	var files []string
	for _, p := range paths {
		if !DirectoryExists(p) {
			files = append(files, p)
			continue
		}

		var found []string
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && accept(strings.ToLower(filepath.Ext(path))) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
