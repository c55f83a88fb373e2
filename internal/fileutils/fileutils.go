// Package fileutils provides the file operations shared by the writers.
package fileutils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if dirPath == "" || DirectoryExists(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// AtomicWrite writes a file through a temporary sibling and renames it into
// place, so readers never observe a partially written file. Parent
// directories are created as needed. If write fails nothing is left behind.
func AtomicWrite(filePath string, write func(w io.Writer) error) error {
	staged, err := Stage(filePath, write)
	if err != nil {
		return err
	}
	return CommitAll(staged)
}

// StagedFile is content written next to its target and not yet moved into
// place.
type StagedFile struct {
	target string
	tmp    string
	backup string
}

// Target returns the path the file is committed to.
func (s *StagedFile) Target() string {
	return s.target
}

// Stage writes the content of filePath to a temporary sibling. Nothing is
// visible at filePath until the file is committed with CommitAll.
func Stage(filePath string, write func(w io.Writer) error) (staged *StagedFile, err error) {
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return nil, err
	}
	if err = buf.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush %s: %w", filePath, err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", filePath, err)
	}
	return &StagedFile{target: filePath, tmp: tmp.Name()}, nil
}

// Discard removes the staged content. The target is untouched.
func (s *StagedFile) Discard() {
	if s != nil && s.tmp != "" {
		_ = os.Remove(s.tmp)
		s.tmp = ""
	}
}

// commit moves the staged content into place, keeping the previous target
// aside until the whole group is committed.
func (s *StagedFile) commit() error {
	if FileExists(s.target) {
		s.backup = s.tmp + ".prev"
		if err := os.Rename(s.target, s.backup); err != nil {
			s.backup = ""
			return fmt.Errorf("failed to set aside %s: %w", s.target, err)
		}
	}
	if err := os.Rename(s.tmp, s.target); err != nil {
		s.restore()
		return fmt.Errorf("failed to move %s into place: %w", s.target, err)
	}
	s.tmp = ""
	return nil
}

// restore puts the previous target back, or removes the new one when there
// was none.
func (s *StagedFile) restore() {
	if s.backup == "" {
		if s.tmp == "" {
			_ = os.Remove(s.target)
		}
		return
	}
	_ = os.Rename(s.backup, s.target)
	s.backup = ""
}

// CommitAll moves every staged file into place. Either all targets are
// replaced or, on the first failure, the ones already moved are restored
// to their previous content and the rest are discarded.
func CommitAll(files ...*StagedFile) error {
	for i, f := range files {
		if err := f.commit(); err != nil {
			for _, done := range files[:i] {
				done.restore()
			}
			for _, rest := range files[i:] {
				rest.Discard()
			}
			return err
		}
	}
	for _, f := range files {
		if f.backup != "" {
			_ = os.Remove(f.backup)
			f.backup = ""
		}
	}
	return nil
}
