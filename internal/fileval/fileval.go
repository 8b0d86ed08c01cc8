// Package fileval provides pre-scan file validation checks for quill.
//
// These checks run before any check reads a file, to fail fast on files the
// scanning checks cannot meaningfully handle: oversized files and files that
// are not UTF-8 text. A failure becomes one quill/file violation instead of
// a stream of nonsense findings.
package fileval

import (
	"fmt"
	"os"
)

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file too large (%d > %d bytes); increase [scan] max-file-size in .quill.toml to override",
		e.Size, e.MaxSize,
	)
}

// NotUTF8Error is returned when a file does not appear to be valid UTF-8 text.
type NotUTF8Error struct {
	Path string
}

func (e *NotUTF8Error) Error() string {
	return "file does not appear to be valid UTF-8 text"
}

// NotRegularError is returned for directories, devices and other non-files.
type NotRegularError struct {
	Path string
}

func (e *NotRegularError) Error() string {
	return "not a regular file"
}

// ValidateFile runs pre-scan validation checks on a file:
//  1. Regular-file check
//  2. Maximum size check (when maxSize > 0)
//  3. UTF-8 smoke check
func ValidateFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// 1. Regular-file check.
	if !info.Mode().IsRegular() {
		return &NotRegularError{Path: path}
	}

	// 2. Maximum size check.
	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}

	// 3. UTF-8 smoke check.
	// Use maxSize as the read limit when positive; otherwise read up to 1 MB.
	readLimit := maxSize
	if readLimit <= 0 {
		readLimit = 1 << 20 // 1 MB
	}
	ok, err := LooksUTF8(path, readLimit)
	if err != nil {
		return err
	}
	if !ok {
		return &NotUTF8Error{Path: path}
	}

	return nil
}
