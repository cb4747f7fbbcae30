// SPDX-License-Identifier: MPL-2.0

// Package inx inspects INX templates, the unstamped form of driver INF files.
package inx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	versionSection = "[version]"
	classKey       = "class"
	sampleClass    = "sample"
)

// HasSampleClass reports whether the template declares Class=Sample in its
// [Version] section. Matching is case-insensitive, surrounding whitespace is
// ignored, comment (;) and blank lines are skipped, and the value must be
// exactly "Sample".
func HasSampleClass(r io.Reader) (bool, error) {
	sc := bufio.NewScanner(r)
	inVersion := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		lower := strings.ToLower(line)
		if lower == versionSection {
			inVersion = true
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inVersion = false
			continue
		}

		if !inVersion {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), classKey) && strings.EqualFold(strings.TrimSpace(value), sampleClass) {
			return true, nil
		}
	}
	if err := sc.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// FileHasSampleClass opens path and runs HasSampleClass on it.
func FileHasSampleClass(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open inx: %w", err)
	}
	defer f.Close()

	ok, err := HasSampleClass(f)
	if err != nil {
		return false, fmt.Errorf("read inx %s: %w", path, err)
	}
	return ok, nil
}
