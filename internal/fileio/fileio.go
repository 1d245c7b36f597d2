// Package fileio loads documents into lines and writes them back.
//
// Lines keep their trailing newline, the shape the edit buffer expects. CRLF
// files are normalized to LF on load and restored on save; a UTF-8 byte
// order mark is stripped and restored the same way.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/snapedit/internal/engine/buffer"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LineEnding specifies the line ending style of a file on disk.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "CRLF"
	}
	return "LF"
}

// Info describes how a document was stored, so it can be saved the same way.
type Info struct {
	Path       string
	Exists     bool
	Mode       fs.FileMode
	LineEnding LineEnding
	BOM        bool
}

// Load reads path into lines. A file that does not exist loads as an empty
// document with Info.Exists false.
func Load(path string) ([]string, Info, error) {
	info := Info{Path: path, Mode: 0o644}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, info, nil
	}
	if err != nil {
		return nil, info, fmt.Errorf("reading %s: %w", path, err)
	}

	if st, err := os.Stat(path); err == nil {
		info.Mode = st.Mode().Perm()
	}
	info.Exists = true

	lines, info2 := Decode(data)
	info.LineEnding = info2.LineEnding
	info.BOM = info2.BOM
	return lines, info, nil
}

// Decode splits raw file content into lines.
func Decode(data []byte) ([]string, Info) {
	var info Info
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		info.BOM = true
	}

	text := string(data)
	if strings.Contains(text, "\r\n") {
		info.LineEnding = LineEndingCRLF
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return buffer.SplitLines(text), info
}

// Encode joins lines back into file content in the style described by info.
func Encode(lines iter.Seq[string], info Info) []byte {
	var b bytes.Buffer
	if info.BOM {
		b.Write(utf8BOM)
	}
	for line := range lines {
		if info.LineEnding == LineEndingCRLF {
			line = strings.ReplaceAll(line, "\n", "\r\n")
		}
		b.WriteString(line)
	}
	return b.Bytes()
}

// Save writes lines to info.Path atomically: the content goes to a
// temporary file in the same directory which then replaces the target.
func Save(lines iter.Seq[string], info Info) error {
	if info.Path == "" {
		return errors.New("save: no file name")
	}
	data := Encode(lines, info)

	dir := filepath.Dir(info.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(info.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", info.Path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op once renamed
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", info.Path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", info.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", info.Path, err)
	}

	mode := info.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("save %s: %w", info.Path, err)
	}
	if err := os.Rename(tmpName, info.Path); err != nil {
		return fmt.Errorf("save %s: %w", info.Path, err)
	}
	return nil
}
