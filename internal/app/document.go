package app

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/snapedit/internal/engine/buffer"
	"github.com/dshills/snapedit/internal/fileio"
)

// Document is the file being edited and its last saved content.
type Document struct {
	// Path is the file path (empty for scratch buffers).
	Path string

	info  fileio.Info
	saved buffer.Buffer
}

// OpenDocument loads path. A missing file opens as an empty new document;
// an empty path opens a scratch buffer.
func OpenDocument(path string) (*Document, buffer.Buffer, error) {
	if path == "" {
		buf := buffer.New(nil)
		return &Document{saved: buf}, buf, nil
	}

	lines, info, err := fileio.Load(path)
	if err != nil {
		return nil, buffer.Buffer{}, &OperationError{Op: "open", Target: path, Err: err}
	}

	buf := buffer.New(lines)
	return &Document{Path: path, info: info, saved: buf}, buf, nil
}

// Name returns the display name.
func (d *Document) Name() string {
	if d.Path == "" {
		return ""
	}
	return filepath.Base(d.Path)
}

// IsNew reports whether the file did not exist when opened.
func (d *Document) IsNew() bool {
	return d.Path != "" && !d.info.Exists
}

// IsModified reports whether buf differs from the last saved content.
func (d *Document) IsModified(buf buffer.Buffer) bool {
	return !d.saved.Equal(buf)
}

// Save writes buf to the document's path.
func (d *Document) Save(buf buffer.Buffer) error {
	if d.Path == "" {
		return fmt.Errorf("save: %w", ErrNoFileName)
	}
	if err := fileio.Save(buf.Lines(), d.info); err != nil {
		return err
	}
	d.info.Exists = true
	d.saved = buf
	return nil
}
