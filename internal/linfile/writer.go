// Package linfile persists decoded LIN records to .lin files.
package linfile

import (
	"bbo2lin/internal/utils"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	// DefaultFile is used when no output path is given.
	DefaultFile = "hands.lin"
	// Ext is appended to output paths that carry no extension.
	Ext = ".lin"

	defFilePerm os.FileMode = 0o644
)

// ErrFilesystem wraps every read/write failure coming from the OS.
var ErrFilesystem = errors.New("filesystem error")

// Mode selects how a record lands in the target file.
type Mode int

const (
	// ModeAppend adds the record after existing content, newline separated.
	ModeAppend Mode = iota
	// ModeOverwrite replaces the file contents with the record.
	ModeOverwrite
)

func (m Mode) String() string {
	if m == ModeOverwrite {
		return "overwrite"
	}
	return "append"
}

// ResolvePath applies the default name and the .lin extension rule.
// A path that already has any extension is left untouched.
func ResolvePath(target string) string {
	if target == "" {
		return DefaultFile
	}
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	// ".hands" is a dotfile name, not an extension
	if ext == "" || ext == base {
		return target + Ext
	}
	return target
}

// LockFile is the single advisory lock shared by every write in LockDir.
const LockFile = "writes.lock"

// Writer writes records to disk. The zero value writes without locking.
type Writer struct {
	// LockDir, when set, holds the advisory lock file that serializes
	// writes from concurrent local runs.
	LockDir string
}

// Outcome describes a finished write.
type Outcome struct {
	// Path is the resolved output file.
	Path string
	// Existed is whether Path was on disk before the write, observed
	// while holding the lock.
	Existed bool
	// Size is the file size after the write.
	Size int64
}

// Write stores text into the resolved target and returns that path.
func (w *Writer) Write(text, target string, mode Mode) (string, error) {
	out, err := w.Put(text, target, mode)
	return out.Path, err
}

// Put is Write plus the pre-write existence and final size of the file,
// both taken under the same lock as the write itself.
func (w *Writer) Put(text, target string, mode Mode) (Outcome, error) {
	out := Outcome{Path: ResolvePath(target)}

	if w != nil && w.LockDir != "" {
		lock := flock.New(filepath.Join(w.LockDir, LockFile))
		if err := lock.Lock(); err != nil {
			return out, fmt.Errorf("%w: locking %s: %w", ErrFilesystem, out.Path, err)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				utils.Debug("Failed to release write lock: %v", err)
			}
		}()
	}

	out.Existed = Exists(out.Path)

	var err error
	switch mode {
	case ModeOverwrite:
		err = os.WriteFile(out.Path, []byte(text), defFilePerm)
	default:
		err = appendRecord(out.Path, text)
	}
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	info, err := os.Stat(out.Path)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	out.Size = info.Size()

	utils.Debug("Wrote %d bytes to %s (%s)", len(text), out.Path, mode)
	return out, nil
}

func appendRecord(path, text string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, defFilePerm)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() > 0 {
		text = "\n" + text
	}

	if _, err := file.WriteString(text); err != nil {
		return err
	}
	return file.Close()
}

// Exists reports whether path is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
