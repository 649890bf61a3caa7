package shred

import (
	"io/fs"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz"

// maxNameAttempts bounds the search for a replacement name that does not
// already exist in the directory.
const maxNameAttempts = 32

// RemoveMethod selects what happens to a file entry after its content is destroyed.
type RemoveMethod string

const (
	RemoveNone     RemoveMethod = "none"
	RemoveUnlink   RemoveMethod = "unlink"
	RemoveWipe     RemoveMethod = "wipe"
	RemoveWipeSync RemoveMethod = "wipesync"
)

// ParseRemoveMethod checks a removal method name. The empty string means none.
func ParseRemoveMethod(method string) (RemoveMethod, error) {
	if method == "" {
		return RemoveNone, nil
	}
	m := RemoveMethod(strings.ToLower(method))
	switch m {
	case RemoveNone, RemoveUnlink, RemoveWipe, RemoveWipeSync:
		return m, nil
	default:
		return "", errors.Newf("unsupported removal method: %s (expected unlink, wipe or wipesync)", method)
	}
}

// RandomName returns n letters drawn independently and uniformly from a-z.
func RandomName(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(nameAlphabet[mrand.IntN(len(nameAlphabet))])
	}
	return b.String()
}

// Obscurer renames files to random names before unlinking them.
type Obscurer struct {
	newName func(n int) string
	syncDir func(dir string) error
	logger  *zap.Logger
}

// ObscurerOption configures an Obscurer.
type ObscurerOption func(*Obscurer)

func WithObscurerLogger(logger *zap.Logger) ObscurerOption {
	return func(o *Obscurer) {
		if logger != nil {
			o.logger = logger.Named("obscure")
		}
	}
}

// WithNameGenerator replaces RandomName.
func WithNameGenerator(gen func(n int) string) ObscurerOption {
	return func(o *Obscurer) {
		if gen != nil {
			o.newName = gen
		}
	}
}

func NewObscurer(opts ...ObscurerOption) *Obscurer {
	o := &Obscurer{
		newName: RandomName,
		syncDir: syncDirectory,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ObscureAndRemove uses a default Obscurer.
func ObscureAndRemove(path string, syncDir bool) error {
	return NewObscurer().ObscureAndRemove(path, syncDir)
}

// ObscureAndRemove renames path to a random name of the same length in the
// same directory, optionally syncs the directory, then unlinks it.
//
// A rename failure leaves the file under its original name (Op == OpRename).
// An unlink failure leaves it under the random name, reported in Residual.
func (o *Obscurer) ObscureAndRemove(path string, syncDir bool) error {
	dir, name := filepath.Split(path)
	if !validBaseName(name) {
		return newError(KindInvalidName, OpName, path, nil)
	}
	if dir == "" {
		dir = "."
	}

	newPath, err := o.pickName(dir, len(name))
	if err != nil {
		return ioError(OpName, path, err)
	}

	if err := os.Rename(path, newPath); err != nil {
		return ioError(OpRename, path, err)
	}
	o.logger.Debug("Renamed before removal", zap.String("path", path), zap.String("new_path", newPath))

	if syncDir {
		if err := o.syncDir(dir); err != nil {
			e := ioError(OpDirSync, path, err)
			e.Residual = newPath
			return e
		}
	}

	if err := os.Remove(newPath); err != nil {
		e := ioError(OpUnlink, path, err)
		e.Residual = newPath
		return e
	}
	return nil
}

// Remove drops path according to method. RemoveNone is a no-op.
func (o *Obscurer) Remove(path string, method RemoveMethod) error {
	switch method {
	case RemoveNone, "":
		return nil
	case RemoveUnlink:
		if err := os.Remove(path); err != nil {
			return ioError(OpUnlink, path, err)
		}
		return nil
	case RemoveWipe:
		return o.ObscureAndRemove(path, false)
	case RemoveWipeSync:
		return o.ObscureAndRemove(path, true)
	default:
		return ioError(OpUnlink, path, errors.Newf("unsupported removal method: %s", method))
	}
}

func (o *Obscurer) pickName(dir string, n int) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		candidate := filepath.Join(dir, o.newName(n))
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.Newf("no unused name of length %d after %d attempts", n, maxNameAttempts)
}

func validBaseName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsRune(name, filepath.Separator)
}
