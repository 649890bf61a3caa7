package shred

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Confirmer asks the operator whether prompt should proceed.
type Confirmer func(prompt string) (bool, error)

// LineConfirmer writes the prompt to out and reads one line from in. Only a
// trimmed, case-insensitive "y" confirms; anything else, including EOF, declines.
func LineConfirmer(in io.Reader, out io.Writer) Confirmer {
	reader := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		fmt.Fprintln(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(line), "y"), nil
	}
}

// Validator decides whether a path may be overwritten.
type Validator struct {
	confirm Confirmer
	warn    func(path, msg string)
	logger  *zap.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithConfirmer sets the callback used when force is false.
func WithConfirmer(c Confirmer) ValidatorOption {
	return func(v *Validator) { v.confirm = c }
}

// WithWarner receives non-fatal advisories such as an empty file.
func WithWarner(w func(path, msg string)) ValidatorOption {
	return func(v *Validator) { v.warn = w }
}

func WithValidatorLogger(logger *zap.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger.Named("validator")
		}
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the admission checks for path in order and returns the first
// failure as an *Error. Without force, a Confirmer must approve the path; if
// none is configured the path is declined.
func (v *Validator) Validate(path string, force bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(KindNotFound, OpStat, path, nil)
		}
		return ioError(OpStat, path, err)
	}

	linfo, err := os.Lstat(path)
	if err != nil {
		return ioError(OpStat, path, err)
	}
	if linfo.Mode()&fs.ModeSymlink != 0 {
		return newError(KindRefusedSymlink, OpStat, path, nil)
	}

	if !info.Mode().IsRegular() {
		return newError(KindNotAFile, OpStat, path, nil)
	}

	if info.Mode().Perm()&0o222 == 0 {
		return newError(KindReadOnly, OpStat, path, nil)
	}

	if info.Size() == 0 {
		v.logger.Warn("File is empty", zap.String("path", path))
		if v.warn != nil {
			v.warn(path, fmt.Sprintf("File '%s' is empty.", path))
		}
	}

	if force {
		return nil
	}

	if v.confirm == nil {
		return newError(KindAbortedByUser, OpConfirm, path, nil)
	}
	ok, err := v.confirm(fmt.Sprintf("Are you sure you want to shred '%s'? (y/N)", path))
	if err != nil {
		return ioError(OpConfirm, path, err)
	}
	if !ok {
		v.logger.Info("Shred declined", zap.String("path", path))
		return newError(KindAbortedByUser, OpConfirm, path, nil)
	}
	return nil
}
