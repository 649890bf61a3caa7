package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"fileshred/internal/config"
	"fileshred/internal/logging"
	"fileshred/internal/security"
	"fileshred/internal/shred"
)

// Shredder drives validation, overwrite passes and removal over a file list.
type Shredder struct {
	cfg       *config.Config
	logger    *logging.Logger
	out       io.Writer
	validator *shred.Validator
	engine    *shred.Engine
	obscurer  *shred.Obscurer
}

// Deps are the collaborators a Shredder reports to. Every field is optional.
type Deps struct {
	Logger   *logging.Logger
	Out      io.Writer
	Confirm  shred.Confirmer
	Warn     func(path, msg string)
	Progress shred.ProgressSink
}

// NewShredder builds a Shredder from cfg. cfg must already be validated.
func NewShredder(cfg *config.Config, deps Deps) *Shredder {
	if deps.Logger == nil {
		deps.Logger = logging.NewWithZap(nil)
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	zl := deps.Logger.Zap().Named("shred")

	engineOpts := []shred.EngineOption{
		shred.WithBufferSize(cfg.Shred.BufferSize),
		shred.WithMaxSpeed(cfg.Shred.MaxSpeedMBps),
		shred.WithEngineLogger(zl),
	}
	if !cfg.Shred.Quiet && deps.Progress != nil {
		engineOpts = append(engineOpts, shred.WithProgress(deps.Progress))
	}

	return &Shredder{
		cfg:    cfg,
		logger: deps.Logger,
		out:    deps.Out,
		validator: shred.NewValidator(
			shred.WithConfirmer(deps.Confirm),
			shred.WithWarner(deps.Warn),
			shred.WithValidatorLogger(zl),
		),
		engine:   shred.NewEngine(engineOpts...),
		obscurer: shred.NewObscurer(shred.WithObscurerLogger(zl)),
	}
}

// Run validates every path before touching any of them, then shreds them in
// order. It stops at the first failure; files already shredded stay shredded.
// The returned operations cover every path, including ones never started.
func (s *Shredder) Run(ctx context.Context, paths []string) ([]*FileOperation, error) {
	ops := make([]*FileOperation, len(paths))
	for i, path := range paths {
		ops[i] = s.newOperation(path)
	}

	for i, path := range paths {
		if err := s.admit(path); err != nil {
			markError(ops[i], err)
			ops[i].finish(StatusRejected)
			s.logger.Log("ERROR", "File rejected", "path", path, "error", err.Error())
			finishPending(ops, StatusSkipped)
			return ops, err
		}
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			finishPending(ops, StatusCancelled)
			return ops, err
		}

		if err := s.shredFile(ctx, ops[i]); err != nil {
			if ops[i].Status == StatusCancelled {
				finishPending(ops, StatusCancelled)
			} else {
				finishPending(ops, StatusSkipped)
			}
			s.logger.Log("ERROR", "Shred failed", "path", path, "error", err.Error())
			return ops, err
		}
	}

	return ops, nil
}

// admit runs the protected path gate followed by the validator.
func (s *Shredder) admit(path string) error {
	if root := security.ProtectedRoot(s.cfg, path); root != "" {
		return &shred.Error{
			Kind: shred.KindProtected,
			Op:   shred.OpStat,
			Path: path,
			Err:  errors.Newf("inside protected path %s", root),
		}
	}
	return s.validator.Validate(path, s.cfg.Shred.Force)
}

func (s *Shredder) shredFile(ctx context.Context, op *FileOperation) error {
	op.StartTime = time.Now()
	path := op.Path

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return s.fail(op, &shred.Error{Kind: shred.KindIO, Op: shred.OpOpen, Path: path, Err: errors.WithStack(err)})
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return s.fail(op, &shred.Error{Kind: shred.KindIO, Op: shred.OpStat, Path: path, Err: errors.WithStack(err)})
	}
	op.Size = info.Size()

	plan := shred.NewPlan(s.cfg.Shred.Passes, s.cfg.Shred.Zero)
	s.logger.Log("INFO", "Shredding file", "path", path, "size", op.Size, "passes", len(plan))

	for i, pass := range plan {
		if err := ctx.Err(); err != nil {
			f.Close()
			op.Error = err.Error()
			op.finish(StatusCancelled)
			return err
		}

		if pass.Final {
			s.printf("%s: Final pass (zeros)...\n", path)
		} else {
			s.printf("%s: Pass %d/%d (%s)...\n", path, i+1, s.cfg.Shred.Passes, pass.Mode)
		}

		if err := s.engine.Overwrite(f, op.Size, pass.Mode); err != nil {
			f.Close()
			return s.fail(op, err)
		}
		op.BytesWritten += uint64(op.Size)
	}

	if s.cfg.Shred.Verify && len(plan) > 0 && plan[len(plan)-1].Mode == shred.FillZero {
		if err := shred.VerifyZero(f, path, op.Size); err != nil {
			f.Close()
			return s.fail(op, err)
		}
		s.logger.Log("DEBUG", "Zero pass verified", "path", path)
	}

	if err := f.Close(); err != nil {
		return s.fail(op, &shred.Error{Kind: shred.KindIO, Op: shred.OpClose, Path: path, Err: errors.WithStack(err)})
	}

	s.printf("Shredded '%s' (%d bytes)...\n", path, op.Size)

	method := s.cfg.RemoveMethod()
	if method != shred.RemoveNone {
		if err := s.obscurer.Remove(path, method); err != nil {
			return s.fail(op, err)
		}
		op.Removed = true
		s.printf("File '%s' removed.\n", path)
	}

	op.finish(StatusCompleted)
	s.logger.Log("INFO", "File shredded", "path", path, "bytes_written", op.BytesWritten, "removed", op.Removed)
	return nil
}

func (s *Shredder) newOperation(path string) *FileOperation {
	return &FileOperation{
		ID:       uuid.NewString(),
		Path:     path,
		Passes:   s.cfg.Shred.Passes,
		ZeroPass: s.cfg.Shred.Zero,
		Remove:   string(s.cfg.RemoveMethod()),
		Status:   StatusPending,
	}
}

func (s *Shredder) fail(op *FileOperation, err error) error {
	markError(op, err)
	op.finish(StatusFailed)
	return err
}

func (s *Shredder) printf(format string, args ...interface{}) {
	if s.cfg.Shred.Quiet {
		return
	}
	fmt.Fprintf(s.out, format, args...)
}

func markError(op *FileOperation, err error) {
	op.Error = err.Error()
	if kind := shred.KindOf(err); kind != 0 {
		op.ErrorKind = kind.String()
	}
	var se *shred.Error
	if errors.As(err, &se) {
		op.Residual = se.Residual
	}
}

func finishPending(ops []*FileOperation, status string) {
	for _, op := range ops {
		if op.Status == StatusPending {
			op.finish(status)
		}
	}
}
