package shred

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRandomName(t *testing.T) {
	for _, n := range []int{0, 1, 8, 255} {
		name := RandomName(n)
		assert.Len(t, name, n)
		for _, c := range name {
			assert.True(t, c >= 'a' && c <= 'z', "unexpected character %q", c)
		}
	}

	assert.NotEqual(t, RandomName(32), RandomName(32))
}

func TestObscureAndRemove(t *testing.T) {
	for _, syncDir := range []bool{false, true} {
		t.Run(map[bool]string{false: "no sync", true: "dir sync"}[syncDir], func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "secret-report.pdf")
			require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

			var generated []string
			o := NewObscurer(
				WithObscurerLogger(zaptest.NewLogger(t)),
				WithNameGenerator(func(n int) string {
					name := RandomName(n)
					generated = append(generated, name)
					return name
				}),
			)

			require.NoError(t, o.ObscureAndRemove(path, syncDir))

			assert.Empty(t, listDir(t, dir))
			require.Len(t, generated, 1)
			assert.Len(t, generated[0], len("secret-report.pdf"))
		})
	}
}

func TestObscureAndRemoveRelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("plain.txt", []byte("x"), 0644))

	require.NoError(t, ObscureAndRemove("plain.txt", true))
	assert.Empty(t, listDir(t, dir))
}

func TestObscureAndRemoveInvalidName(t *testing.T) {
	for _, path := range []string{"/", "", "somedir/", ".", ".."} {
		err := ObscureAndRemove(path, false)
		assert.Equal(t, KindInvalidName, KindOf(err), "path %q", path)
		assert.ErrorIs(t, err, ErrInvalidName)
	}
}

func TestObscureAndRemoveRenameFailure(t *testing.T) {
	dir := t.TempDir()
	err := ObscureAndRemove(filepath.Join(dir, "missing.txt"), false)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindIO, se.Kind)
	assert.Equal(t, OpRename, se.Op)
	assert.Empty(t, se.Residual)
}

func TestObscureAndRemoveDirSyncFailureReportsResidual(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	o := NewObscurer(WithNameGenerator(func(n int) string { return strings.Repeat("q", n) }))
	o.syncDir = func(string) error { return errors.New("sync refused") }

	err := o.ObscureAndRemove(path, true)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpDirSync, se.Op)
	assert.Equal(t, filepath.Join(dir, "qqqqqqqq"), se.Residual)
	assert.Contains(t, err.Error(), "qqqqqqqq")

	assert.Equal(t, []string{"qqqqqqqq"}, listDir(t, dir))
}

func TestObscureAvoidsExistingNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc")
	bystander := filepath.Join(dir, "zzz")
	require.NoError(t, os.WriteFile(path, []byte("target"), 0644))
	require.NoError(t, os.WriteFile(bystander, []byte("keep me"), 0644))

	names := []string{"zzz", "abc", "yyy"}
	o := NewObscurer(WithNameGenerator(func(int) string {
		name := names[0]
		names = names[1:]
		return name
	}))

	require.NoError(t, o.ObscureAndRemove(path, false))

	assert.Equal(t, []string{"zzz"}, listDir(t, dir))
	data, err := os.ReadFile(bystander)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestObscureGivesUpWhenNoNameIsFree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	o := NewObscurer(WithNameGenerator(func(int) string { return "a" }))
	err := o.ObscureAndRemove(path, false)

	assert.Equal(t, KindIO, KindOf(err))
	assert.Equal(t, []string{"a"}, listDir(t, dir))
}

func TestRemoveMethods(t *testing.T) {
	tests := []struct {
		method RemoveMethod
		gone   bool
	}{
		{RemoveNone, false},
		{RemoveUnlink, true},
		{RemoveWipe, true},
		{RemoveWipeSync, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "file.txt")
			require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

			require.NoError(t, NewObscurer().Remove(path, tt.method))

			if tt.gone {
				assert.Empty(t, listDir(t, dir))
			} else {
				assert.Equal(t, []string{"file.txt"}, listDir(t, dir))
			}
		})
	}
}

func TestRemoveUnlinkMissing(t *testing.T) {
	err := NewObscurer().Remove(filepath.Join(t.TempDir(), "missing"), RemoveUnlink)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpUnlink, se.Op)
}

func TestParseRemoveMethod(t *testing.T) {
	for in, want := range map[string]RemoveMethod{
		"":         RemoveNone,
		"none":     RemoveNone,
		"unlink":   RemoveUnlink,
		"WIPE":     RemoveWipe,
		"wipesync": RemoveWipeSync,
	} {
		got, err := ParseRemoveMethod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseRemoveMethod("shred")
	assert.Error(t, err)
}
