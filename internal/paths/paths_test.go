package paths

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
)

func TestNewDirectoryPath(t *testing.T) {
	p, err := NewDirectoryPath("/proj/android/")
	require.NoError(t, err)
	require.Equal(t, "/proj/android", p.String())

	_, err = NewDirectoryPath("")
	var ipe *InvalidPathError
	require.ErrorAs(t, err, &ipe)
	require.Equal(t, "new", ipe.Op)
}

func TestResolve(t *testing.T) {
	base := MustDirectoryPath("/proj/android/build")

	tests := []struct {
		name   string
		offset string
		want   string
	}{
		{"upward", "../../build", "/proj/build"},
		{"sideways", "../out", "/proj/android/out"},
		{"nested", "gen/classes", "/proj/android/build/gen/classes"},
		{"absolute", "/var/cache/build", "/var/cache/build"},
		{"clamped at root", "../../../../../x", "/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.Resolve(tt.offset)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	base := MustDirectoryPath("/proj")

	for _, offset := range []string{"", "a\x00b", "$HOME/build"} {
		_, err := base.Resolve(offset)
		var ipe *InvalidPathError
		require.ErrorAs(t, err, &ipe, "offset %q", offset)
		require.Equal(t, "resolve", ipe.Op)
	}

	_, err := DirectoryPath{}.Resolve("build")
	require.Error(t, err)
}

func TestResolve_Deterministic(t *testing.T) {
	base := MustDirectoryPath("/proj/android/build")
	a, err := base.Resolve("../../build")
	require.NoError(t, err)
	b, err := base.Resolve("../../build")
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestChild(t *testing.T) {
	root := MustDirectoryPath("/proj/build")

	app, err := root.Child("app")
	require.NoError(t, err)
	require.Equal(t, "/proj/build/app", app.String())
	require.True(t, root.Contains(app))

	for _, seg := range []string{"", ".", "..", "a/b", `a\b`, "x\x00", "$name"} {
		_, err := root.Child(seg)
		var ipe *InvalidPathError
		require.ErrorAs(t, err, &ipe, "segment %q", seg)
		require.Equal(t, seg, ipe.Segment)
	}
}

func TestInvalidPathError_Category(t *testing.T) {
	_, err := MustDirectoryPath("/proj").Child("")
	require.Equal(t, relerrors.CategoryValidation, relerrors.GetCategory(err))

	var ipe *InvalidPathError
	require.True(t, errors.As(err, &ipe))
	require.Contains(t, err.Error(), "/proj")
}

func TestIsRootAndContains(t *testing.T) {
	require.True(t, MustDirectoryPath("/").IsRoot())
	require.False(t, MustDirectoryPath("/proj").IsRoot())
	require.False(t, MustDirectoryPath(".").IsRoot())

	proj := MustDirectoryPath("/proj")
	require.True(t, proj.Contains(proj))
	require.True(t, proj.Contains(MustDirectoryPath("/proj/build/app")))
	require.False(t, proj.Contains(MustDirectoryPath("/project")))
	require.False(t, proj.Contains(MustDirectoryPath("/")))
	require.False(t, proj.Contains(DirectoryPath{}))
}
