package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/buildreloc/internal/gradle"
	"git.home.luguber.info/inful/buildreloc/internal/paths"
)

func TestNode_Lifecycle(t *testing.T) {
	n := NewNode("app", ":app")
	require.False(t, n.Configured())
	require.True(t, n.OutputDirectory().IsZero())

	dir := paths.MustDirectoryPath("/proj/build/app")
	require.NoError(t, n.SetOutputDirectory(dir))
	require.True(t, n.Configured())
	require.Equal(t, "/proj/build/app", n.OutputDirectory().String())

	// Same value again is fine; a different value is not.
	require.NoError(t, n.SetOutputDirectory(dir))
	err := n.SetOutputDirectory(paths.MustDirectoryPath("/elsewhere/app"))
	require.ErrorIs(t, err, ErrReconfigured)
	require.Equal(t, "/proj/build/app", n.OutputDirectory().String())

	require.Error(t, n.SetOutputDirectory(paths.DirectoryPath{}))

	require.True(t, n.ProjectDirectory().IsZero())
	n.SetProjectDirectory(paths.MustDirectoryPath("/proj/android/app"))
	require.Equal(t, "/proj/android/app", n.ProjectDirectory().String())
}

func TestNewTree_Duplicates(t *testing.T) {
	root := NewNode("android", ":")
	_, err := NewTree(root, NewNode("login", ":feature:login"), NewNode("login", ":auth:login"))

	var dup *DuplicateProjectError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "login", dup.Name)
	require.Equal(t, []string{":feature:login", ":auth:login"}, dup.Paths)
}

func TestFromNames(t *testing.T) {
	tree, err := FromNames("android", []string{"app", ":feature:login"})
	require.NoError(t, err)
	require.Equal(t, "android", tree.Root().Name())

	subs := tree.Subprojects()
	require.Len(t, subs, 2)
	require.Equal(t, "app", subs[0].Name())
	require.Equal(t, ":app", subs[0].Path())
	require.Equal(t, "login", subs[1].Name())
	require.Len(t, tree.All(), 3)
}

func TestDiscover(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "android")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, gradle.SettingsFileKotlin),
		[]byte("include(\":app\", \":plugin\")\n"), 0o600))

	tree, err := Discover(dir, "")
	require.NoError(t, err)
	require.Equal(t, "android", tree.Root().Name())
	require.Len(t, tree.Subprojects(), 2)

	_, err = Discover(t.TempDir(), "")
	require.ErrorIs(t, err, gradle.ErrNoSettingsFile)
}

func TestDiscover_ExplicitSettingsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.gradle"),
		[]byte("rootProject.name = 'shop'\ninclude ':app'\n"), 0o600))

	tree, err := Discover(dir, "custom.gradle")
	require.NoError(t, err)
	require.Equal(t, "shop", tree.Root().Name())
	require.Equal(t, "app", tree.Subprojects()[0].Name())
}
