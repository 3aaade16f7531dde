package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/buildreloc/internal/config"
	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
)

// newFlutterProject lays out <dir>/android with a settings script and a
// configuration file at <dir>/buildreloc.yaml.
func newFlutterProject(t *testing.T, extraConfig string) string {
	t.Helper()
	dir := t.TempDir()
	android := filepath.Join(dir, "android")
	require.NoError(t, os.MkdirAll(android, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(android, "settings.gradle.kts"), []byte(`
rootProject.name = "android"
include(":app")
include(":plugins:camera")
`), 0o600))

	cfg := "root:\n  dir: android\n" + extraConfig
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte(cfg), 0o600))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("buildreloc"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = ctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

func TestRelocate_RecordsLayout(t *testing.T) {
	dir := newFlutterProject(t, "history:\n  path: state/history.db\nmetrics:\n  file: metrics.prom\n")

	out, err := run(t, "-C", dir, "relocate", "--mkdir")
	require.NoError(t, err)

	build := filepath.Join(dir, "build")
	require.Contains(t, out, build)
	require.Contains(t, out, filepath.Join(build, "app"))
	require.Contains(t, out, filepath.Join(build, "camera"))
	require.DirExists(t, filepath.Join(build, "app"))
	require.DirExists(t, filepath.Join(build, "camera"))

	metricsOut, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	require.Contains(t, string(metricsOut), "buildreloc_")

	history, err := run(t, "-C", dir, "history", "--json")
	require.NoError(t, err)
	var events []struct {
		Type    string `json:"type"`
		Project string `json:"project"`
		Path    string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(history), &events))
	require.Len(t, events, 3)
	for _, e := range events {
		require.Equal(t, "relocated", e.Type)
	}
}

func TestRelocate_OffsetOverride(t *testing.T) {
	dir := newFlutterProject(t, "")
	shared := filepath.Join(t.TempDir(), "out")

	out, err := run(t, "-C", dir, "relocate", "--offset", shared, "--format", "json")
	require.NoError(t, err)

	var layout struct {
		Root struct {
			Dir string `json:"dir"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	require.Equal(t, shared, layout.Root.Dir)
}

func TestRelocate_InvalidOffset(t *testing.T) {
	dir := newFlutterProject(t, "")

	_, err := run(t, "-C", dir, "relocate", "--offset", "bad\x00offset")
	require.Error(t, err)
	require.Equal(t, relerrors.CategoryValidation, relerrors.GetCategory(err))
}

func TestLayout_Formats(t *testing.T) {
	dir := newFlutterProject(t, "")

	out, err := run(t, "-C", dir, "layout", "--format", "markdown")
	require.NoError(t, err)
	require.Contains(t, out, "| **android** |")
	require.NoDirExists(t, filepath.Join(dir, "build"))

	_, err = run(t, "-C", dir, "layout", "--format", "yaml")
	require.Error(t, err)
}

func TestLayout_ExplicitSubprojects(t *testing.T) {
	dir := newFlutterProject(t, "subprojects: [app, feature]\n")

	out, err := run(t, "-C", dir, "layout")
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join(dir, "build", "feature"))
	require.NotContains(t, out, "camera")
}

func TestLayout_WithoutSettingsFile(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "-C", dir, "layout", "--format", "json")
	require.NoError(t, err)

	var layout struct {
		Root struct {
			Project string `json:"project"`
			Dir     string `json:"dir"`
		} `json:"root"`
		Subprojects []any `json:"subprojects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	require.Equal(t, filepath.Base(dir), layout.Root.Project)
	require.Equal(t, filepath.Join(filepath.Dir(dir), "build"), layout.Root.Dir)
	require.Empty(t, layout.Subprojects)
}

func TestClean(t *testing.T) {
	dir := newFlutterProject(t, "history:\n  path: history.db\n")
	appOut := filepath.Join(dir, "build", "app", "outputs")
	require.NoError(t, os.MkdirAll(appOut, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(appOut, "app.apk"), []byte("apk"), 0o600))

	out, err := run(t, "-C", dir, "clean", "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "would delete "+filepath.Join(dir, "build"))
	require.DirExists(t, appOut)

	out, err = run(t, "-C", dir, "clean")
	require.NoError(t, err)
	require.Contains(t, out, "deleted")
	require.NoDirExists(t, filepath.Join(dir, "build"))

	// Cleaning an already-clean tree succeeds.
	_, err = run(t, "-C", dir, "clean")
	require.NoError(t, err)

	history, err := run(t, "-C", dir, "history")
	require.NoError(t, err)
	require.Contains(t, history, "cleaned")
	require.NotContains(t, history, "clean_failed")
}

func TestClean_RefusesProjectDirectory(t *testing.T) {
	dir := newFlutterProject(t, "output:\n  offset: ..\n")

	_, err := run(t, "-C", dir, "clean")
	require.Error(t, err)
	require.Equal(t, relerrors.CategoryValidation, relerrors.GetCategory(err))
	require.FileExists(t, filepath.Join(dir, "android", "settings.gradle.kts"))
}

func TestHistory_RequiresPath(t *testing.T) {
	dir := newFlutterProject(t, "")

	_, err := run(t, "-C", dir, "history")
	require.Error(t, err)
	require.True(t, relerrors.IsCategory(err, relerrors.CategoryConfig))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "-C", dir, "init")
	require.NoError(t, err)
	require.Contains(t, out, "initialized successfully")
	require.FileExists(t, filepath.Join(dir, config.DefaultFileName))

	_, err = run(t, "-C", dir, "init")
	require.Error(t, err)

	_, err = run(t, "-C", dir, "init", "--force")
	require.NoError(t, err)
}

func TestWatchFiles(t *testing.T) {
	dir := newFlutterProject(t, "")
	cli := &CLI{Dir: dir}
	cfg, err := config.LoadOrDefault("", dir)
	require.NoError(t, err)

	files := watchFiles(cli, cfg)
	require.Equal(t, []string{
		filepath.Join(dir, config.DefaultFileName),
		filepath.Join(dir, "android", "settings.gradle.kts"),
		filepath.Join(dir, "android", "settings.gradle"),
	}, files)

	cfg.SettingsFile = "custom.settings.gradle"
	files = watchFiles(&CLI{Config: "/etc/buildreloc.yaml", Dir: dir}, cfg)
	require.Equal(t, []string{"/etc/buildreloc.yaml", filepath.Join(dir, "android", "custom.settings.gradle")}, files)
}
