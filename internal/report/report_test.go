package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/buildreloc/internal/paths"
	"git.home.luguber.info/inful/buildreloc/internal/project"
	"git.home.luguber.info/inful/buildreloc/internal/relocate"
)

func testLayout(t *testing.T) *relocate.Layout {
	t.Helper()
	tree, err := project.FromNames("android", []string{"app", ":plugins:camera"})
	require.NoError(t, err)
	layout, err := relocate.New().RelocateTree(tree, paths.MustDirectoryPath("/proj/android"), "../../build")
	require.NoError(t, err)
	return layout
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatText,
		"TEXT":     FormatText,
		"json":     FormatJSON,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		" html ":   FormatHTML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFormat("yaml")
	require.Error(t, err)
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testLayout(t), FormatText))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "OUTPUT DIRECTORY")
	require.Contains(t, lines[1], "/proj/build")
	require.Contains(t, lines[2], "/proj/build/app")
	require.Contains(t, lines[3], "/proj/build/camera")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testLayout(t), FormatJSON))

	var got struct {
		Root struct {
			Project string `json:"project"`
			Dir     string `json:"dir"`
			Root    bool   `json:"root"`
		} `json:"root"`
		Subprojects []struct {
			GradlePath string `json:"gradle_path"`
			Dir        string `json:"dir"`
		} `json:"subprojects"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "android", got.Root.Project)
	require.Equal(t, "/proj/build", got.Root.Dir)
	require.True(t, got.Root.Root)
	require.Len(t, got.Subprojects, 2)
	require.Equal(t, ":plugins:camera", got.Subprojects[1].GradlePath)
	require.Equal(t, "/proj/build/camera", got.Subprojects[1].Dir)
}

func TestRender_Markdown(t *testing.T) {
	md := Markdown(testLayout(t))
	require.Contains(t, md, "| **android** | `:` | `/proj/build` |")
	require.Contains(t, md, "| app | `:app` | `/proj/build/app` |")
}

func TestRender_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testLayout(t), FormatHTML))

	out := buf.String()
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<strong>android</strong>")
	require.Contains(t, out, "<code>/proj/build/camera</code>")
}

func TestRender_BacktickInPath(t *testing.T) {
	tree, err := project.FromNames("android", []string{"app"})
	require.NoError(t, err)
	layout, err := relocate.New().RelocateTree(tree, paths.MustDirectoryPath("/proj/we`ird/android"), "../../build")
	require.NoError(t, err)

	md := Markdown(layout)
	require.Contains(t, md, "| app | `:app` | `` /proj/we`ird/build/app `` |")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, layout, FormatHTML))
	require.Contains(t, buf.String(), "<code>/proj/we`ird/build</code>")
	require.Contains(t, buf.String(), "<code>/proj/we`ird/build/app</code>")
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Render(&buf, nil, FormatText))
	require.Error(t, Render(&buf, testLayout(t), Format("xml")))
}
