package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skin-animator/internal/editor"
	"skin-animator/internal/rig"
	"skin-animator/internal/sheet"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "animate", cmd.Use)

	for _, name := range []string{"render", "inspect", "builtins"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	cfgFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfgFlag)
	assert.Equal(t, "c", cfgFlag.Shorthand)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "", levelFlag.DefValue)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func smallConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "animate.yaml")
	body := "logLevel: \"off\"\nviewport: {width: 64, height: 48}\nthumbnail: {width: 32, height: 24}\nsupersample: 1\nfps: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestBuiltinsCommand(t *testing.T) {
	out, err := execute(t, "builtins")
	require.NoError(t, err)
	assert.Equal(t, "builtin:chain\nbuiltin:tee\n", out)
}

func TestInspectTee(t *testing.T) {
	out, err := execute(t, "--config", smallConfig(t), "inspect", "builtin:tee")
	require.NoError(t, err)

	assert.Contains(t, out, "Rig tee: 3 bones")
	assert.Contains(t, out, "Mesh: ")
	assert.Contains(t, out, "Timeline: 4 keyframes, max time 3")
	assert.Contains(t, out, "   1 L 0.2500")
	assert.Contains(t, out, "   3 L 1.0000")
}

func TestInspectUnknownRig(t *testing.T) {
	_, err := execute(t, "--config", smallConfig(t), "inspect", "builtin:nothing")
	assert.Error(t, err)
}

func TestRenderChain(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--config", smallConfig(t), "render", "--output", dir, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 16/16 images")

	sceneDir := filepath.Join(dir, "chain")
	for _, name := range []string{sheet.KeyframeName(0), sheet.KeyframeName(3), sheet.FrameName(0), sheet.FrameName(11)} {
		assert.FileExists(t, filepath.Join(sceneDir, name+".webp"))
	}
	assert.NoFileExists(t, filepath.Join(sceneDir, sheet.FrameName(12)+".webp"))

	data, err := os.ReadFile(filepath.Join(sceneDir, "manifest.json"))
	require.NoError(t, err)
	var m sheet.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "chain", m.Scene)
	assert.Len(t, m.Keyframes, 4)
	assert.Len(t, m.Frames, 12)
	assert.Equal(t, 3.0, m.MaxTime)
	assert.InDelta(t, 1.0/3, m.Keyframes[1].Time, 1e-12)
}

func TestRenderNoFrames(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--config", smallConfig(t), "render", "builtin:tee", "-o", dir, "--no-frames")
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 4/4 images")
	assert.NoDirExists(t, filepath.Join(dir, "tee", "frames"))
}

func TestScriptFullTimelineIsQuiet(t *testing.T) {
	scene, err := rig.Open(DefaultRig, nil)
	require.NoError(t, err)
	require.Greater(t, len(scene.Poses), 2)

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)
	ed := editor.New(editor.Options{Width: 64, Height: 48, MaxKeyframes: 2, Logger: log})

	require.NoError(t, runScript(ed, scene, log))
	assert.Equal(t, 2, ed.Store().Len())
	assert.NotContains(t, buf.String(), "pose skipped")
	assert.Contains(t, buf.String(), "pose script done")

	buf.Reset()
	log = zerolog.New(&buf).Level(zerolog.DebugLevel)
	ed = editor.New(editor.Options{Width: 64, Height: 48, MaxKeyframes: 2, Logger: log})
	require.NoError(t, runScript(ed, scene, log))
	assert.Equal(t, len(scene.Poses)-2, strings.Count(buf.String(), "pose skipped"))
	assert.NotContains(t, buf.String(), `"level":"warn"`)
}
