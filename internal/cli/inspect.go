package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"skin-animator/internal/config"
	"skin-animator/internal/editor"
	"skin-animator/internal/logging"
	"skin-animator/internal/rig"
	"skin-animator/internal/skeleton"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	var script bool

	cmd := &cobra.Command{
		Use:          "inspect [rig]",
		Short:        "Print a rig's bone hierarchy and the timeline its pose script builds",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := DefaultRig
			if len(args) == 1 {
				ref = args[0]
			}
			return runInspect(cmd, rootOpts, ref, script)
		},
	}
	cmd.Flags().BoolVar(&script, "script", true, "run the pose script and print the timeline")
	return cmd
}

func runInspect(cmd *cobra.Command, rootOpts *RootOptions, ref string, script bool) error {
	cfg, err := loadConfig(rootOpts, config.Flags{})
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	scene, err := openScene(cmd.Context(), ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rig %s: %d bones\n", scene.Name, scene.Skeleton.Len())
	printHierarchy(out, scene.Skeleton)
	printMesh(out, scene.Mesh)

	if !script || len(scene.Poses) == 0 {
		return nil
	}
	ed := editor.New(editor.Options{
		Width:        cfg.Viewport.Width,
		Height:       cfg.Viewport.Height,
		Radius:       cfg.BoneRadius,
		MaxKeyframes: cfg.MaxKeyframes,
		Logger:       log,
		Notifier:     logging.NewNotifier(log),
	})
	if err := runScript(ed, scene, log); err != nil {
		return err
	}

	times, locked := ed.Store().Times(), ed.Store().Locked()
	fmt.Fprintf(out, "Timeline: %d keyframes, max time %.0f\n", len(times), ed.Store().MaxTime())
	for i, kf := range ed.Store().Keyframes() {
		mark := " "
		if locked[i] {
			mark = "L"
		}
		fmt.Fprintf(out, "  %2d %s %.4f %s\n", i, mark, times[i], kf.ID)
	}
	return nil
}

func printHierarchy(w io.Writer, s *skeleton.Skeleton) {
	for _, root := range s.Roots() {
		depth := map[int]int{}
		s.Walk(root, func(b *skeleton.Bone) {
			d := 0
			if !b.IsRoot() {
				d = depth[b.Parent] + 1
			}
			depth[b.ID] = d
			p, e := b.Position, b.Endpoint
			fmt.Fprintf(w, "  %s#%d (%.2f %.2f %.2f) -> (%.2f %.2f %.2f) len %.3f\n",
				strings.Repeat("  ", d), b.ID, p[0], p[1], p[2], e[0], e[1], e[2], b.Length())
		})
	}
}

func printMesh(w io.Writer, m *rig.Mesh) {
	if m == nil {
		fmt.Fprintln(w, "Mesh: none")
		return
	}
	tex := "none"
	if m.Texture != nil {
		tex = fmt.Sprintf("%dx%d", m.Texture.Bounds().Dx(), m.Texture.Bounds().Dy())
	}
	fmt.Fprintf(w, "Mesh: %d vertices, %d triangles, texture %s\n", len(m.Positions), len(m.Triangles), tex)
}
