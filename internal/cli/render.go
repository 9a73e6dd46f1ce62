package cli

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"skin-animator/internal/config"
	"skin-animator/internal/editor"
	"skin-animator/internal/logging"
	"skin-animator/internal/raster"
	"skin-animator/internal/sheet"
	"skin-animator/internal/thumbnail"
)

// RenderOptions holds the render command flags.
type RenderOptions struct {
	OutputDir string
	FPS       float64
	Workers   int
	NoFrames  bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render [rig]",
		Short: "Capture the pose script and render thumbnails and playback frames",
		Long: `Render loads a rig file (or builtin:<name>), captures one keyframe per
scripted pose, plays the animation back at the configured frame rate and
writes keyframe thumbnails, playback frames and manifest.json below the
output directory.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := DefaultRig
			if len(args) == 1 {
				ref = args[0]
			}
			return runRender(cmd, rootOpts, opts, ref)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "output directory (default: renders)")
	cmd.Flags().Float64Var(&opts.FPS, "fps", 0, "playback sample rate (default: 30)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "encoder goroutines (default: NumCPU)")
	cmd.Flags().BoolVar(&opts.NoFrames, "no-frames", false, "skip playback frames")

	return cmd
}

func runRender(cmd *cobra.Command, rootOpts *RootOptions, opts *RenderOptions, ref string) error {
	cfg, err := loadConfig(rootOpts, config.Flags{OutputDir: opts.OutputDir, FPS: opts.FPS, Workers: opts.Workers})
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	scene, err := openScene(cmd.Context(), ref)
	if err != nil {
		return err
	}

	renderer := raster.NewRenderer(cfg.Viewport.Width, cfg.Viewport.Height)
	capturer := thumbnail.NewCapturer(renderer, cfg.Supersample)
	capturer.Width, capturer.Height = cfg.Thumbnail.Width, cfg.Thumbnail.Height
	rec := &sheet.Recorder{}

	ed := editor.New(editor.Options{
		Width:        cfg.Viewport.Width,
		Height:       cfg.Viewport.Height,
		Radius:       cfg.BoneRadius,
		MaxKeyframes: cfg.MaxKeyframes,
		Logger:       log,
		Notifier:     logging.NewNotifier(log),
		Thumbnailer:  capturer,
		Recorder:     rec,
	})
	if err := runScript(ed, scene, log); err != nil {
		return err
	}

	var images []sheet.Image
	for i, kf := range ed.Store().Keyframes() {
		if kf.Thumbnail != nil {
			images = append(images, sheet.Image{Name: sheet.KeyframeName(i), Image: kf.Thumbnail})
		}
	}

	var frames []*image.NRGBA
	if !opts.NoFrames {
		frames, err = recordPlayback(ed, rec, capturer, cfg)
		if err != nil {
			return err
		}
	}
	for i, img := range frames {
		images = append(images, sheet.Image{Name: sheet.FrameName(i), Image: img})
	}

	outDir := filepath.Join(cfg.OutputDir, scene.Name)
	start := time.Now()
	results := sheet.Write(sheet.Config{OutputDir: outDir, Workers: cfg.Workers, Logger: log}, images)

	manifest := sheet.NewManifest(scene.Name, cfg.FPS, ed.Store())
	manifest.AddFrames(len(frames))
	if err := sheet.WriteManifest(filepath.Join(outDir, "manifest.json"), manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	failed := sheet.Failed(results)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rendered %d/%d images to %s in %.1fs\n", len(results)-len(failed), len(results), outDir, time.Since(start).Seconds())
	for _, r := range failed {
		fmt.Fprintf(out, "  %s: %s\n", r.Name, r.Error)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d images failed", len(failed))
	}
	return nil
}

// recordPlayback plays the timeline from the start with recording on and
// renders one viewport frame per 1/fps step until playback stops.
func recordPlayback(ed *editor.Editor, rec *sheet.Recorder, capturer *thumbnail.Capturer, cfg config.Config) ([]*image.NRGBA, error) {
	if ed.Store().Len() < 2 {
		return nil, nil
	}
	ed.Scrub(1)
	if err := ed.TogglePlayback(true); err != nil {
		return nil, err
	}

	dt := 1 / cfg.FPS
	limit := int(math.Ceil(ed.Store().MaxTime()*cfg.FPS)) + 1
	for step := 0; step < limit; step++ {
		advance := dt
		if step == 0 {
			advance = 0
		}
		if err := ed.Frame(advance); err != nil {
			return nil, err
		}
		if !rec.Recording() {
			break
		}
		rec.Add(capturer.Render(ed.Scene(), ed.Camera(), cfg.Viewport.Width, cfg.Viewport.Height))
	}
	if ed.Player().Playing() {
		if err := ed.TogglePlayback(false); err != nil {
			return nil, err
		}
	}
	return rec.Frames(), nil
}
