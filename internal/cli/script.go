package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"skin-animator/internal/editor"
	"skin-animator/internal/rig"
	"skin-animator/internal/texture"
	"skin-animator/internal/timeline"
)

// DefaultRig is used when no rig argument is given.
const DefaultRig = rig.BuiltinPrefix + "chain"

func openScene(ctx context.Context, ref string) (*rig.Scene, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	res := <-rig.LoadAsync(ctx, ref, texture.NewCache())
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Scene, nil
}

// runScript installs scene into ed and captures one keyframe per scripted
// pose. Rejected captures are skipped; a full timeline only shows up in the
// debug log.
func runScript(ed *editor.Editor, scene *rig.Scene, log zerolog.Logger) error {
	ed.Install(scene)
	if err := ed.Frame(0); err != nil {
		return err
	}

	for n, pose := range scene.Poses {
		ed.Scrub(pose.Scrubber())
		if err := pose.Apply(ed.Skeleton(), ed.Camera()); err != nil {
			return fmt.Errorf("pose %d: %w", n, err)
		}
		i, err := ed.CaptureKeyframe()
		if errors.Is(err, timeline.ErrCapacity) {
			log.Debug().Err(err).Int("pose", n).Msg("pose skipped")
			continue
		}
		if err != nil {
			log.Warn().Err(err).Int("pose", n).Msg("pose skipped")
			continue
		}
		if pose.Lock && i >= 0 && !ed.Store().Locked()[i] {
			if err := ed.Select(i); err != nil {
				return err
			}
			if err := ed.LockSelected(); err != nil {
				return err
			}
		}
	}
	log.Info().
		Str("scene", scene.Name).
		Int("keyframes", ed.Store().Len()).
		Floats64("times", ed.Store().Times()).
		Msg("pose script done")
	return nil
}
