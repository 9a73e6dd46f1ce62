package rig

import (
	"context"
	"strings"

	"skin-animator/internal/texture"
)

// Result is the outcome of an asynchronous load.
type Result struct {
	Scene *Scene
	Err   error
}

// Open loads and builds a rig from a file path or a "builtin:<name>"
// reference.
func Open(ref string, textures texture.Resolver) (*Scene, error) {
	var (
		f   *File
		err error
	)
	if name, ok := strings.CutPrefix(ref, BuiltinPrefix); ok {
		f, err = Builtin(name)
	} else {
		f, err = Load(ref)
	}
	if err != nil {
		return nil, err
	}
	return f.Build(textures)
}

// LoadAsync opens ref on its own goroutine. The channel receives exactly one
// Result and is then closed. A cancelled context reports ctx.Err() instead
// of the scene.
func LoadAsync(ctx context.Context, ref string, textures texture.Resolver) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		scene, err := Open(ref, textures)
		if ctxErr := ctx.Err(); ctxErr != nil {
			out <- Result{Err: ctxErr}
			return
		}
		out <- Result{Scene: scene, Err: err}
	}()
	return out
}
