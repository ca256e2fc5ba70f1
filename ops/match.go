package ops

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/hierarchy"
	"github.com/mogaika/fbx_scene_tools/scene"
)

type AmbiguousMatchError struct {
	Pattern string
	Paths   []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("pattern %q matches %d meshes: %s", e.Pattern, len(e.Paths), strings.Join(e.Paths, ", "))
}

func IsAmbiguousMatch(err error) bool {
	var am *AmbiguousMatchError
	return errors.As(err, &am)
}

// MatchMesh finds the single MESH whose hierarchy path matches pattern.
// Patterns not starting with "**/" get it prepended, so a bare name matches
// at any depth.
func MatchMesh(g *scene.Graph, pattern string) (*scene.Node, error) {
	full := pattern
	if !strings.HasPrefix(full, "**/") {
		full = "**/" + full
	}
	gl, err := glob.Compile(full, '/')
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid pattern %q", pattern)
	}

	var found *scene.Node
	paths := make([]string, 0)
	hierarchy.Walk(g, func(n *scene.Node, path, _ string, _ bool) {
		// leading slash lets "**/" match an empty directory prefix
		if n.Kind == scene.KindMesh && gl.Match("/"+path) {
			found = n
			paths = append(paths, path)
		}
	})

	switch len(paths) {
	case 0:
		return nil, scene.NotFound(pattern, "no mesh path matches")
	case 1:
		logger.Infof("pattern %q matched %q", pattern, paths[0])
		return found, nil
	default:
		return nil, &AmbiguousMatchError{Pattern: pattern, Paths: paths}
	}
}
