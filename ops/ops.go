// Package ops implements the scene transformations behind every tool.
// Each operation resolves and validates its targets before the first
// destructive step, so a failed call leaves the graph untouched.
package ops

import (
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/config"
	"github.com/mogaika/fbx_scene_tools/scene"
)

var logger = logrus.WithField("component", "ops")

// MeshEditor is the part of the host environment that edits geometry.
type MeshEditor interface {
	Triangulate(m *scene.Mesh) [][3]int
	Join(g *scene.Graph, carrier *scene.Node, others []*scene.Node) error
}

// collectOrphans runs the bounded purge and only warns when it gives up.
func collectOrphans(g *scene.Graph) scene.PurgeReport {
	report := g.CollectOrphans(config.Get().PurgePasses)
	for _, name := range report.Removed {
		logger.Debugf("purged %s", name)
	}
	if !report.Converged {
		logger.Warnf("orphan purge stopped after %d passes with orphans left", report.Passes)
	}
	return report
}

func StripMaterials(g *scene.Graph) scene.PurgeReport {
	for _, n := range g.MeshNodes() {
		if m := n.Mesh(); m != nil {
			g.ClearMaterials(m)
		}
	}
	return collectOrphans(g)
}

// renameWithMesh gives n and its mesh datablock the same name.
func renameWithMesh(g *scene.Graph, n *scene.Node, name string) error {
	if err := g.RenameNode(n, name); err != nil {
		return err
	}
	if m := n.Mesh(); m != nil {
		return g.RenameMesh(m, name)
	}
	return nil
}
