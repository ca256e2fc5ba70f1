package scene

// ClearParentKeepTransform detaches n from its parent and rewrites its local
// transform so its world placement does not move. Roots are left alone.
func (g *Graph) ClearParentKeepTransform(n *Node) {
	if !n.HasParent() {
		return
	}
	world := g.World(n)
	g.detach(n)
	n.Local = TransformFromMat4(world)
}
