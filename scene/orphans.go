package scene

const DefaultPurgePasses = 5

type PurgeReport struct {
	Passes    int
	Removed   []string
	Converged bool
}

// CollectOrphans deletes datablocks nobody references. Dropping an orphan
// mesh releases its material slots, which may orphan materials for the next
// pass, so it loops until a pass removes nothing or maxPasses is reached.
// Datablocks with users are never touched.
func (g *Graph) CollectOrphans(maxPasses int) PurgeReport {
	if maxPasses <= 0 {
		maxPasses = DefaultPurgePasses
	}

	var report PurgeReport
	for report.Passes < maxPasses {
		report.Passes++
		removed := 0

		for _, mat := range g.Materials() {
			if mat.users == 0 {
				g.removeMaterial(mat)
				report.Removed = append(report.Removed, "material:"+mat.name)
				removed++
			}
		}
		for _, m := range g.Meshes() {
			if m.users == 0 {
				g.removeMesh(m)
				report.Removed = append(report.Removed, "mesh:"+m.name)
				removed++
			}
		}

		if removed == 0 {
			report.Converged = true
			return report
		}
	}

	report.Converged = !g.hasOrphans()
	return report
}

func (g *Graph) hasOrphans() bool {
	for _, m := range g.materials {
		if m.users == 0 {
			return true
		}
	}
	for _, m := range g.meshes {
		if m.users == 0 {
			return true
		}
	}
	return false
}
