package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/hierarchy"
	"github.com/mogaika/fbx_scene_tools/ops"
)

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func writeJSON(c *Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal result")
	}
	_, err = fmt.Fprintf(c.Out, "%s\n", data)
	return err
}

func isolateAndExport(ctx context.Context, c *Context, target ops.Target, output, outputName string) error {
	if _, err := ops.Isolate(c.Graph, target, outputName); err != nil {
		return err
	}
	return c.export(ctx, output)
}

func init() {
	Register(&Tool{
		Name:  "extract",
		Short: "Keep only the named mesh, renamed, as a root",
		Args:  []string{"<input>", "<mesh_name>", "<output>", "<output_mesh_name>"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			return isolateAndExport(ctx, c, ops.Target{Mode: ops.ByName, Name: args[1]}, args[2], args[3])
		},
	})
	Register(&Tool{
		Name:  "extract-child",
		Short: "Keep only the first mesh child of the named root",
		Args:  []string{"<input>", "<root_name>", "<output>", "[output_mesh_name]"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			return isolateAndExport(ctx, c, ops.Target{Mode: ops.FirstMeshChildOf, Name: args[1]}, args[2], optional(args, 3))
		},
	})
	Register(&Tool{
		Name:  "extract-match",
		Short: "Keep only the mesh whose hierarchy path matches a glob",
		Args:  []string{"<input>", "<pattern>", "<output>", "[output_mesh_name]"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			n, err := ops.MatchMesh(c.Graph, args[1])
			if err != nil {
				return err
			}
			return isolateAndExport(ctx, c, ops.Target{Mode: ops.ByName, Name: n.Name()}, args[2], optional(args, 3))
		},
	})
	Register(&Tool{
		Name:  "reduce",
		Short: "Merge every mesh into one",
		Args:  []string{"<input>", "<output>", "<output_mesh_name>"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			if _, err := ops.Flatten(c.Graph, c.Env, args[2]); err != nil {
				return err
			}
			return c.export(ctx, args[1])
		},
	})
	Register(&Tool{
		Name:  "rename",
		Short: "Rename meshes after a base name",
		Args:  []string{"<input>", "<output>", "<base_name>"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			if err := ops.RenameMeshes(c.Graph, args[2]); err != nil {
				return err
			}
			return c.export(ctx, args[1])
		},
	})
	Register(&Tool{
		Name:  "hierarchy",
		Short: "Print the object tree",
		Args:  []string{"<input>"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			return hierarchy.WriteTree(c.Out, c.Graph)
		},
	})
	Register(&Tool{
		Name:  "hierarchy-json",
		Short: "Print object paths as json",
		Args:  []string{"<input>"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			return hierarchy.WriteJSON(c.Out, c.Graph)
		},
	})
	Register(&Tool{
		Name:  "geometry",
		Short: "Print the triangulated mesh as json",
		Args:  []string{"<input>", "<mesh_name>"},
		Run: func(ctx context.Context, c *Context, args []string) error {
			geom, err := ops.ExtractGeometry(c.Graph, c.Env, args[1])
			if err != nil {
				return err
			}
			return writeJSON(c, geom)
		},
	})
	Register(&Tool{
		Name:  "point-cloud",
		Short: "Print points sampled on the mesh surface as json",
		Args:  []string{"<input>", "<mesh_name>", "<num_points>"},
		Validate: func(args []string) error {
			_, err := pointCount(args[2])
			return err
		},
		Run: func(ctx context.Context, c *Context, args []string) error {
			count, err := pointCount(args[2])
			if err != nil {
				return err
			}
			points, err := ops.PointCloud(c.Graph, c.Env, args[1], count, c.Seed)
			if err != nil {
				return err
			}
			return writeJSON(c, points)
		},
	})
}

func pointCount(arg string) (int, error) {
	count, err := strconv.Atoi(arg)
	if err != nil || count < 0 {
		return 0, &UsageError{Tool: "point-cloud", Message: fmt.Sprintf("invalid point count %q", arg)}
	}
	return count, nil
}
