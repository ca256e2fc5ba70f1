// Package hierarchy serializes a scene graph as a box-drawing tree or as a
// flat list of path records. Both forms walk roots and children sorted by
// name, pre-order.
package hierarchy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/fbx_scene_tools/scene"
)

const (
	connectorBranch = "├ "
	connectorLast   = "└ "
	extendBranch    = "│ "
	extendLast      = "  "
)

type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// Visit is called once per node. prefix holds the continuation bars of
// every ancestor level, last tells whether n is the final sibling.
type Visit func(n *scene.Node, path string, prefix string, last bool)

func Walk(g *scene.Graph, visit Visit) {
	walkList(g, g.Roots(), "", "", visit)
}

func walkList(g *scene.Graph, nodes []*scene.Node, parentPath, prefix string, visit Visit) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		path := n.Name()
		if parentPath != "" {
			path = parentPath + "/" + n.Name()
		}
		visit(n, path, prefix, last)

		extend := extendBranch
		if last {
			extend = extendLast
		}
		walkList(g, g.Children(n), path, prefix+extend, visit)
	}
}

func Entries(g *scene.Graph) []Entry {
	result := make([]Entry, 0, g.Len())
	Walk(g, func(n *scene.Node, path, _ string, _ bool) {
		result = append(result, Entry{Name: n.Name(), Path: path, Type: n.TypeName()})
	})
	return result
}

func WriteJSON(w io.Writer, g *scene.Graph) error {
	data, err := json.Marshal(Entries(g))
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal hierarchy")
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func WriteTree(w io.Writer, g *scene.Graph) error {
	bw := bufio.NewWriter(w)
	Walk(g, func(n *scene.Node, _ string, prefix string, last bool) {
		connector := connectorBranch
		if last {
			connector = connectorLast
		}
		fmt.Fprintf(bw, "%s%s%s (%s)\n", prefix, connector, n.Name(), n.TypeName())
	})
	return bw.Flush()
}

func Tree(g *scene.Graph) string {
	var sb strings.Builder
	WriteTree(&sb, g)
	return sb.String()
}
