// Package tools wires scene operations into runnable tools. Every tool
// follows the same pipeline: reset, import, strip materials, transform,
// then export or print.
package tools

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/host"
	"github.com/mogaika/fbx_scene_tools/ops"
	"github.com/mogaika/fbx_scene_tools/scene"
)

// UsageError reports a malformed invocation. It is raised before any scene
// work happens.
type UsageError struct {
	Tool    string
	Message string
}

func (e *UsageError) Error() string {
	if e.Tool == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

type Context struct {
	Env   host.Environment
	Graph *scene.Graph
	Out   io.Writer
	// Seed feeds the point sampler.
	Seed int64
}

func (c *Context) export(ctx context.Context, path string) error {
	return c.Env.Export(ctx, c.Graph, path, host.DefaultExportOptions())
}

type Tool struct {
	Name  string
	Short string
	// Args names the positional arguments, the first one is always the
	// input scene. Optional ones are wrapped in brackets.
	Args []string
	// Validate, when set, checks argument values once the count is known.
	// Its errors are reported as usage errors.
	Validate func(args []string) error
	Run      func(ctx context.Context, c *Context, args []string) error
}

func (t *Tool) Usage() string {
	return fmt.Sprintf("%s -- %s", t.Name, strings.Join(t.Args, " "))
}

func (t *Tool) argRange() (min, max int) {
	for _, a := range t.Args {
		if !strings.HasPrefix(a, "[") {
			min++
		}
	}
	return min, len(t.Args)
}

func (t *Tool) CheckArgs(args []string) error {
	min, max := t.argRange()
	if len(args) < min || len(args) > max {
		want := fmt.Sprintf("%d", min)
		if max != min {
			want = fmt.Sprintf("%d to %d", min, max)
		}
		return &UsageError{Tool: t.Name, Message: fmt.Sprintf("expected %s arguments, got %d; usage: %s", want, len(args), t.Usage())}
	}
	for i, a := range args {
		if a == "" {
			return &UsageError{Tool: t.Name, Message: fmt.Sprintf("argument %s is empty", t.Args[i])}
		}
	}
	if t.Validate != nil {
		if err := t.Validate(args); err != nil {
			if IsUsage(err) {
				return err
			}
			return &UsageError{Tool: t.Name, Message: err.Error()}
		}
	}
	return nil
}

// Execute runs t over a fresh graph in c.
func Execute(ctx context.Context, t *Tool, c *Context, args []string) error {
	if err := t.CheckArgs(args); err != nil {
		return err
	}
	log := logrus.WithField("tool", t.Name)

	if c.Graph == nil {
		c.Graph = scene.New()
	}
	c.Graph.Reset()

	log.Infof("importing %q", args[0])
	if err := c.Env.Import(ctx, args[0], c.Graph); err != nil {
		return errors.Wrapf(err, "Failed to import %q", args[0])
	}
	report := ops.StripMaterials(c.Graph)
	log.Debugf("stripped materials in %d passes", report.Passes)

	if err := t.Run(ctx, c, args); err != nil {
		return err
	}
	log.Infof("done")
	return nil
}

var gTools = make(map[string]*Tool)

func Register(t *Tool) {
	gTools[t.Name] = t
}

func Get(name string) (*Tool, bool) {
	t, ok := gTools[name]
	return t, ok
}

func List() []*Tool {
	result := make([]*Tool, 0, len(gTools))
	for _, t := range gTools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
