package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mogaika/fbx_scene_tools/config"
	"github.com/mogaika/fbx_scene_tools/geometry"
	"github.com/mogaika/fbx_scene_tools/host"
	"github.com/mogaika/fbx_scene_tools/scenedoc"
	"github.com/mogaika/fbx_scene_tools/status"
	"github.com/mogaika/fbx_scene_tools/tools"
	"github.com/mogaika/fbx_scene_tools/utils"
	"github.com/mogaika/fbx_scene_tools/vfs"
	"github.com/mogaika/fbx_scene_tools/web"

	// registration order is the auto host preference
	_ "github.com/mogaika/fbx_scene_tools/host/native"
	_ "github.com/mogaika/fbx_scene_tools/host/blender"
)

type options struct {
	config  string
	host    string
	blender string
	verbose bool
	dump    bool
	seed    int64

	addr string
	dir  string

	// started is set once a command body runs, anything failing before
	// that is a command line problem
	started bool
}

func (o *options) setup(stderr io.Writer) (host.Environment, error) {
	logrus.SetOutput(stderr)

	cfg, err := config.Load(o.config)
	if err != nil {
		return nil, err
	}
	if o.host != "" {
		cfg.Host = o.host
	}
	if o.blender != "" {
		cfg.BlenderPath = o.blender
	}
	if err := cfg.Validate(); err != nil {
		return nil, &tools.UsageError{Message: err.Error()}
	}
	config.Set(cfg)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid log level")
	}
	if o.verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	return host.Select(cfg.Host, geometry.Editor{})
}

func newToolCommand(o *options, t *tools.Tool, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   t.Usage(),
		Short: t.Short,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.started = true
			if cmd.ArgsLenAtDash() != 0 {
				return &tools.UsageError{Tool: t.Name, Message: "arguments must follow --; usage: " + t.Usage()}
			}
			if err := t.CheckArgs(args); err != nil {
				return err
			}

			env, err := o.setup(stderr)
			if err != nil {
				return err
			}
			c := &tools.Context{Env: env, Out: stdout, Seed: o.seed}
			err = tools.Execute(cmd.Context(), t, c, args)
			if o.dump && c.Graph != nil {
				utils.FDump(stderr, scenedoc.FromGraph(c.Graph))
			}
			return err
		},
	}
	if t.Name == "point-cloud" {
		cmd.Flags().Int64Var(&o.seed, "seed", 0, "Random seed of the sampler")
	}
	return cmd
}

func newServeCommand(o *options, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory of scenes over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.started = true
			env, err := o.setup(stderr)
			if err != nil {
				return err
			}
			cfg := config.Get()
			if o.addr == "" {
				o.addr = cfg.Serve.Addr
			}
			if o.dir == "" {
				o.dir = cfg.Serve.Dir
			}
			logrus.AddHook(status.Hook{})
			return web.StartServer(o.addr, vfs.NewDirectoryDriver(o.dir), env)
		},
	}
	cmd.Flags().StringVarP(&o.addr, "addr", "i", "", "Address of server")
	cmd.Flags().StringVar(&o.dir, "dir", "", "Directory with scenes")
	return cmd
}

func newRootCommand(o *options, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "fbx_scene_tools",
		Short:         "Headless scene graph transformations",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&o.config, "config", "", "Config file (default "+config.DefaultPath+")")
	pf.StringVar(&o.host, "host", "", "Host environment: auto, native or blender")
	pf.StringVar(&o.blender, "blender", "", "Path to the blender executable")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&o.dump, "dump", false, "Dump the resulting scene to stderr")

	for _, t := range tools.List() {
		root.AddCommand(newToolCommand(o, t, stdout, stderr))
	}
	root.AddCommand(newServeCommand(o, stderr))
	return root
}

// run returns the process exit code: 0 on success, 2 for command line
// problems and 1 for everything else.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &options{}
	root := newRootCommand(o, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	if !o.started || tools.IsUsage(err) {
		return 2
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
