package web

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/ops"
	"github.com/mogaika/fbx_scene_tools/scene"
	"github.com/mogaika/fbx_scene_tools/status"
	"github.com/mogaika/fbx_scene_tools/tools"
	"github.com/mogaika/fbx_scene_tools/vfs"
	"github.com/mogaika/fbx_scene_tools/webutils"
)

func errorCode(err error) int {
	switch {
	case tools.IsUsage(err):
		return http.StatusBadRequest
	case scene.IsNotFound(err):
		return http.StatusNotFound
	case ops.IsAmbiguousMatch(err), scene.IsNameConflict(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) HandlerScenes(w http.ResponseWriter, r *http.Request) {
	if files, err := s.dir.List(); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

type toolInfo struct {
	Name  string   `json:"name"`
	Short string   `json:"short"`
	Args  []string `json:"args"`
}

func (s *Server) HandlerTools(w http.ResponseWriter, r *http.Request) {
	result := make([]toolInfo, 0)
	for _, t := range tools.List() {
		result = append(result, toolInfo{Name: t.Name, Short: t.Short, Args: t.Args})
	}
	webutils.WriteJson(w, result)
}

func (s *Server) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("file")
	f, err := vfs.DirectoryGetFile(s.dir, name)
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusNotFound, err)
		return
	}
	reader, err := f.Open()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer reader.Close()
	webutils.WriteFile(w, reader, f.Name())
}

// argKey turns "<mesh_name>" or "[output_mesh_name]" into its query key.
func argKey(arg string) string {
	return strings.Trim(arg, "<>[]")
}

// toolArgs fills the positional arguments of t from the request. The
// input is resolved inside the scene directory, the output goes to tmpDir.
func (s *Server) toolArgs(t *tools.Tool, r *http.Request, tmpDir string) (args []string, output string, err error) {
	for _, arg := range t.Args {
		var value string
		switch argKey(arg) {
		case "input":
			if value, err = s.dir.Resolve(r.FormValue("file")); err != nil {
				return nil, "", &tools.UsageError{Tool: t.Name, Message: err.Error()}
			}
		case "output":
			format := strings.TrimPrefix(r.FormValue("format"), ".")
			if format == "" {
				format = "fbx"
			}
			base := strings.TrimSuffix(filepath.Base(r.FormValue("file")), filepath.Ext(r.FormValue("file")))
			value = filepath.Join(tmpDir, base+"."+format)
			output = value
		default:
			value = r.FormValue(argKey(arg))
		}
		if value == "" && strings.HasPrefix(arg, "[") {
			break
		}
		args = append(args, value)
	}
	return args, output, nil
}

func (s *Server) HandlerRunTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["tool"]
	t, ok := tools.Get(name)
	if !ok {
		webutils.WriteErrorStatus(w, http.StatusNotFound, errors.Errorf("Unknown tool %q", name))
		return
	}

	tmpDir, err := ioutil.TempDir("", "fbx_scene_tools_web")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	args, output, err := s.toolArgs(t, r, tmpDir)
	if err != nil {
		webutils.WriteErrorStatus(w, errorCode(err), err)
		return
	}

	var out bytes.Buffer
	c := &tools.Context{Env: s.env, Out: &out}
	if seed := r.FormValue("seed"); seed != "" {
		if c.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
			webutils.WriteErrorStatus(w, http.StatusBadRequest, errors.Wrapf(err, "Invalid seed"))
			return
		}
	}

	s.lock.Lock()
	status.Progress(0, "running %s", t.Name)
	err = tools.Execute(r.Context(), t, c, args)
	s.lock.Unlock()
	if err != nil {
		logrus.WithField("tool", t.Name).Errorf("%v", err)
		webutils.WriteErrorStatus(w, errorCode(err), err)
		return
	}
	status.Progress(1, "%s finished", t.Name)

	if output != "" {
		f, err := os.Open(output)
		if err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Tool produced no output"))
			return
		}
		defer f.Close()
		webutils.WriteFile(w, f, filepath.Base(output))
		return
	}

	if trimmed := bytes.TrimSpace(out.Bytes()); len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		w.Header().Set("Content-Type", "application/json")
		webutils.WriteResult(w, out.Bytes())
	} else {
		webutils.WriteText(w, out.String())
	}
}
