// Package web serves the scene directory over http: listing, hierarchy
// and geometry views, tool runs with file downloads and a status feed.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/fbx_scene_tools/host"
	"github.com/mogaika/fbx_scene_tools/status"
	"github.com/mogaika/fbx_scene_tools/vfs"
)

//go:embed data
var staticData embed.FS

type Server struct {
	dir *vfs.DirectoryDriver
	env host.Environment

	// a host session works on one scene at a time
	lock sync.Mutex
}

func NewServer(d *vfs.DirectoryDriver, env host.Environment) *Server {
	d.Filter = env.CanImport
	return &Server{dir: d, env: env}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/json/scenes", s.HandlerScenes).Methods("GET")
	r.HandleFunc("/json/tools", s.HandlerTools).Methods("GET")
	r.HandleFunc("/run/{tool}", s.HandlerRunTool).Methods("GET", "POST")
	r.HandleFunc("/dump/scene", s.HandlerDumpScene).Methods("GET")
	r.HandleFunc("/ws/status", HandlerStatus)

	data, err := fs.Sub(staticData, "data")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/").Handler(http.FileServer(http.FS(data)))
	return r
}

var upgrader = websocket.Upgrader{}

func HandlerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("[web] status upgrade failed: %v", err)
		return
	}
	status.NewClient(conn)
}

func StartServer(addr string, d *vfs.DirectoryDriver, env host.Environment) error {
	s := NewServer(d, env)

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	h = handlers.LoggingHandler(logrus.StandardLogger().Writer(), h)

	logrus.Infof("[web] Starting server %v serving %q", addr, d.Path())

	return http.ListenAndServe(addr, h)
}
