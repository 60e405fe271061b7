package handlers

import (
	"net/http"
	"runtime"

	"github.com/gorilla/mux"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version"`
}

// VersionHandler serves build information
type VersionHandler struct {
	info BuildInfo
}

// NewVersionHandler creates a version handler. Empty fields are left out of the response.
func NewVersionHandler(version, commit string) *VersionHandler {
	if version == "" {
		version = "dev"
	}
	return &VersionHandler{info: BuildInfo{Version: version, Commit: commit, GoVersion: runtime.Version()}}
}

// RegisterRoutes registers the version route
func (h *VersionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/version", h.Version).Methods("GET")
}

// Version handles GET /version
func (h *VersionHandler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.info)
}
