// Package httpapi assembles the public HTTP surface: health and metrics
// endpoints, the invite preview, and the mounted Connect services.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/storage"
)

// Service is a Connect handler and the path prefix it serves.
type Service struct {
	Path    string
	Handler http.Handler
}

// Mount adapts the (path, handler) pair returned by the generated
// New*ServiceHandler constructors.
func Mount(path string, handler http.Handler) Service {
	return Service{Path: path, Handler: handler}
}

const pingTimeout = 2 * time.Second

// NewRouter builds the HTTP router. metrics may be nil.
func NewRouter(store storage.Store, metrics http.Handler, services ...Service) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", healthz(store)).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	router.HandleFunc("/invite/{code}", invitePreview(store)).Methods(http.MethodGet)

	for _, svc := range services {
		router.PathPrefix(svc.Path).Handler(svc.Handler)
	}
	return router
}

func healthz(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type inviteMember struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type invite struct {
	GroupName string         `json:"groupName"`
	Currency  string         `json:"currency"`
	Unclaimed []inviteMember `json:"unclaimed"`
}

// invitePreview shows what an invite link leads to before signing in.
func invitePreview(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := service.NormalizeInviteCode(mux.Vars(r)["code"])

		group, err := store.GetGroupByInviteCode(r.Context(), code)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Invite not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("Invite lookup failed", "error", err)
			http.Error(w, "Failed to load invite", http.StatusInternalServerError)
			return
		}

		members, err := service.UnclaimedMembers(r.Context(), store, group.ID)
		if err != nil {
			slog.Error("Invite lookup failed", "group_id", group.ID, "error", err)
			http.Error(w, "Failed to load invite", http.StatusInternalServerError)
			return
		}

		out := invite{
			GroupName: group.Name,
			Currency:  group.Currency,
			Unclaimed: make([]inviteMember, len(members)),
		}
		for i, m := range members {
			out.Unclaimed[i] = inviteMember{ID: m.ID, DisplayName: m.DisplayName}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
