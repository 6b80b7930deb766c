// Package web serves session item data as a small JSON API. It also exposes
// the single-item lookup endpoint that remote realmlog instances can point
// their lookup.url at.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wrenhall/realmlog/internal/utils"
	"github.com/wrenhall/realmlog/pkg/catalog"
	"github.com/wrenhall/realmlog/pkg/classify"
	"github.com/wrenhall/realmlog/pkg/inventory"
	"github.com/wrenhall/realmlog/pkg/precompute"
	"github.com/wrenhall/realmlog/pkg/resolve"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	ListenAddr  string
	Catalog     catalog.Catalog
	SessionsDir string
}

type server struct {
	cfg ServerConfig
}

// Handler builds the API routing for the given config.
func Handler(cfg ServerConfig) http.Handler {
	s := &server{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/items", s.handleItemLookup)
	mux.HandleFunc("/api/classify", s.handleClassify)
	mux.HandleFunc("/api/sessions/", s.handleSessionItems)
	return mux
}

// Run starts the API server and blocks.
func Run(cfg ServerConfig) error {
	utils.Log.Infof("listening on %s", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, Handler(cfg))
}

// handleItemLookup is the single-item lookup service: a hit returns the raw
// record, a miss is a plain 404, never a 500.
func (s *server) handleItemLookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}
	rec, ok := s.cfg.Catalog.Find(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, rec)
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}
	rec, _ := s.cfg.Catalog.Find(name)
	cat := classify.Classify(name, rec)
	writeJSON(w, map[string]any{
		"name":          name,
		"category":      classify.RefineGreatTreasure(cat, name),
		"largeTreasure": classify.IsLargeTreasure(rec),
	})
}

// resolvedItem is one inventory line with its resolution outcome attached.
// Unresolved items keep their raw name and render without a chit.
type resolvedItem struct {
	Name          string              `json:"name"`
	Character     string              `json:"character"`
	Bucket        string              `json:"bucket"`
	Category      classify.Category   `json:"category"`
	LargeTreasure bool                `json:"largeTreasure"`
	Record        *catalog.ItemRecord `json:"record,omitempty"`
}

func (s *server) handleSessionItems(w http.ResponseWriter, r *http.Request) {
	// /api/sessions/{id}/items
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "items" || sessionID == "" {
		http.NotFound(w, r)
		return
	}

	inventories, err := inventory.LoadSessionFile(inventory.SessionFilePath(s.cfg.SessionsDir, sessionID))
	if err != nil {
		if errors.Is(err, inventory.ErrNoInventory) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cache := resolve.NewCache(resolve.CatalogLookup{Catalog: s.cfg.Catalog}, resolve.WithLogger(utils.Log))
	if items, err := precompute.Read(s.cfg.SessionsDir, sessionID); err == nil {
		cache.Seed(items)
	} else if !errors.Is(err, precompute.ErrNoArtifact) {
		utils.Log.Warnf("ignoring unreadable cache artifact for session %s: %v", sessionID, err)
	}
	if !cache.Primed() {
		names := inventory.ReferencedNames(inventories)
		all := make([]string, 0, len(names))
		for name := range names {
			all = append(all, name)
		}
		cache.WarmUp(r.Context(), all)
	}

	var out []resolvedItem
	for character, inv := range inventories {
		for i, bucket := range inv.Buckets() {
			for _, ref := range bucket {
				rec, _ := cache.Resolve(r.Context(), ref.Name)
				cat := classify.Classify(ref.Name, rec)
				out = append(out, resolvedItem{
					Name:          ref.Name,
					Character:     character,
					Bucket:        bucketLabel(i),
					Category:      classify.RefineGreatTreasure(cat, ref.Name),
					LargeTreasure: classify.IsLargeTreasure(rec),
					Record:        rec,
				})
			}
		}
	}
	writeJSON(w, out)
}

func bucketLabel(i int) string {
	labels := []string{
		"weapons", "armor", "treasures", "great_treasures",
		"spells", "natives", "other", "unknown",
	}
	if i < 0 || i >= len(labels) {
		return "unknown"
	}
	return labels[i]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Warnf("writing response: %v", err)
	}
}
