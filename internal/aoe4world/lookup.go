package aoe4world

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// EntityData describes one game entity (unit, building, technology)
// from the AoE4 World data API.
type EntityData struct {
	Pbgid      int    `json:"pbgid"`
	Name       string `json:"name"`
	BaseID     string `json:"baseId"`
	EntityType string `json:"entityType"`
	Age        int    `json:"age"`
}

// NameResolver is the read-only lookup capability handed to layers that
// need human-readable labels. The analysis core operates on opaque item
// IDs and never uses it.
type NameResolver interface {
	Name(pbgid int, fallback string) string
}

// Lookup resolves pbgids to display names. It is safe for concurrent
// reads after Load returns.
type Lookup struct {
	mu       sync.RWMutex
	entities map[int]EntityData
}

// NewLookup creates an empty lookup. Call Load before first use; an
// unloaded lookup resolves everything to its fallback.
func NewLookup() *Lookup {
	return &Lookup{entities: make(map[int]EntityData)}
}

// Count reports how many entities are loaded.
func (l *Lookup) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entities)
}

// Load fetches units, buildings and technologies from the data API in
// parallel and builds the pbgid index. A partial failure loads what it
// can and returns the first error.
func (l *Lookup) Load(dataURL string) error {
	if dataURL == "" {
		dataURL = "https://data.aoe4world.com"
	}

	client := &http.Client{Timeout: 30 * time.Second}

	endpoints := []struct {
		entityType string
		url        string
	}{
		{"unit", dataURL + "/units/all.json"},
		{"building", dataURL + "/buildings/all.json"},
		{"technology", dataURL + "/technologies/all.json"},
	}

	var g errgroup.Group
	for _, ep := range endpoints {
		ep := ep
		g.Go(func() error {
			req, err := http.NewRequest("GET", ep.url, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", userAgent)

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch %s data: %w", ep.entityType, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("data API returned status %d for %s", resp.StatusCode, ep.entityType)
			}

			var payload struct {
				Data []EntityData `json:"data"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("failed to decode %s data: %w", ep.entityType, err)
			}

			l.mu.Lock()
			for _, e := range payload.Data {
				if e.Pbgid == 0 {
					continue
				}
				e.EntityType = ep.entityType
				l.entities[e.Pbgid] = e
			}
			l.mu.Unlock()

			log.Info().Int("count", len(payload.Data)).Str("type", ep.entityType).Msg("Loaded entity data")
			return nil
		})
	}

	return g.Wait()
}

// Name returns the display name for a pbgid, or the fallback when the
// pbgid is unknown.
func (l *Lookup) Name(pbgid int, fallback string) string {
	l.mu.RLock()
	entity, ok := l.entities[pbgid]
	l.mu.RUnlock()

	if ok {
		return entity.Name
	}
	if fallback != "" {
		return fallback
	}
	return fmt.Sprintf("Unknown (%d)", pbgid)
}

// IconBaseID extracts the item identifier from an icon path, e.g.
// "icons/races/common/units/villager" -> "villager".
func IconBaseID(icon string) string {
	if icon == "" {
		return ""
	}
	if idx := strings.LastIndex(icon, "/"); idx >= 0 {
		return icon[idx+1:]
	}
	return icon
}
