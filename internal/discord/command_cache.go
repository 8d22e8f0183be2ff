package discord

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// globalScope names the cache file of globally registered commands.
const globalScope = "global"

// hashCache remembers the hash of every command last registered per scope,
// one JSON file per guild.
type hashCache struct {
	dir string
}

func (c hashCache) path(scope string) string {
	if scope == "" {
		scope = globalScope
	}
	return filepath.Join(c.dir, scope+".json")
}

func (c hashCache) load(scope string) map[string]string {
	out := make(map[string]string)
	data, err := os.ReadFile(c.path(scope))
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("[WARN] Ignoring unreadable command cache %s: %v", c.path(scope), err)
		return make(map[string]string)
	}
	return out
}

func (c hashCache) save(scope string, hashes map[string]string) {
	path := c.path(scope)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] Failed to create command cache dir: %v", err)
		return
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[WARN] Failed to write command cache %s: %v", path, err)
	}
}
