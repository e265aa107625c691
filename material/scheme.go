package material

import "sync"

// Scheme names are compared constantly during technique resolution, so
// they are interned to small integers once per process. The empty
// string (the default scheme) is always index 0.
var schemeTable = struct {
	mu      sync.RWMutex
	indices map[string]int
	names   []string
}{
	indices: map[string]int{"": 0},
	names:   []string{""},
}

// DefaultSchemeIndex is the interned index of the empty (default)
// scheme.
const DefaultSchemeIndex = 0

// SchemeIndex interns a scheme name and returns its stable index.
func SchemeIndex(name string) int {
	schemeTable.mu.RLock()
	idx, ok := schemeTable.indices[name]
	schemeTable.mu.RUnlock()
	if ok {
		return idx
	}

	schemeTable.mu.Lock()
	defer schemeTable.mu.Unlock()
	if idx, ok := schemeTable.indices[name]; ok {
		return idx
	}
	idx = len(schemeTable.names)
	schemeTable.indices[name] = idx
	schemeTable.names = append(schemeTable.names, name)
	return idx
}

// SchemeName returns the name for an interned index, or the empty
// string for unknown indices.
func SchemeName(idx int) string {
	schemeTable.mu.RLock()
	defer schemeTable.mu.RUnlock()
	if idx < 0 || idx >= len(schemeTable.names) {
		return ""
	}
	return schemeTable.names[idx]
}
