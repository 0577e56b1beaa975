package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"moviecat/internal/catalog"
	"moviecat/internal/fileutil"
	"moviecat/internal/services"
)

// formatVersion is written into every saved file.
const formatVersion = 1

// State is the persisted catalog: the records plus the identifier high-water
// mark. LastID never decreases, so deleting the newest record does not free
// its identifier.
type State struct {
	Version int
	LastID  int
	Movies  []catalog.Movie
}

type envelope struct {
	Version int             `json:"version"`
	LastID  int             `json:"last_id"`
	Movies  []catalog.Movie `json:"movies"`
}

// Load reads the catalog file at path. A missing or empty file yields an empty
// state. Both the envelope format and a bare JSON array of records are
// accepted. Records with a missing or repeated identifier are given fresh
// ones; the number reassigned is returned alongside the state.
func Load(path string) (State, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{Version: formatVersion, Movies: []catalog.Movie{}}, 0, nil
		}
		return State{}, 0, services.Wrap(services.ErrPersistence, "store", "load", "read catalog file", err)
	}
	state, err := decode(data)
	if err != nil {
		return State{}, 0, services.Wrap(services.ErrPersistence, "store", "load", fmt.Sprintf("parse %s", path), err)
	}
	var reassigned int
	state.Movies, state.LastID, reassigned = normalizeIDs(state.Movies, state.LastID, 0)
	return state, reassigned, nil
}

func decode(data []byte) (State, error) {
	trimmed := bytes.TrimSpace(data)
	state := State{Version: formatVersion, Movies: []catalog.Movie{}}
	if len(trimmed) == 0 {
		return state, nil
	}
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &state.Movies); err != nil {
			return State{}, err
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return State{}, err
		}
		if env.Version > formatVersion {
			return State{}, fmt.Errorf("unsupported catalog version %d (max %d)", env.Version, formatVersion)
		}
		state.LastID = env.LastID
		if env.Movies != nil {
			state.Movies = env.Movies
		}
	default:
		return State{}, errors.New("expected a JSON object or array")
	}
	return state, nil
}

// Save atomically writes state to path. On failure the previous file content
// is left untouched.
func Save(path string, state State) error {
	data, err := encode(state)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "save", "encode catalog", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrPersistence, "store", "save", "write catalog file", err)
	}
	return nil
}

func encode(state State) ([]byte, error) {
	movies := state.Movies
	if movies == nil {
		movies = []catalog.Movie{}
	}
	env := envelope{
		Version: formatVersion,
		LastID:  max(state.LastID, catalog.MaxID(movies)),
		Movies:  movies,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// NextID returns the identifier for the next created record: one past the
// larger of the current maximum and the high-water mark, or 1 for a catalog
// that has never held a record.
func NextID(records []catalog.Movie, lastID int) int {
	return max(catalog.MaxID(records), lastID, 0) + 1
}

// normalizeIDs gives records without a usable identifier a fresh one. The
// first record holding a given identifier keeps it. Identifiers at or below
// issued were handed out before and are never taken again.
func normalizeIDs(records []catalog.Movie, lastID, issued int) ([]catalog.Movie, int, int) {
	high := max(catalog.MaxID(records), lastID)
	seen := make(map[int]struct{}, len(records))
	reassigned := 0
	for i := range records {
		id := records[i].ID
		if _, dup := seen[id]; id > issued && !dup {
			seen[id] = struct{}{}
			continue
		}
		high++
		records[i].ID = high
		seen[high] = struct{}{}
		reassigned++
	}
	return records, high, reassigned
}
