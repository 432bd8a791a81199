// internal/words/words.go
//
// Word pack loading for the session engine.
//
// Responsibilities:
//   - Resolve a pack id to one or more JSON files of the shape {category: [words...]}.
//   - Decode them preserving category order and normalize every word.
//   - Merge multi-file packs; a category that appears twice takes the later list.
//   - Cache decoded packs so each file is read once per process.
//
// Pack files come from an fs.FS: the embedded defaults in package assets,
// or a directory set via WORDS_DIR.
//
// Failures (unknown id, missing file, bad JSON) are returned to the caller
// unchanged apart from wrapping. The loader never retries.

package words

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrUnknownPack is returned for pack ids not in the catalog.
var ErrUnknownPack = errors.New("words: unknown pack")

// Info describes one selectable pack.
type Info struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	files       []string // merged in order, later files win
}

var catalog = []Info{
	{ID: "standard", Name: "Standard", Description: "Party classics for everyone", Icon: "sparkles", files: []string{"words.json"}},
	{ID: "mzansi", Name: "Mzansi", Description: "Local flavour from South Africa", Icon: "flag", files: []string{"mzansi-words.json"}},
	{ID: "all", Name: "Everything", Description: "Every category from every pack", Icon: "layers", files: []string{"words.json", "mzansi-words.json"}},
}

// Packs lists the selectable packs in display order.
func Packs() []Info {
	return append([]Info{}, catalog...)
}

// Pack is a loaded category → words mapping.
type Pack struct {
	ID         string              `json:"id"`
	Categories []string            `json:"categories"` // file order
	Words      map[string][]string `json:"words"`
}

// WordsFor returns a copy of the words of category; nil for unknown categories.
func (p Pack) WordsFor(category string) []string {
	w, ok := p.Words[category]
	if !ok {
		return nil
	}
	return append([]string{}, w...)
}

// Loader reads and caches packs from fsys.
type Loader struct {
	fsys  fs.FS
	mu    sync.Mutex      // guards cache
	cache map[string]Pack // keyed by pack id
	log   zerolog.Logger
}

// NewLoader constructs a Loader reading pack files from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:  fsys,
		cache: make(map[string]Pack),
		log:   log.With().Str("component", "words").Logger(),
	}
}

// Load returns the pack with the given id.
func (l *Loader) Load(ctx context.Context, id string) (Pack, error) {
	info, ok := lookup(id)
	if !ok {
		return Pack{}, fmt.Errorf("%w: %q", ErrUnknownPack, id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.cache[id]; ok {
		return p, nil
	}

	merged := Pack{ID: id, Words: make(map[string][]string)}
	for _, name := range info.files {
		if err := ctx.Err(); err != nil {
			return Pack{}, err
		}
		part, err := l.readFile(name)
		if err != nil {
			return Pack{}, fmt.Errorf("load pack %s: %w", id, err)
		}
		for _, c := range part.Categories {
			if _, dup := merged.Words[c]; dup {
				l.log.Debug().Str("pack", id).Str("category", c).Str("file", name).Msg("category overwritten by later file")
			} else {
				merged.Categories = append(merged.Categories, c)
			}
			merged.Words[c] = part.Words[c]
		}
	}

	l.cache[id] = merged
	l.log.Info().Str("pack", id).Int("categories", len(merged.Categories)).Msg("pack loaded")
	return merged, nil
}

// readFile decodes one pack file.
func (l *Loader) readFile(name string) (Pack, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return Pack{}, err
	}
	defer f.Close()
	p, err := decodePack(f)
	if err != nil {
		return Pack{}, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

func lookup(id string) (Info, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Info{}, false
}
