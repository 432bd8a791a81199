package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// decodePack reads {category: [words...]} keeping the categories in file order,
// which a plain map decode would lose.
func decodePack(r io.Reader) (Pack, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return Pack{}, err
	}

	p := Pack{Words: make(map[string][]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Pack{}, err
		}
		category, ok := tok.(string)
		if !ok {
			return Pack{}, fmt.Errorf("expected category name, got %v", tok)
		}
		var list []string
		if err := dec.Decode(&list); err != nil {
			return Pack{}, fmt.Errorf("category %q: %w", category, err)
		}
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		if _, dup := p.Words[category]; !dup {
			p.Categories = append(p.Categories, category)
		}
		p.Words[category] = normalize(list)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return Pack{}, err
	}
	return p, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// normalize trims words and drops blanks. Case is kept; words are shown as written.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
