package progress

import (
	"context"
	"encoding/json"
	"sync"
)

// memory keeps the progress document in process memory, encoded the same way
// the SQLite store encodes it so both behave alike.
type memory struct {
	mu  sync.RWMutex // guards doc
	doc []byte
}

// NewMemoryStore constructs an in-memory Store. State is lost on restart.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) Load(ctx context.Context) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decode(m.doc)
}

func (m *memory) Save(ctx context.Context, p Progress) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = b
	return nil
}

func (m *memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = nil
	return nil
}

// decode merges a stored document over the defaults so fields added later
// still get sane zero values. An empty document is not an error.
func decode(doc []byte) (Progress, error) {
	p := Default()
	if len(doc) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(doc, &p); err != nil {
		return Default(), err
	}
	if p.HighScores == nil {
		p.HighScores = map[string]HighScore{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return p, nil
}
