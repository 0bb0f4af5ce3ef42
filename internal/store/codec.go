package store

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophjournal/internal/datekey"
	"github.com/magiconair/properties"
)

func loader() *properties.Loader {
	return &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
}

// Load reads a journal file. Every key must be a canonical date; anything
// else is reported as an error rather than silently dropped.
func Load(path string) (*Store, error) {
	p, err := loader().LoadFile(path)
	if err != nil {
		return nil, err
	}
	return fromProperties(p)
}

// Decode parses journal file contents held in memory.
func Decode(data []byte) (*Store, error) {
	p, err := loader().LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return fromProperties(p)
}

func fromProperties(p *properties.Properties) (*Store, error) {
	s := New()
	for _, k := range p.Keys() {
		key, err := datekey.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("journal key: %w", err)
		}
		v, _ := p.Get(k)
		s.Put(key, v)
	}
	return s, nil
}

// WriteTo writes the store as UTF-8 key=value lines in ascending date order.
// Separators and line breaks inside values are escaped by the properties
// encoder. It implements io.WriterTo.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	p := properties.NewProperties()
	p.DisableExpansion = true
	p.WriteSeparator = "="

	var setErr error
	s.tree.Ascend(func(it item) bool {
		if _, _, err := p.Set(string(it.key), it.value); err != nil {
			setErr = fmt.Errorf("set %s: %w", it.key, err)
			return false
		}
		return true
	})
	if setErr != nil {
		return 0, setErr
	}

	n, err := p.Write(w, properties.UTF8)
	return int64(n), err
}
