package storage

import (
	"fmt"
	"strings"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

// Package storage provides the on-device favorites store.

// Store keeps bookmarked articles keyed by their canonical URL.
type Store interface {
	Close() error
	Add(fav domain.Favorite) error
	Remove(url string) error
	IsFavorite(url string) (bool, error)
	All() ([]domain.Favorite, error)
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) Add(domain.Favorite) error         { return nil }
func (noopStore) Remove(string) error               { return nil }
func (noopStore) IsFavorite(string) (bool, error)   { return false, nil }
func (noopStore) All() ([]domain.Favorite, error)   { return nil, nil }
