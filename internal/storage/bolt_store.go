package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

const favoriteBucket = "favorites"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(favoriteBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Add stores or refreshes a favorite keyed by canonical URL.
func (b *boltStore) Add(fav domain.Favorite) error {
	if b == nil || b.db == nil {
		return nil
	}
	if strings.TrimSpace(fav.URL) == "" {
		return fmt.Errorf("favorite requires a url")
	}
	if fav.SavedAt.IsZero() {
		fav.SavedAt = time.Now()
	}

	value, err := json.Marshal(fav)
	if err != nil {
		return fmt.Errorf("encode favorite: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(favoriteBucket))
		if bucket == nil {
			return fmt.Errorf("favorite bucket missing")
		}
		return bucket.Put([]byte(fav.URL), value)
	})
}

// Remove deletes the favorite with the given URL; removing an unknown URL
// is not an error.
func (b *boltStore) Remove(url string) error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(favoriteBucket))
		if bucket == nil {
			return fmt.Errorf("favorite bucket missing")
		}
		return bucket.Delete([]byte(url))
	})
}

// IsFavorite checks whether the given URL is bookmarked.
func (b *boltStore) IsFavorite(url string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(favoriteBucket))
		if bucket == nil {
			return fmt.Errorf("favorite bucket missing")
		}
		exists = bucket.Get([]byte(url)) != nil
		return nil
	})
	return exists, err
}

// All returns every favorite, oldest first.
func (b *boltStore) All() ([]domain.Favorite, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	var favorites []domain.Favorite
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(favoriteBucket))
		if bucket == nil {
			return fmt.Errorf("favorite bucket missing")
		}
		return bucket.ForEach(func(_, v []byte) error {
			var fav domain.Favorite
			if err := json.Unmarshal(v, &fav); err != nil {
				return fmt.Errorf("decode favorite: %w", err)
			}
			favorites = append(favorites, fav)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(favorites, func(i, j int) bool {
		if favorites[i].SavedAt.Equal(favorites[j].SavedAt) {
			return favorites[i].URL < favorites[j].URL
		}
		return favorites[i].SavedAt.Before(favorites[j].SavedAt)
	})
	return favorites, nil
}
