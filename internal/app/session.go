package app

import (
	"context"
	"errors"
	"sync"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
	"github.com/MBach/LeMondeRssReader-sub000/internal/extract"
	"github.com/MBach/LeMondeRssReader-sub000/internal/storage"
)

// ErrStale marks an extraction whose result arrived after a newer load
// started. The result is discarded, never displayed.
var ErrStale = errors.New("stale extraction discarded")

// Session owns the displayed snapshot for one screen instance. Every load
// takes a generation number at start; a completion only installs its
// result while its generation is still the latest, so a slow early fetch
// can never clobber the outcome of a later refresh.
type Session struct {
	mu        sync.Mutex
	gen       uint64
	extractor *extract.Extractor
	store     storage.Store
	article   *domain.Article
	live      *domain.Live
}

// NewSession builds a session around the given extractor. A nil store
// disables favorites.
func NewSession(extractor *extract.Extractor, store storage.Store) *Session {
	if store == nil {
		store, _ = storage.NewStore("", "")
	}
	return &Session{extractor: extractor, store: store}
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// LoadArticle fetches and installs an article snapshot.
func (s *Session) LoadArticle(ctx context.Context, link string) (*domain.Article, error) {
	gen := s.begin()

	article, err := s.extractor.Article(ctx, link)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	s.article, s.live = article, nil
	return article, nil
}

// LoadLive fetches and installs a live-blog snapshot.
func (s *Session) LoadLive(ctx context.Context, link string) (*domain.Live, error) {
	gen := s.begin()

	live, err := s.extractor.Live(ctx, link)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	s.live, s.article = live, nil
	return live, nil
}

// LoadMore paginates the current live snapshot. The installed snapshot is
// replaced, never mutated in place; prior sections keep their order. Each
// pagination takes its own generation, so of two overlapping calls only
// the later one installs and the earlier reports ErrStale.
func (s *Session) LoadMore(ctx context.Context) ([]domain.LiveSection, error) {
	s.mu.Lock()
	live := s.live
	if live == nil {
		s.mu.Unlock()
		return nil, nil
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	added, err := s.extractor.MoreSections(ctx, live)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return nil, nil
	}

	sections := make([]domain.LiveSection, 0, len(live.Sections)+len(added))
	sections = append(sections, live.Sections...)
	sections = append(sections, added...)
	s.live = &domain.Live{Header: live.Header, Sections: sections}
	return added, nil
}

// Article returns the currently displayed article snapshot, if any.
func (s *Session) Article() *domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.article
}

// Live returns the currently displayed live snapshot, if any.
func (s *Session) Live() *domain.Live {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// SaveFavorite bookmarks the currently displayed article under its
// canonical URL.
func (s *Session) SaveFavorite() (*domain.Favorite, error) {
	s.mu.Lock()
	article := s.article
	s.mu.Unlock()
	if article == nil {
		return nil, errors.New("no article loaded")
	}
	if article.Header.URL == "" {
		return nil, errors.New("article has no canonical url")
	}
	fav := domain.Favorite{
		URL:      article.Header.URL,
		Title:    article.Header.Title,
		ImageURL: article.Header.ImageURL,
		Category: article.Header.Category,
	}
	if err := s.store.Add(fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

// RemoveFavorite deletes the bookmark stored under the given URL.
func (s *Session) RemoveFavorite(url string) error {
	return s.store.Remove(url)
}

// IsFavorite reports whether the given URL is bookmarked.
func (s *Session) IsFavorite(url string) (bool, error) {
	return s.store.IsFavorite(url)
}

// Favorites lists every stored bookmark, oldest first.
func (s *Session) Favorites() ([]domain.Favorite, error) {
	return s.store.All()
}

// Reset discards the snapshot and invalidates any in-flight load, as on
// navigation away from the screen.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.article, s.live = nil, nil
}
