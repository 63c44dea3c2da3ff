package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MBach/LeMondeRssReader-sub000/internal/app"
	"github.com/MBach/LeMondeRssReader-sub000/internal/config"
	"github.com/MBach/LeMondeRssReader-sub000/internal/extract"
	"github.com/MBach/LeMondeRssReader-sub000/internal/feeds"
	"github.com/MBach/LeMondeRssReader-sub000/internal/logger"
	"github.com/MBach/LeMondeRssReader-sub000/internal/storage"
	"github.com/MBach/LeMondeRssReader-sub000/pkg/httpclient"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reader failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	articleURL := flag.String("url", "", "article page URL to extract")
	liveURL := flag.String("live", "", "live-blog page URL to extract")
	feedID := flag.String("feed", "", "category id to list from the feeds registry")
	save := flag.Bool("save", false, "bookmark the article given with -url")
	unsaveURL := flag.String("unsave", "", "article URL to remove from favorites")
	listFavorites := flag.Bool("favorites", false, "list bookmarked articles")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	feed := extract.NewHTTPLiveFeed(client, cfg.BaseURL)
	extractor := extract.NewExtractor(client, feed, extract.Flags{
		AllowSeeAlso:        cfg.AllowSeeAlso,
		RestrictedHighlight: cfg.RestrictedHighlight,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()
	logger.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	session := app.NewSession(extractor, store)

	switch {
	case *articleURL != "":
		article, err := session.LoadArticle(ctx, *articleURL)
		if err != nil {
			return fmt.Errorf("extract article: %w", err)
		}
		if *save {
			fav, err := session.SaveFavorite()
			if err != nil {
				return fmt.Errorf("save favorite: %w", err)
			}
			logger.InfoObj("article bookmarked", "url", fav.URL)
		}
		return printJSON(article)
	case *liveURL != "":
		live, err := session.LoadLive(ctx, *liveURL)
		if err != nil {
			return fmt.Errorf("extract live: %w", err)
		}
		return printJSON(live)
	case *feedID != "":
		registry, err := feeds.LoadRegistry(cfg.FeedsFile)
		if err != nil {
			return fmt.Errorf("load feeds registry: %w", err)
		}
		category, ok := registry.ByID(*feedID)
		if !ok {
			return fmt.Errorf("unknown category %q", *feedID)
		}
		summaries, err := feeds.NewService(client).Fetch(ctx, category)
		if err != nil {
			return fmt.Errorf("fetch feed: %w", err)
		}
		return printJSON(summaries)
	case *unsaveURL != "":
		if err := session.RemoveFavorite(*unsaveURL); err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
		logger.InfoObj("bookmark removed", "url", *unsaveURL)
		return nil
	case *listFavorites:
		favs, err := session.Favorites()
		if err != nil {
			return fmt.Errorf("list favorites: %w", err)
		}
		return printJSON(favs)
	default:
		flag.Usage()
		return fmt.Errorf("one of -url, -live, -feed, -unsave or -favorites is required")
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
