package launcher

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
)

// Bookmark is one Firefox bookmark.
type Bookmark struct {
	Title string
	URL   string
}

// BookmarksPlugin reads bookmarks out of a Firefox places.sqlite file.
// Firefox holds the database locked while running, so the file is copied
// to a temp path and opened read-only from there.
type BookmarksPlugin struct {
	cfg    config.BookmarksConfig
	logger *logger.Logger

	mu        sync.Mutex
	bookmarks []Bookmark
	loaded    bool
	tempDB    string
}

func NewBookmarksPlugin(cfg config.BookmarksConfig, lg *logger.Logger) *BookmarksPlugin {
	return &BookmarksPlugin{cfg: cfg, logger: lg}
}

func (p *BookmarksPlugin) Name() string { return "bookmarks" }

func (p *BookmarksPlugin) Triggers() []string { return []string{"bm", "bookmarks"} }

func (p *BookmarksPlugin) Entry() *Item {
	return &Item{
		Title:    "Firefox Bookmarks",
		Subtitle: "Search and open bookmarks",
		Action:   &SetQueryAction{Query: "bm "},
		Plugin:   p,
	}
}

func (p *BookmarksPlugin) Populate(query string) []*Item {
	bookmarks, err := p.load()
	if err != nil {
		p.logger.Warnf("bookmarks: %v", err)
		return []*Item{{
			Title:    "Bookmarks unavailable",
			Subtitle: err.Error(),
			Plugin:   p,
		}}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var items []*Item
	for _, b := range bookmarks {
		if q != "" && !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.URL), q) {
			continue
		}
		items = append(items, p.bookmarkItem(b))
		if len(items) >= p.cfg.MaxResults {
			break
		}
	}
	return items
}

// bookmarkItem builds the open-URL row for one bookmark. The command is
// handed to exec verbatim (field-split, no shell), so the URL must stay
// unquoted; URLs are %-encoded and never contain spaces.
func (p *BookmarksPlugin) bookmarkItem(b Bookmark) *Item {
	return &Item{
		Title:    b.Title,
		Subtitle: b.URL,
		Action:   NewShellAction("xdg-open " + b.URL),
		Plugin:   p,
	}
}

func (p *BookmarksPlugin) HandleAction(data ActionData) error {
	return ErrUnhandledAction(data)
}

func (p *BookmarksPlugin) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tempDB != "" {
		os.Remove(p.tempDB)
		p.tempDB = ""
	}
}

// load reads the bookmark table once and keeps it for the plugin's
// lifetime. The registry's cache invalidation covers staleness well
// enough for bookmark data.
func (p *BookmarksPlugin) load() ([]Bookmark, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.bookmarks, nil
	}

	if _, err := os.Stat(p.cfg.PlacesPath); err != nil {
		return nil, fmt.Errorf("places database: %w", err)
	}

	tempDB, err := copyToTemp(p.cfg.PlacesPath)
	if err != nil {
		return nil, fmt.Errorf("copy places database: %w", err)
	}
	p.tempDB = tempDB

	bookmarks, err := readBookmarks(tempDB)
	if err != nil {
		return nil, err
	}

	p.bookmarks = bookmarks
	p.loaded = true
	p.logger.Debugf("bookmarks: loaded %d entries", len(bookmarks))
	return bookmarks, nil
}

func readBookmarks(path string) ([]Bookmark, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?immutable=1")
	if err != nil {
		return nil, fmt.Errorf("open places database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT b.title, p.url
		FROM moz_bookmarks b
		JOIN moz_places p ON b.fk = p.id
		WHERE b.type = 1 AND b.title IS NOT NULL
		ORDER BY b.title`)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.Title, &b.URL); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func copyToTemp(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "beacon-places-*.sqlite")
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
