package ports

import (
	"context"
	"io"
)

// Game is the domain record for one embeddable web game. It mirrors the catalog
// document entry and the DB model but carries no storage tags besides json/yaml.
type Game struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	URL         string `json:"url" yaml:"url"`
}

// Catalog is an ordered, read-only sequence of games. Insertion order is display order.
// The zero value is an empty catalog.
type Catalog struct {
	games []Game
	index map[string]int
}

// NewCatalog copies games into a new Catalog. Later duplicates of an id do not
// shadow the first occurrence in Find.
func NewCatalog(games []Game) Catalog {
	cp := make([]Game, len(games))
	copy(cp, games)
	idx := make(map[string]int, len(cp))
	for i, g := range cp {
		if _, ok := idx[g.ID]; !ok {
			idx[g.ID] = i
		}
	}
	return Catalog{games: cp, index: idx}
}

// Games returns a copy of the games in catalog order.
func (c Catalog) Games() []Game {
	out := make([]Game, len(c.games))
	copy(out, c.games)
	return out
}

func (c Catalog) Len() int { return len(c.games) }

// Find returns the game with the given id.
func (c Catalog) Find(id string) (Game, bool) {
	i, ok := c.index[id]
	if !ok {
		return Game{}, false
	}
	return c.games[i], true
}

// CatalogRepository persists catalog documents for the db source.
type CatalogRepository interface {
	ReplaceAll(ctx context.Context, games []Game) error
	List(ctx context.Context) ([]Game, error)
}

// CatalogSource fetches the raw catalog document. format is a hint such as "json" or "yaml";
// empty means unknown.
type CatalogSource interface {
	Name() string
	Open(ctx context.Context) (body io.ReadCloser, format string, err error)
}
