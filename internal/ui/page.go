package ui

import (
	"fmt"

	dom "github.com/cuihairu/arcadehub/internal/ports"
	"github.com/cuihairu/arcadehub/internal/search"
)

// Card is one grid entry. Description is the full text; truncation is left to the view.
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	// Hidden marks a catalog card outside the current filter.
	Hidden bool `json:"-"`
}

// Player describes the open overlay.
type Player struct {
	GameID string `json:"game_id"`
	Title  string `json:"title"`
	Src    string `json:"src"`
	Loads  int    `json:"loads"`
}

// Page is the projection of a State onto what a view draws.
type Page struct {
	Query      string `json:"query"`
	Count      int    `json:"count"`
	CountLabel string `json:"count_label"`
	Cards      []Card `json:"cards"`
	// AllCards is every game in catalog order, filtered-out ones Hidden, so a
	// server-rendered grid can be re-filtered in place.
	AllCards []Card  `json:"-"`
	Empty    bool    `json:"empty"`
	Loaded   bool    `json:"loaded"`
	Player   *Player `json:"player,omitempty"`
	// Notice is a one-line message shown above the grid, e.g. for a stale link.
	Notice string `json:"notice,omitempty"`
}

// BuildPage filters the catalog by the state's query and describes the grid and player.
// loaded is false while the catalog load is still pending.
func BuildPage(c dom.Catalog, s State, loaded bool) Page {
	filtered := search.Filter(c.Games(), s.Query)
	p := Page{
		Query:      s.Query,
		Count:      len(filtered),
		CountLabel: fmt.Sprintf("%d games found", len(filtered)),
		Cards:      make([]Card, 0, len(filtered)),
		Empty:      len(filtered) == 0,
		Loaded:     loaded,
	}
	shown := make(map[string]bool, len(filtered))
	for _, g := range filtered {
		p.Cards = append(p.Cards, cardOf(g))
		shown[g.ID] = true
	}
	all := c.Games()
	p.AllCards = make([]Card, 0, len(all))
	for _, g := range all {
		card := cardOf(g)
		card.Hidden = !shown[g.ID]
		p.AllCards = append(p.AllCards, card)
	}
	if s.Open() {
		p.Player = &Player{GameID: s.Selected.ID, Title: s.Selected.Title, Src: s.Frame.Src, Loads: s.Frame.Loads}
	}
	return p
}

func cardOf(g dom.Game) Card {
	return Card{ID: g.ID, Title: g.Title, Description: g.Description, Thumbnail: g.Thumbnail}
}
