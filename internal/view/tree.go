package view

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/cuihairu/arcadehub/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Node is one element of the component tree handed to script clients.
type Node struct {
	Type     string         `json:"type"`
	Props    map[string]any `json:"props,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []Node         `json:"children,omitempty"`
}

// Tree renders the page as a JSON component tree.
type Tree struct{}

func (Tree) ContentType() string { return "application/json; charset=utf-8" }

func (Tree) Render(w io.Writer, p ui.Page) error {
	return json.NewEncoder(w).Encode(BuildTree(p))
}

// BuildTree describes p as nested nodes: header, optional notice, grid or empty state, optional player.
func BuildTree(p ui.Page) Node {
	root := Node{Type: "page", Props: map[string]any{"loaded": p.Loaded}}
	root.Children = append(root.Children, Node{
		Type: "header",
		Children: []Node{
			{Type: "search", Props: map[string]any{"value": p.Query, "placeholder": "Search games"}},
			{Type: "count", Text: p.CountLabel, Props: map[string]any{"count": p.Count}},
		},
	})
	if p.Notice != "" {
		root.Children = append(root.Children, Node{Type: "notice", Text: p.Notice})
	}
	if p.Empty {
		root.Children = append(root.Children, Node{
			Type: "empty",
			Text: "No games found",
			Children: []Node{
				{Type: "action", Text: "Clear search", Props: map[string]any{"event": "clear_search", "href": HomeURL("")}},
			},
		})
	} else {
		grid := Node{Type: "grid", Children: make([]Node, 0, len(p.Cards))}
		for _, c := range p.Cards {
			grid.Children = append(grid.Children, Node{
				Type: "card",
				Props: map[string]any{
					"id":          c.ID,
					"title":       c.Title,
					"description": c.Description,
					"thumbnail":   c.Thumbnail,
					"href":        PlayURL(c.ID, p.Query),
				},
			})
		}
		root.Children = append(root.Children, grid)
	}
	if pl := p.Player; pl != nil {
		root.Children = append(root.Children, Node{
			Type:  "player",
			Props: map[string]any{"game_id": pl.GameID, "title": pl.Title},
			Children: []Node{
				{Type: "action", Text: "Reload", Props: map[string]any{"event": "reload"}},
				{Type: "action", Text: "Fullscreen", Props: map[string]any{"event": "fullscreen"}},
				{Type: "action", Text: "Close", Props: map[string]any{"event": "close", "href": HomeURL(p.Query)}},
				{Type: "frame", Props: map[string]any{
					"src":             pl.Src,
					"loads":           pl.Loads,
					"allow":           FrameAllow,
					"sandbox":         FrameSandbox,
					"referrerpolicy":  FrameReferrerPolicy,
					"allowfullscreen": true,
				}},
			},
		})
	}
	return root
}
