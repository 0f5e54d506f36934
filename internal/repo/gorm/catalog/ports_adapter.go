package catalog

import (
	"context"

	dom "github.com/cuihairu/arcadehub/internal/ports"
)

// PortRepo adapts *Repo to the ports.CatalogRepository interface.
type PortRepo struct{ r *Repo }

func NewPortRepo(r *Repo) *PortRepo { return &PortRepo{r: r} }

var _ dom.CatalogRepository = (*PortRepo)(nil)

func (p *PortRepo) ReplaceAll(ctx context.Context, games []dom.Game) error {
	rows := make([]*Game, 0, len(games))
	for _, g := range games {
		rows = append(rows, &Game{ID: g.ID, Title: g.Title, Description: g.Description, Thumbnail: g.Thumbnail, URL: g.URL})
	}
	return p.r.ReplaceAll(ctx, rows)
}

func (p *PortRepo) List(ctx context.Context) ([]dom.Game, error) {
	arr, err := p.r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Game, 0, len(arr))
	for _, g := range arr {
		out = append(out, toDomain(g))
	}
	return out, nil
}

func toDomain(g *Game) dom.Game {
	return dom.Game{ID: g.ID, Title: g.Title, Description: g.Description, Thumbnail: g.Thumbnail, URL: g.URL}
}
