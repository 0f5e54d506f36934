package catalog

import (
	"context"
	"io"
	"log/slog"

	dom "github.com/cuihairu/arcadehub/internal/ports"
)

// Load fetches, decodes and validates the document behind src.
// Every failure is returned as *LoadError.
func Load(ctx context.Context, src dom.CatalogSource) (dom.Catalog, error) {
	body, format, err := src.Open(ctx)
	if err != nil {
		return dom.Catalog{}, &LoadError{Source: src.Name(), Err: err}
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return dom.Catalog{}, &LoadError{Source: src.Name(), Err: err}
	}
	games, err := Decode(data, format)
	if err != nil {
		return dom.Catalog{}, &LoadError{Source: src.Name(), Err: err}
	}
	return dom.NewCatalog(games), nil
}

// LoadOrEmpty is Load with the failure recovered: the error is logged and an empty catalog returned.
// There is no retry.
func LoadOrEmpty(ctx context.Context, src dom.CatalogSource, logger *slog.Logger) dom.Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	c, err := Load(ctx, src)
	if err != nil {
		logger.Error("catalog load failed; serving empty catalog", "source", src.Name(), "error", err)
		return dom.Catalog{}
	}
	logger.Info("catalog loaded", "source", src.Name(), "games", c.Len())
	return c
}

// LoadInto runs LoadOrEmpty and publishes the result into h. It blocks; callers start it in a goroutine.
func LoadInto(ctx context.Context, h *Holder, src dom.CatalogSource, logger *slog.Logger) {
	h.Set(LoadOrEmpty(ctx, src, logger))
}
