package catalog

import (
	"bytes"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	dom "github.com/cuihairu/arcadehub/internal/ports"
	"github.com/cuihairu/arcadehub/internal/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// documentSchema describes the catalog document: an array of game objects.
// Ids may be written as numbers or strings. Game and thumbnail URLs must be
// https (thumbnails may also be data: URLs) to pass the page's CSP.
const documentSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "url"],
    "properties": {
      "id":          {"type": ["string", "integer"]},
      "title":       {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "thumbnail":   {"type": "string", "pattern": "^(https://|data:image/|$)"},
      "url":         {"type": "string", "pattern": "^https://."}
    }
  }
}`

// FormatFor guesses the document format from a file name or content type.
func FormatFor(nameOrType string) string {
	s := strings.ToLower(nameOrType)
	switch {
	case strings.Contains(s, "yaml"), path.Ext(s) == ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// flexID accepts 1 or "1" in documents and keeps the decimal string form.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if i, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil || n != math.Trunc(n) {
		return fmt.Errorf("id: %s is not an integer", b)
	}
	*f = flexID(strconv.FormatInt(int64(n), 10))
	return nil
}

type entry struct {
	ID          flexID `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	URL         string `json:"url" yaml:"url"`
}

// Decode validates and parses a catalog document in the given format.
func Decode(data []byte, format string) ([]dom.Game, error) {
	doc := data
	if format == FormatYAML {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		b, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("yaml to json: %w", err)
		}
		doc = b
	}
	if err := validation.ValidateJSON(documentSchema, doc); err != nil {
		return nil, err
	}
	var entries []entry
	if err := json.Unmarshal(doc, &entries); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	games := make([]dom.Game, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(string(e.ID))
		if id == "" {
			return nil, fmt.Errorf("entry %d: empty id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("entry %d: %w: %s", i, ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("entry %d (%s): empty title", i, id)
		}
		games = append(games, dom.Game{ID: id, Title: e.Title, Description: e.Description, Thumbnail: e.Thumbnail, URL: e.URL})
	}
	return games, nil
}
