package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	dom "github.com/cuihairu/arcadehub/internal/ports"
	"github.com/cuihairu/arcadehub/internal/ui"
)

func testCatalog() dom.Catalog {
	return dom.NewCatalog([]dom.Game{
		{ID: "1", Title: "Snake Arena", Description: "classic snake", Thumbnail: "https://cdn.example.com/1.png", URL: "https://games.example.com/snake"},
		{ID: "2", Title: "Block Puzzle", Description: "tetris-like", Thumbnail: "https://cdn.example.com/2.png", URL: "https://games.example.com/blocks"},
	})
}

func renderHTML(t *testing.T, p ui.Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := (HTML{}).Render(&buf, p); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestHTML_GridClosed(t *testing.T) {
	doc := renderHTML(t, ui.BuildPage(testCatalog(), ui.State{}, true))
	cards := doc.Find(".game-card")
	if cards.Length() != 2 {
		t.Fatalf("expected 2 cards, got %d", cards.Length())
	}
	if id, _ := cards.First().Attr("data-game-id"); id != "1" {
		t.Fatalf("unexpected first card %q", id)
	}
	if href, _ := cards.First().Attr("href"); href != "/play/1" {
		t.Fatalf("unexpected href %q", href)
	}
	if rp, _ := cards.First().Find("img").Attr("referrerpolicy"); rp != "no-referrer" {
		t.Fatalf("thumbnail must not leak referrer")
	}
	if got := strings.TrimSpace(doc.Find("#game-count").Text()); got != "2 games found" {
		t.Fatalf("unexpected count %q", got)
	}
	if _, hidden := doc.Find("#game-modal").Attr("hidden"); !hidden {
		t.Fatalf("modal must be hidden when closed")
	}
	if _, ok := doc.Find("#game-frame").Attr("src"); ok {
		t.Fatalf("closed player must not load a frame")
	}
	if _, hidden := doc.Find("#empty-state").Attr("hidden"); !hidden {
		t.Fatalf("empty state must be hidden")
	}
}

func TestHTML_EmptyStateWithClearSearch(t *testing.T) {
	doc := renderHTML(t, ui.BuildPage(testCatalog(), ui.State{Query: "zzz"}, true))
	if doc.Find(".game-card:not([hidden])").Length() != 0 {
		t.Fatalf("expected no visible cards")
	}
	if _, hidden := doc.Find("#empty-state").Attr("hidden"); hidden {
		t.Fatalf("empty state must be shown")
	}
	if !strings.Contains(doc.Find("#empty-state").Text(), "No games found") {
		t.Fatalf("missing empty message")
	}
	if href, _ := doc.Find("#clear-search").Attr("href"); href != "/" {
		t.Fatalf("clear search must link to the full grid, got %q", href)
	}
	if v, _ := doc.Find("#search").Attr("value"); v != "zzz" {
		t.Fatalf("search box must keep the query, got %q", v)
	}
}

func TestHTML_FilteredPageKeepsEveryCard(t *testing.T) {
	doc := renderHTML(t, ui.BuildPage(testCatalog(), ui.State{Query: "snake"}, true))
	cards := doc.Find(".game-card")
	if cards.Length() != 2 {
		t.Fatalf("every catalog game must be rendered, got %d", cards.Length())
	}
	var ids, hidden []string
	cards.Each(func(_ int, c *goquery.Selection) {
		id, _ := c.Attr("data-game-id")
		ids = append(ids, id)
		if _, ok := c.Attr("hidden"); ok {
			hidden = append(hidden, id)
		}
	})
	if strings.Join(ids, ",") != "1,2" || strings.Join(hidden, ",") != "2" {
		t.Fatalf("unexpected cards %v hidden %v", ids, hidden)
	}
	if got := strings.TrimSpace(doc.Find("#game-count").Text()); got != "1 games found" {
		t.Fatalf("count must follow the filter, got %q", got)
	}
}

func TestHTML_PlayerOpen(t *testing.T) {
	c := testCatalog()
	s, _, err := ui.Update(c, ui.State{Query: "snake"}, ui.Select{ID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	doc := renderHTML(t, ui.BuildPage(c, s, true))
	modal := doc.Find("#game-modal")
	if _, hidden := modal.Attr("hidden"); hidden {
		t.Fatalf("modal must be visible")
	}
	if id, _ := modal.Attr("data-game-id"); id != "1" {
		t.Fatalf("unexpected modal game %q", id)
	}
	if strings.TrimSpace(doc.Find("#player-title").Text()) != "Snake Arena" {
		t.Fatalf("missing player title")
	}
	frame := doc.Find("#game-frame")
	want := map[string]string{
		"src":            "https://games.example.com/snake",
		"allow":          FrameAllow,
		"sandbox":        FrameSandbox,
		"referrerpolicy": "no-referrer",
	}
	for k, v := range want {
		if got, _ := frame.Attr(k); got != v {
			t.Fatalf("iframe %s: got %q want %q", k, got, v)
		}
	}
	if _, ok := frame.Attr("allowfullscreen"); !ok {
		t.Fatalf("iframe must allow fullscreen")
	}
	if href, _ := doc.Find("#player-close").Attr("href"); href != "/?q=snake" {
		t.Fatalf("close must keep the query, got %q", href)
	}
	if cls, _ := doc.Find("body").Attr("class"); cls != "scroll-locked" {
		t.Fatalf("body scroll must be locked while open")
	}
}

func TestHTML_EscapesContent(t *testing.T) {
	c := dom.NewCatalog([]dom.Game{{ID: "x", Title: "<script>alert(1)</script>", URL: "javascript:alert(1)"}})
	s, _, _ := ui.Update(c, ui.State{}, ui.Select{ID: "x"})
	var buf bytes.Buffer
	if err := (HTML{}).Render(&buf, ui.BuildPage(c, s, true)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatalf("title not escaped")
	}
	if strings.Contains(out, `src="javascript:`) {
		t.Fatalf("unsafe frame url rendered")
	}
}

func TestHTML_LoadingAndNotice(t *testing.T) {
	p := ui.BuildPage(dom.Catalog{}, ui.State{}, false)
	p.Notice = "game not found"
	doc := renderHTML(t, p)
	if doc.Find("#loading").Length() != 1 {
		t.Fatalf("pending catalog must show loading")
	}
	if strings.TrimSpace(doc.Find("#notice").Text()) != "game not found" {
		t.Fatalf("missing notice")
	}
	if v, _ := doc.Find("body").Attr("data-loaded"); v != "false" {
		t.Fatalf("unexpected data-loaded %q", v)
	}
}

func TestTree_Shape(t *testing.T) {
	c := testCatalog()
	s, _, _ := ui.Update(c, ui.State{}, ui.Select{ID: "2"})
	root := BuildTree(ui.BuildPage(c, s, true))
	if root.Type != "page" {
		t.Fatalf("unexpected root %q", root.Type)
	}
	types := make([]string, 0, len(root.Children))
	for _, n := range root.Children {
		types = append(types, n.Type)
	}
	if strings.Join(types, ",") != "header,grid,player" {
		t.Fatalf("unexpected children %v", types)
	}
	grid := root.Children[1]
	if len(grid.Children) != 2 || grid.Children[1].Props["href"] != "/play/2" {
		t.Fatalf("unexpected grid %#v", grid)
	}
	player := root.Children[2]
	frame := player.Children[len(player.Children)-1]
	if frame.Type != "frame" || frame.Props["src"] != "https://games.example.com/blocks" || frame.Props["sandbox"] != FrameSandbox {
		t.Fatalf("unexpected frame %#v", frame)
	}

	empty := BuildTree(ui.BuildPage(c, ui.State{Query: "zzz"}, true))
	if empty.Children[1].Type != "empty" || empty.Children[1].Children[0].Props["event"] != "clear_search" {
		t.Fatalf("expected empty state with clear action, got %#v", empty.Children[1])
	}
}

func TestTree_RenderJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := Tree{}
	if err := tr.Render(&buf, ui.BuildPage(testCatalog(), ui.State{}, true)); err != nil {
		t.Fatal(err)
	}
	var back Node
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Type != "page" || !strings.HasPrefix(tr.ContentType(), "application/json") {
		t.Fatalf("unexpected tree %#v", back)
	}
}

func TestURLs(t *testing.T) {
	if PlayURL("7", "") != "/play/7" || PlayURL("7", "a b") != "/play/7?q=a+b" {
		t.Fatalf("unexpected play urls")
	}
	if HomeURL("") != "/" || HomeURL("x&y") != "/?q=x%26y" {
		t.Fatalf("unexpected home urls")
	}
	if len(AppJS) == 0 || !bytes.Contains(AppJS, []byte("fullscreen_failed")) {
		t.Fatalf("client script not embedded")
	}
}

func TestAppJS_ResumesAndReconnects(t *testing.T) {
	for _, want := range []string{`type: "resume"`, "scheduleReconnect", "maxRetryDelay"} {
		if !bytes.Contains(AppJS, []byte(want)) {
			t.Fatalf("client script lacks %q", want)
		}
	}
	if bytes.Contains(AppJS, []byte(`type: "select", id: modal.dataset.gameId`)) {
		t.Fatalf("client must not re-select the rendered game on connect")
	}
}
