package ports

import "testing"

func TestCatalog_FindAndCopy(t *testing.T) {
	src := []Game{{ID: "1", Title: "Snake Arena"}, {ID: "2", Title: "Block Puzzle"}}
	c := NewCatalog(src)
	src[0].Title = "mutated"
	if g, ok := c.Find("1"); !ok || g.Title != "Snake Arena" {
		t.Fatalf("expected catalog to own its copy, got %#v", g)
	}
	out := c.Games()
	out[1].Title = "mutated"
	if g, _ := c.Find("2"); g.Title != "Block Puzzle" {
		t.Fatalf("Games() must return a copy")
	}
	if _, ok := c.Find("3"); ok {
		t.Fatalf("unexpected game 3")
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}
}

func TestCatalog_ZeroValueIsEmpty(t *testing.T) {
	var c Catalog
	if c.Len() != 0 || len(c.Games()) != 0 {
		t.Fatalf("zero catalog should be empty")
	}
	if _, ok := c.Find(""); ok {
		t.Fatalf("zero catalog should not find anything")
	}
}
