package launcher

import (
	"strings"
	"testing"
)

func TestBookmarkItemActionArgv(t *testing.T) {
	p := &BookmarksPlugin{}
	b := Bookmark{
		Title: "Example Page",
		URL:   "https://example.com/page?q=1&lang=en",
	}

	item := p.bookmarkItem(b)
	shell, ok := item.Action.(*ShellAction)
	if !ok {
		t.Fatal("Expected a shell action")
	}

	// Execute field-splits the command and passes the argv to exec with
	// no shell in between, so the URL must arrive byte-identical.
	parts := strings.Fields(shell.Command)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 argv entries, got %v", parts)
	}
	if parts[0] != "xdg-open" {
		t.Errorf("Expected xdg-open, got %q", parts[0])
	}
	if parts[1] != b.URL {
		t.Errorf("Expected raw URL as argv[1], got %q", parts[1])
	}
	if strings.ContainsAny(parts[1], `'"`) {
		t.Errorf("Expected no quote bytes in argv, got %q", parts[1])
	}
}
