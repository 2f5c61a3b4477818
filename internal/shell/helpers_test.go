package shell

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/smileynet/addrbook"
	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/store"
	"github.com/smileynet/addrbook/internal/view"
)

// fixture wires a session over a file store in a temp dir and an English
// renderer without colour that always picks the first greeting.
type fixture struct {
	path     string
	session  *command.Session
	renderer *view.Renderer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.json")

	cat, err := view.LoadCatalog(addrbook.Locales, "en")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	r, err := view.NewRenderer(cat, view.Options{
		Output: &bytes.Buffer{},
		Color:  view.ColorNever,
		Pick:   func(int) int { return 0 },
	})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	return fixture{
		path:     path,
		session:  command.NewSession(book.New(), store.NewFileStore(path)),
		renderer: r,
	}
}

func (f fixture) reload(t *testing.T) *book.Book {
	t.Helper()
	b, err := store.Load(f.path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return b
}
