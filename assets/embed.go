// Package assets embeds the browser page: an html/template for the board
// skeleton and the script that forwards pointer/touch events over the
// websocket and paints server snapshots.
package assets

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/robalobadob/lettersort/internal/layout"
)

//go:embed index.html.tmpl static
var FS embed.FS

var page = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"slotID": layout.SlotID,
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i
		}
		return s
	},
}).ParseFS(FS, "index.html.tmpl"))

// Page is the data the board template renders.
type Page struct {
	Title   string
	Seconds int
	Slots   int
}

// Render writes the board page.
func Render(w io.Writer, p Page) error {
	return page.Execute(w, p)
}

// Static is the file tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
