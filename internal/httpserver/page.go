package httpserver

import (
	"embed"
	"html/template"
	"io"
	"sync"

	"buywidget/internal/widget"
)

//go:embed templates/page.html
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html"))

// Page is the hosting document. It answers container lookups for the
// registry and collects the notices and navigation the widget asks for
// until the next response picks them up.
type Page struct {
	title      string
	containers []string
	doc        widget.StaticDocument

	mu       sync.Mutex
	notices  []string
	navigate string
}

func NewPage(title string, containers []string) *Page {
	return &Page{
		title:      title,
		containers: append([]string(nil), containers...),
		doc:        widget.NewStaticDocument(containers...),
	}
}

func (p *Page) HasElement(id string) bool { return p.doc.HasElement(id) }

func (p *Page) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, message)
}

func (p *Page) Navigate(target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigate = target
}

// TakeNotices returns and clears pending notices.
func (p *Page) TakeNotices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.notices
	p.notices = nil
	return out
}

// TakeNavigation returns and clears the pending navigation target.
func (p *Page) TakeNavigation() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.navigate
	p.navigate = ""
	return out
}

type pageView struct {
	Title      string
	Containers []string
	Notices    []string
	Fragments  widget.Fragments
}

func (p *Page) render(w io.Writer, frags widget.Fragments) error {
	return pageTemplate.Execute(w, pageView{
		Title:      p.title,
		Containers: p.containers,
		Notices:    p.TakeNotices(),
		Fragments:  frags,
	})
}
