package widget

// Document answers whether a host element exists on the page.
type Document interface {
	HasElement(id string) bool
}

// StaticDocument is a Document over a fixed set of element ids.
type StaticDocument map[string]struct{}

func NewStaticDocument(ids ...string) StaticDocument {
	doc := make(StaticDocument, len(ids))
	for _, id := range ids {
		doc[id] = struct{}{}
	}
	return doc
}

func (d StaticDocument) HasElement(id string) bool {
	_, ok := d[id]
	return ok
}

// UI surfaces blocking notices to the shopper and navigates away.
type UI interface {
	Notify(message string)
	Navigate(target string)
}

type nopUI struct{}

func (nopUI) Notify(string)   {}
func (nopUI) Navigate(string) {}
