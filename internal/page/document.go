// Package page models the host page the widget attaches to: an HTML tree
// mutated through goquery, plus a registry of click handlers keyed by
// element id. All access is serialized by the document's mutex.
package page

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

const scrollAttr = "data-scroll-top"

// ErrNoElement is returned when an operation targets a missing id.
var ErrNoElement = errors.New("page: no such element")

// Document is a host page.
type Document struct {
	mu       sync.Mutex
	doc      *goquery.Document
	handlers map[string]func()
}

// New returns an empty page with the given title.
func New(title string) *Document {
	d, err := Parse(strings.NewReader("<!DOCTYPE html><html><head><title></title></head><body></body></html>"))
	if err != nil {
		// The literal above always parses.
		panic(err)
	}
	d.doc.Find("title").SetText(title)
	return d
}

// Parse loads an existing page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse: %w", err)
	}
	return &Document{doc: doc, handlers: make(map[string]func())}, nil
}

func byID(id string) string {
	return "#" + id
}

// Ensure appends markup to the body unless an element with id already
// exists. It reports whether the markup was attached.
func (d *Document) Ensure(id, markup string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc.Find(byID(id)).Length() > 0 {
		return false
	}
	d.doc.Find("body").AppendHtml(markup)
	return true
}

// Count returns the number of elements matching a CSS selector.
func (d *Document) Count(selector string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(selector).Length()
}

// Title returns the page title.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find("title").Text()
}

// On binds fn to clicks on the element with id, replacing any previous
// handler.
func (d *Document) On(id string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[id] = fn
}

// Click invokes the handler bound to id. It reports false when the element
// is missing or has no handler. The handler runs without the lock held.
func (d *Document) Click(id string) bool {
	d.mu.Lock()
	fn, ok := d.handlers[id]
	present := d.doc.Find(byID(id)).Length() > 0
	d.mu.Unlock()
	if !ok || !present {
		return false
	}
	fn()
	return true
}

func (d *Document) AddClass(id, class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find(byID(id)).AddClass(class)
}

func (d *Document) RemoveClass(id, class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find(byID(id)).RemoveClass(class)
}

func (d *Document) HasClass(id, class string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(byID(id)).HasClass(class)
}

// Value returns the value attribute of an input.
func (d *Document) Value(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := d.doc.Find(byID(id)).Attr("value")
	return v
}

// SetValue sets the value attribute of an input, as typing would.
func (d *Document) SetValue(id, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find(byID(id)).SetAttr("value", value)
}

// SetChildren replaces the children of id with markup.
func (d *Document) SetChildren(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find(byID(id))
	if sel.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoElement, id)
	}
	sel.SetHtml(markup)
	return nil
}

// AppendChild parses markup and appends it to id.
func (d *Document) AppendChild(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find(byID(id))
	if sel.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoElement, id)
	}
	sel.AppendHtml(markup)
	return nil
}

// AppendElement appends <tag id class>text</tag> to parent with text set
// as a text node, so it is never interpreted as markup.
func (d *Document) AppendElement(parent, tag, id, class, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find(byID(parent))
	if sel.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoElement, parent)
	}
	sel.AppendHtml("<" + tag + "></" + tag + ">")
	el := sel.Children().Last()
	if id != "" {
		el.SetAttr("id", id)
	}
	if class != "" {
		el.SetAttr("class", class)
	}
	el.SetText(text)
	return nil
}

// ScrollToEnd moves the scroll position of id past its last child.
func (d *Document) ScrollToEnd(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find(byID(id))
	sel.SetAttr(scrollAttr, strconv.Itoa(sel.Children().Length()))
}

// ScrollTop returns the scroll position of id.
func (d *Document) ScrollTop(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := d.doc.Find(byID(id)).Attr(scrollAttr)
	n, _ := strconv.Atoi(v)
	return n
}

// Text returns the combined text of elements matching selector.
func (d *Document) Text(selector string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(selector).Text()
}

// ChildCount returns the number of element children of id.
func (d *Document) ChildCount(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(byID(id)).Children().Length()
}

// HTML renders the whole page.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return goquery.OuterHtml(d.doc.Selection)
}

// Container adapts the element with id to a scrollable log.
func (d *Document) Container(id string) *Container {
	return &Container{doc: d, id: id}
}

// Container is an element that accepts appended markup and scrolls.
type Container struct {
	doc *Document
	id  string
}

func (c *Container) AppendMarkup(markup string) error {
	return c.doc.AppendChild(c.id, markup)
}

func (c *Container) ScrollToEnd() {
	c.doc.ScrollToEnd(c.id)
}
