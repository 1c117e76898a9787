// Package page models the scrolling document a tab shows: level containers
// holding blocks of text, quantum slots and answer inputs. It decides which
// slots are in view and implements the quantum surface.
package page

import (
	"errors"
	"fmt"

	"quantum-fen/internal/quantum"
)

// Kind classifies a block.
type Kind uint8

const (
	KindText Kind = iota
	KindHeading
	KindSlot
	KindInput
	KindResponse
	KindSpacer
)

// Block is one vertical piece of the document.
type Block struct {
	ID     string
	Kind   Kind
	Text   string // content; the typed value for inputs
	Rows   int    // spacer height
	Level  int    // level an input answers or a button leads to
	Action bool   // slot acts as a button

	page      *Page
	container *Container
	y         int
	lines     []string
}

// Name implements quantum.Element.
func (b *Block) Name() string { return b.ID }

// Content implements quantum.Element.
func (b *Block) Content() string { return b.Text }

// SetContent implements quantum.Element.
func (b *Block) SetContent(v string) {
	b.Text = v
	b.page.invalidate()
}

// Observed implements quantum.Element.
func (b *Block) Observed() bool { return b.page.observed(b) }

// Focusable reports whether the block joins the focus ring.
func (b *Block) Focusable() bool {
	return b.Kind == KindInput || (b.Kind == KindSlot && b.Action)
}

// Top returns the block's first document row, or -1 while its container is
// hidden.
func (b *Block) Top() int {
	b.page.layout()
	return b.y
}

// Height returns the number of rows the block occupies.
func (b *Block) Height() int {
	b.page.layout()
	if b.y < 0 {
		return 0
	}
	if b.Kind == KindSpacer {
		return b.Rows
	}
	return len(b.lines)
}

// Lines returns the wrapped text rows of the block.
func (b *Block) Lines() []string {
	b.page.layout()
	return b.lines
}

// Container returns the container holding b.
func (b *Block) Container() *Container { return b.container }

// Insert appends r to an input's value.
func (b *Block) Insert(r rune) {
	if b.Kind != KindInput {
		return
	}
	b.SetContent(b.Text + string(r))
}

// Backspace drops the last rune of an input's value.
func (b *Block) Backspace() {
	if b.Kind != KindInput || b.Text == "" {
		return
	}
	runes := []rune(b.Text)
	b.SetContent(string(runes[:len(runes)-1]))
}

// Container is a named section of the page that is shown or hidden whole.
// Hidden containers take no space.
type Container struct {
	Name   string
	Level  int
	Blocks []*Block

	shown bool
}

// Shown reports whether c is laid out.
func (c *Container) Shown() bool { return c.shown }

// Page is the document of one tab plus its viewport.
type Page struct {
	containers []*Container
	byName     map[string]*Container
	byID       map[string]*Block
	slots      []*Block

	visible bool
	scroll  int
	width   int
	height  int
	focused *Block

	dirty     bool
	docHeight int
}

var _ quantum.Surface = (*Page)(nil)

// ErrDuplicateID is returned by New when two blocks share an ID.
var ErrDuplicateID = errors.New("page: duplicate block id")

// New builds a page from containers. Every container starts hidden and the
// page starts visible.
func New(containers ...*Container) (*Page, error) {
	p := &Page{
		byName:  make(map[string]*Container, len(containers)),
		byID:    make(map[string]*Block),
		visible: true,
		width:   80,
		height:  24,
		dirty:   true,
	}
	for _, c := range containers {
		if _, dup := p.byName[c.Name]; dup {
			return nil, fmt.Errorf("page: duplicate container %q", c.Name)
		}
		p.byName[c.Name] = c
		p.containers = append(p.containers, c)
		for _, b := range c.Blocks {
			b.page = p
			b.container = c
			b.y = -1
			if b.ID == "" {
				continue
			}
			if _, dup := p.byID[b.ID]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateID, b.ID)
			}
			p.byID[b.ID] = b
			if b.Kind == KindSlot {
				p.slots = append(p.slots, b)
			}
		}
	}
	return p, nil
}

// Containers returns the containers in document order.
func (p *Page) Containers() []*Container { return p.containers }

// Container looks up a container by name.
func (p *Page) Container(name string) (*Container, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// Block looks up a block by ID.
func (p *Page) Block(id string) (*Block, bool) {
	b, ok := p.byID[id]
	return b, ok
}

// Show lays out the named container.
func (p *Page) Show(name string) { p.setShown(name, true) }

// Hide removes the named container from the layout.
func (p *Page) Hide(name string) { p.setShown(name, false) }

// HideAll hides every container.
func (p *Page) HideAll() {
	for _, c := range p.containers {
		c.shown = false
	}
	p.invalidate()
}

// Shown reports whether the named container is laid out.
func (p *Page) Shown(name string) bool {
	c, ok := p.byName[name]
	return ok && c.shown
}

func (p *Page) setShown(name string, shown bool) {
	c, ok := p.byName[name]
	if !ok || c.shown == shown {
		return
	}
	c.shown = shown
	p.invalidate()
}

// SetVisible records whether the tab is in the foreground.
func (p *Page) SetVisible(v bool) { p.visible = v }

// Visible implements quantum.Surface.
func (p *Page) Visible() bool { return p.visible }

// Elements implements quantum.Surface. Slots in hidden containers are
// included; they are simply never observed.
func (p *Page) Elements() []quantum.Element {
	out := make([]quantum.Element, len(p.slots))
	for i, b := range p.slots {
		out[i] = b
	}
	return out
}

// Has implements quantum.Surface.
func (p *Page) Has(name string) bool {
	b, ok := p.byID[name]
	return ok && b.Kind == KindSlot
}
