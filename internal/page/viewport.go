package page

// Resize sets the viewport size in cells and re-clamps the scroll offset.
func (p *Page) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width != p.width {
		p.invalidate()
	}
	p.width, p.height = width, height
	p.clamp()
}

// Size returns the viewport size.
func (p *Page) Size() (width, height int) { return p.width, p.height }

// ScrollOffset returns the first document row in view.
func (p *Page) ScrollOffset() int {
	p.clamp()
	return p.scroll
}

// Scroll moves the viewport by delta rows and reports whether it moved.
func (p *Page) Scroll(delta int) bool {
	return p.ScrollTo(p.ScrollOffset() + delta)
}

// ScrollTo moves the viewport so row y is at the top, clamped to the
// document.
func (p *Page) ScrollTo(y int) bool {
	before := p.ScrollOffset()
	p.scroll = y
	p.clamp()
	return p.scroll != before
}

// ScrollEnd moves to the bottom of the document.
func (p *Page) ScrollEnd() bool { return p.ScrollTo(p.DocHeight()) }

// ScrollIntoView scrolls the least amount needed to bring b fully into view.
func (p *Page) ScrollIntoView(b *Block) bool {
	top := b.Top()
	if top < 0 {
		return false
	}
	bottom := top + b.Height()
	switch {
	case top < p.ScrollOffset():
		return p.ScrollTo(top)
	case bottom > p.ScrollOffset()+p.height:
		return p.ScrollTo(bottom - p.height)
	}
	return false
}

// DocHeight returns the height of all shown containers.
func (p *Page) DocHeight() int {
	p.layout()
	return p.docHeight
}

func (p *Page) clamp() {
	limit := p.DocHeight() - p.height
	if limit < 0 {
		limit = 0
	}
	if p.scroll > limit {
		p.scroll = limit
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

func (p *Page) invalidate() { p.dirty = true }

// layout assigns document rows to every block of every shown container.
func (p *Page) layout() {
	if !p.dirty {
		return
	}
	p.dirty = false
	y := 0
	for _, c := range p.containers {
		for _, b := range c.Blocks {
			if !c.shown {
				b.y = -1
				b.lines = nil
				continue
			}
			b.y = y
			if b.Kind == KindSpacer {
				b.lines = nil
				y += b.Rows
				continue
			}
			b.lines = Wrap(b.display(), p.width)
			y += len(b.lines)
		}
	}
	p.docHeight = y
}

// observed reports whether any row of b lies within the viewport, edges
// included, while the page is visible.
func (p *Page) observed(b *Block) bool {
	if !p.visible || b.container == nil || !b.container.shown {
		return false
	}
	top := b.Top() - p.ScrollOffset()
	last := top + b.Height() - 1
	return last >= 0 && top <= p.height
}

// display is the text a block renders, before wrapping.
func (b *Block) display() string {
	if b.Kind == KindInput {
		return "> " + b.Text
	}
	return b.Text
}
