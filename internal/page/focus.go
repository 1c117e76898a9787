package page

// Focusables returns the focus ring: inputs and buttons in shown containers.
func (p *Page) Focusables() []*Block {
	var ring []*Block
	for _, c := range p.containers {
		if !c.shown {
			continue
		}
		for _, b := range c.Blocks {
			if b.Focusable() {
				ring = append(ring, b)
			}
		}
	}
	return ring
}

// Focused returns the focused block, or nil when it is no longer on the
// page.
func (p *Page) Focused() *Block {
	if p.focused == nil || !p.focused.container.shown {
		return nil
	}
	return p.focused
}

// Focus moves focus to b and scrolls it into view.
func (p *Page) Focus(b *Block) {
	if b == nil || !b.Focusable() {
		p.focused = nil
		return
	}
	p.focused = b
	p.ScrollIntoView(b)
}

// FocusNext advances focus around the ring, or backwards when reverse is
// set, and returns the new focus.
func (p *Page) FocusNext(reverse bool) *Block {
	ring := p.Focusables()
	if len(ring) == 0 {
		p.focused = nil
		return nil
	}
	cur := -1
	for i, b := range ring {
		if b == p.Focused() {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && reverse:
		next = len(ring) - 1
	case cur < 0:
		next = 0
	case reverse:
		next = (cur - 1 + len(ring)) % len(ring)
	default:
		next = (cur + 1) % len(ring)
	}
	p.Focus(ring[next])
	return ring[next]
}

// FocusFirst focuses the first entry of the ring.
func (p *Page) FocusFirst() *Block {
	p.focused = nil
	return p.FocusNext(false)
}
