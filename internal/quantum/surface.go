package quantum

// Element is one rendered quantum slot.
type Element interface {
	Name() string
	Content() string
	SetContent(string)
	// Observed reports whether the element is laid out, inside the viewport
	// and on a visible page.
	Observed() bool
}

// Surface is the page a Session reads and writes slot values through.
type Surface interface {
	// Visible reports the page visibility state.
	Visible() bool
	// Elements returns every rendered quantum element, shown or not.
	Elements() []Element
	// Has reports whether a slot with name still exists on the page.
	Has(name string) bool
}
