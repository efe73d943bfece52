package visualizer

// Options configures the visualization output.
type Options struct {
	// ShowGuards labels rule edges with their guard chain and exclusion guard
	ShowGuards bool

	// ShowActions appends post-action names to edge labels
	ShowActions bool

	// ShowJumps draws the table's unguarded jumps
	ShowJumps bool

	// Direction controls diagram flow: "TD" (top-down) or "LR" (left-right)
	Direction string

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowGuards:  true,
		ShowActions: true,
		ShowJumps:   true,
		Direction:   "TD",
	}
}

// WithShowGuards enables/disables guard labels.
func (o Options) WithShowGuards(show bool) Options {
	o.ShowGuards = show

	return o
}

// WithShowActions enables/disables action labels.
func (o Options) WithShowActions(show bool) Options {
	o.ShowActions = show

	return o
}

// WithShowJumps enables/disables jump edges.
func (o Options) WithShowJumps(show bool) Options {
	o.ShowJumps = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}
