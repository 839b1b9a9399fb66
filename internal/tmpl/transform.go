package tmpl

import "log/slog"

// Transform is one text-rewriting step of the template pipeline.
type Transform interface {
	Apply(text string, rc *RenderContext) string
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(text string, rc *RenderContext) string

// Apply calls f.
func (f TransformFunc) Apply(text string, rc *RenderContext) string { return f(text, rc) }

// Chain applies transforms in order.
type Chain []Transform

// Apply runs every transform of the chain over text.
func (c Chain) Apply(text string, rc *RenderContext) string {
	for _, t := range c {
		text = t.Apply(text, rc)
	}
	return text
}

// Pipeline returns the page chain: include, then conditional, then variable.
// Include warnings go to logger, or slog.Default when nil.
func Pipeline(src Source, logger *slog.Logger) Chain {
	return Chain{Include{Source: src, Logger: logger}, Conditional{}, Variable{}}
}
