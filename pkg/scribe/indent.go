package scribe

import "strings"

// textBuilder tracks the indentation stack for a single emission. Render
// routines compose strings; nl is the only place indentation is applied.
type textBuilder struct {
	stack []int
	level int
}

func (b *textBuilder) pushIndent(delta int) {
	b.stack = append(b.stack, delta)
	b.level += delta
}

func (b *textBuilder) popIndent() {
	last := len(b.stack) - 1
	b.level -= b.stack[last]
	b.stack = b.stack[:last]
}

// Level is the current indentation in spaces.
func (b *textBuilder) Level() int {
	return b.level
}

// nl starts a new line at the current indentation, followed by prefix.
func (b *textBuilder) nl(prefix ...string) string {
	return "\n" + strings.Repeat(" ", max(b.level, 0)) + strings.Join(prefix, "")
}

// indented renders fn one level deeper. The level is restored even if fn
// panics.
func (b *textBuilder) indented(delta int, fn func() string) string {
	b.pushIndent(delta)
	defer b.popIndent()
	return fn()
}
