// Package patch turns one rendered figure into an animation without
// re-rendering it.
//
// The first frame of an Engine is drawn by an external Renderer. The
// engine then caches the document around its inline PNG tiles, the
// tagged axis rectangle anchors that fix each panel's data to canvas
// mapping, and the tagged indicator lines and frame labels. Every later
// frame re-encodes only the tile that changed, moves the indicators and
// rewrites the labels; the output is a concatenation of cached static
// segments and new slot values.
//
// A document that lacks the expected images or anchors fails with an
// error matching ErrStructuralMismatch. Lines and labels whose geometry
// cannot be used are logged through rsf.Logger and left as drawn.
//
//	eng, err := patch.NewEngine(cube, renderer, patch.WithMode(patch.Cube), patch.WithMovieAxis(1))
//	for i := range eng.Len() {
//		doc, err := eng.Frame(i)
//		...
//	}
package patch
