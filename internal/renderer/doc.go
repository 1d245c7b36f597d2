// Package renderer draws editor state onto a backend.
//
// Each frame clears the backend, draws the visible lines of the buffer with
// their newlines removed, draws an optional status line on the last row,
// and places the terminal cursor at the edit cursor. A Viewport scrolls so
// that the cursor stays on screen.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.WithStatusLine(true))
//	r.Render(session.State(), renderer.Status{FileName: "notes.txt"})
package renderer
