// Package ui is a minimal terminal front end for the search engine: an
// input line, a grouped result list, and the debounce/staleness machinery
// between keystrokes and searches. It exists to drive the engine end to end;
// theming and animation belong to the launcher window, not here.
package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/cheru-app/cheru/internal/browse"
	"github.com/cheru-app/cheru/internal/engine"
	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/security"
)

// resultsEvent carries a completed search response onto the event loop.
type resultsEvent struct {
	tcell.EventTime
	resp engine.Response
}

type ui struct {
	screen     tcell.Screen
	engine     *engine.Engine
	dispatcher *engine.Dispatcher
	query      []rune
	results    []engine.Result
	selected   int
	lastGen    uint64
	status     string
	quit       bool
}

// Run starts the interactive loop and blocks until the user quits or
// launches something.
func Run(eng *engine.Engine, debounce time.Duration, log *logrus.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	u := &ui{screen: screen, engine: eng}
	u.dispatcher = engine.NewDispatcher(eng, debounce, func(resp engine.Response) {
		ev := &resultsEvent{resp: resp}
		ev.SetEventNow()
		_ = screen.PostEvent(ev)
	})
	defer u.dispatcher.Stop()

	// Initial empty query lists the whole application bucket.
	u.dispatcher.Flush("")

	for !u.quit {
		u.draw()
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *resultsEvent:
			u.applyResults(ev.resp)
		case *tcell.EventKey:
			u.handleKey(ev)
		case nil:
			return nil
		}
	}
	return nil
}

// applyResults installs a response unless an even newer one already landed.
// The dispatcher drops responses that were superseded before completion;
// this guards the short window between completion and delivery.
func (u *ui) applyResults(resp engine.Response) {
	if resp.Generation < u.lastGen {
		return
	}
	u.lastGen = resp.Generation
	u.results = engine.GroupForDisplay(resp.Results)
	if u.selected >= len(u.results) {
		u.selected = 0
	}
	u.status = ""
}

func (u *ui) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if len(u.query) == 0 {
			u.quit = true
			return
		}
		u.setQuery(nil)
	case tcell.KeyEnter:
		u.activate()
	case tcell.KeyUp:
		if u.selected > 0 {
			u.selected--
		}
	case tcell.KeyDown:
		if u.selected < len(u.results)-1 {
			u.selected++
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.query) > 0 {
			u.setQuery(u.query[:len(u.query)-1])
		}
	case tcell.KeyCtrlU:
		u.setQuery(nil)
	case tcell.KeyRune:
		u.setQuery(append(u.query, ev.Rune()))
	}
}

func (u *ui) setQuery(query []rune) {
	u.query = query
	u.selected = 0
	u.dispatcher.Submit(string(u.query))
}

// activate launches the selected result. Activating a folder while browsing
// drills into it by rewriting the query instead of opening the directory.
func (u *ui) activate() {
	if u.selected < 0 || u.selected >= len(u.results) {
		return
	}
	result := u.results[u.selected]
	query := string(u.query)

	if browse.IsBrowseQuery(query) && result.Kind == index.KindFolder {
		u.query = []rune(u.engine.NextBrowseQuery(query, result.Name))
		u.selected = 0
		u.dispatcher.Flush(string(u.query))
		return
	}

	if err := u.engine.Launch(result); err != nil {
		if security.IsDenied(err) {
			u.status = "blocked by security policy: " + err.Error()
		} else {
			u.status = err.Error()
		}
		return
	}
	u.quit = true
}

func (u *ui) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()

	inputStyle := tcell.StyleDefault.Bold(true)
	drawText(u.screen, 0, 0, width, "> "+string(u.query), inputStyle)

	listHeight := height - 2
	for i, result := range u.results {
		if i >= listHeight {
			break
		}
		style := tcell.StyleDefault
		if i == u.selected {
			style = style.Reverse(true)
		}
		line := fmt.Sprintf(" %-10s %s", "["+result.Kind.String()+"]", sanitizeText(result.Name))
		if result.Description != "" {
			line += "  " + sanitizeText(result.Description)
		}
		drawText(u.screen, 0, i+1, width, line, style)
	}

	if u.status != "" {
		statusStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
		drawText(u.screen, 0, height-1, width, u.status, statusStyle)
	}
	u.screen.Show()
}

func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range runewidth.Truncate(text, maxWidth, "…") {
		screen.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}
