package editor

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/nmnduy/claude-c/pkg/ui"
)

// pollTick is how often the event loop wakes to drain the UI queue even
// when no key has arrived, satisfying §4.9's "poll terminal input with a
// short timeout; drain the UI queue" requirement.
const pollTick = 50 * time.Millisecond

// InstructionSubmitter is the subset of the AI worker the event loop
// drives: enqueueing instructions and observing queue depth for Ctrl+C.
type InstructionSubmitter interface {
	Submit(text string) error
	Pending() int
}

// InterruptController is the subset of the conversation store the event
// loop uses to implement Ctrl+C cancellation.
type InterruptController interface {
	RequestInterrupt()
	ResetInterrupt()
	Interrupted() bool
}

// Loop is the C9 event loop: it owns the terminal, the modal editor, and
// the render side of the C8 UI queue.
type Loop struct {
	screen tcell.Screen
	editor *Editor
	queue  *ui.MessageQueue
	worker InstructionSubmitter
	interrupter InterruptController

	status      string
	history     []string
	exitArmed   bool
}

// NewLoop constructs a Loop on a freshly initialized tcell screen.
func NewLoop(queue *ui.MessageQueue, worker InstructionSubmitter, interrupter InterruptController) (*Loop, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	screen.Show()
	return &Loop{
		screen:      screen,
		editor:      New(),
		queue:       queue,
		worker:      worker,
		interrupter: interrupter,
	}, nil
}

// Close tears down the terminal.
func (l *Loop) Close() {
	l.screen.Fini()
}

// Run drives the event loop until Ctrl+D on empty input or a confirmed
// double Ctrl+C, per §4.9.
func (l *Loop) Run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(pollTick)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if l.dispatch(ev) {
				return
			}
		case <-ticker.C:
			l.drainQueue()
		}
		l.render()
	}
}

// dispatch handles one terminal event. It returns true when the loop
// should exit.
func (l *Loop) dispatch(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		l.screen.Sync()
	case *tcell.EventKey:
		return l.dispatchKey(e)
	}
	return false
}

func (l *Loop) dispatchKey(e *tcell.EventKey) bool {
	if e.Key() != tcell.KeyCtrlC {
		l.exitArmed = false
	}

	switch e.Key() {
	case tcell.KeyCtrlC:
		return l.handleCtrlC()
	case tcell.KeyCtrlD:
		if l.editor.IsEmpty() {
			return true
		}
	case tcell.KeyEnter:
		text := l.editor.Text()
		l.editor.Reset()
		if text != "" {
			l.history = append(l.history, "> "+text)
			if err := l.worker.Submit(text); err != nil {
				l.status = err.Error()
			}
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		l.editor.Backspace()
	case tcell.KeyDelete:
		l.editor.DeleteWordForward()
	case tcell.KeyLeft:
		l.editor.MoveCharLeft()
	case tcell.KeyRight:
		l.editor.MoveCharRight()
	case tcell.KeyCtrlA, tcell.KeyHome:
		l.editor.MoveLineStart()
	case tcell.KeyCtrlE, tcell.KeyEnd:
		l.editor.MoveLineEnd()
	case tcell.KeyCtrlK:
		l.editor.KillToEndOfLine()
	case tcell.KeyCtrlU:
		l.editor.KillToBeginningOfLine()
	case tcell.KeyCtrlW:
		l.editor.MoveWordLeft()
	case tcell.KeyCtrlB:
		l.editor.MoveWordLeft()
	case tcell.KeyCtrlF:
		l.editor.MoveWordRight()
	case tcell.KeyEscape:
		l.editor.SetMode(ModeNormal)
	case tcell.KeyRune:
		if l.editor.Mode() == ModeNormal {
			switch e.Rune() {
			case 'i':
				l.editor.SetMode(ModeInsert)
			case 'h':
				l.editor.MoveCharLeft()
			case 'l':
				l.editor.MoveCharRight()
			case 'w':
				l.editor.MoveWordRight()
			case 'b':
				l.editor.MoveWordLeft()
			case '0':
				l.editor.MoveLineStart()
			case '$':
				l.editor.MoveLineEnd()
			case 'x':
				l.editor.DeleteWordForward()
			}
			return false
		}
		if e.Modifiers()&tcell.ModAlt != 0 {
			switch e.Rune() {
			case 'b':
				l.editor.MoveWordLeft()
			case 'f':
				l.editor.MoveWordRight()
			}
			return false
		}
		l.editor.InsertRune(e.Rune())
	}
	return false
}

// handleCtrlC implements §4.9's two-stage cancel/exit semantics.
func (l *Loop) handleCtrlC() bool {
	if l.worker.Pending() > 0 || l.interrupter.Interrupted() {
		l.interrupter.RequestInterrupt()
		l.status = "cancelling"
		return false
	}
	if l.exitArmed {
		return true
	}
	l.exitArmed = true
	l.status = "press Ctrl+C again to exit"
	return false
}

// drainQueue empties the C8 TUIMessageQueue into the scrollback/status.
func (l *Loop) drainQueue() {
	msgs, open := l.queue.Drain()
	if !open {
		return
	}
	for _, m := range msgs {
		switch m.Kind {
		case ui.AddLine:
			l.history = append(l.history, m.Payload)
		case ui.Status:
			l.status = m.Payload
		case ui.Error:
			l.history = append(l.history, "error: "+m.Payload)
		case ui.Clear:
			l.history = nil
		}
	}
}

// render redraws the scrollback, status line, and input buffer.
func (l *Loop) render() {
	l.screen.Clear()
	w, h := l.screen.Size()

	visible := h - 2
	start := 0
	if len(l.history) > visible {
		start = len(l.history) - visible
	}
	y := 0
	for _, line := range l.history[start:] {
		drawText(l.screen, 0, y, w, line)
		y++
	}

	if l.status != "" {
		drawText(l.screen, 0, h-2, w, l.status)
	}

	lines, row, col := l.editor.Lines()
	inputY := h - 1
	prompt := "> "
	drawText(l.screen, 0, inputY, w, prompt+lines[row])
	l.screen.ShowCursor(len(prompt)+col, inputY)

	l.screen.Show()
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string) {
	col := x
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		s.SetContent(col, y, r, nil, tcell.StyleDefault)
		col++
	}
}
