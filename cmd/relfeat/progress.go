package main

import (
	"os"

	"github.com/gosuri/uiprogress"
	"golang.org/x/term"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// progress renders one bar per stage of a command. Without a terminal all
// methods do nothing.
type progress struct {
	enabled bool
	started bool
}

func newProgress(ui UI) *progress {
	return &progress{enabled: ui.Terminal}
}

// bar returns a callback advancing a new bar that shows the current title.
func (p *progress) bar(total int) func(current, total int, title string) {
	if !p.enabled {
		return nil
	}

	if !p.started {
		uiprogress.Start()
		p.started = true
	}

	bar := uiprogress.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()

	var currentName string
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		return currentName
	})

	return func(current, total int, title string) {
		if bar.Total != total {
			bar.Total = total
		}
		currentName = title
		bar.Set(current)
	}
}

func (p *progress) stop() {
	if p.started {
		uiprogress.Stop()
		p.started = false
	}
}
