package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kitchen-nadal/kitchen/internal/logtail"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

// Messages

type tickMsg time.Time

// cacheMsg reports a change to any cache entry.
type cacheMsg query.Snapshot

// fetchedMsg is sent when a screen's fetch settles.
type fetchedMsg struct {
	key string
	err error
}

type logsMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchCmd[T any](ctx context.Context, q query.Query[T]) tea.Cmd {
	if !q.Enabled() {
		return nil
	}
	return func() tea.Msg {
		res := q.Fetch(ctx)
		return fetchedMsg{key: q.Key().String(), err: res.Err}
	}
}

// waitForChange blocks until the cache reports a change. The feed closing
// ends the loop.
func waitForChange(ch <-chan query.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return cacheMsg(snap)
	}
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{lines: lines, err: err}
	}
}
