package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg time.Time

type resumeResultMsg struct {
	err error
}

type snapshotSavedMsg struct {
	path string
	err  error
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(fps, 1)), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
