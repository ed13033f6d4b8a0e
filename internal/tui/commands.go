package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/albumshelf/internal/catalog"
)

// LoadCatalogsCmd loads both catalogs off the UI goroutine
func LoadCatalogsCmd(loader *catalog.Loader, videoPath, audioPath string) tea.Cmd {
	return func() tea.Msg {
		video, audio, err := loader.LoadBoth(context.Background(), videoPath, audioPath)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading catalogs"}
		}
		return CatalogsLoadedMsg{Video: video, Audio: audio}
	}
}

// listenForUpdatesCmd waits for the engine's next change signal. The model
// re-issues it after every EngineUpdateMsg.
func listenForUpdatesCmd(obs *ChannelObserver) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-obs.ch; !ok {
			return nil
		}
		return EngineUpdateMsg{}
	}
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
