// Package tray shows the current input mode in the system tray.
package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"

	"smartinput/internal/classify"
	"smartinput/internal/logging"
)

// Config configures the tray icon.
type Config struct {
	// Tooltip is the hover text.
	Tooltip string

	// PinyinIconPath and EnglishIconPath point at PNG files. Missing or
	// unreadable files fall back to a drawn icon.
	PinyinIconPath  string
	EnglishIconPath string

	// OnQuit fires when the user picks Quit from the menu.
	OnQuit func()

	Logger *logging.Logger
}

// Tray owns the systray lifecycle. systray.Run may only be called once per
// process, so there is at most one Tray.
type Tray struct {
	cfg Config
	log *logging.Logger

	mu       sync.Mutex
	mode     classify.Mode
	ready    bool
	modeItem *systray.MenuItem

	pinyinIcon  []byte
	englishIcon []byte
}

// New prepares a tray. Icons are resolved up front so mode switches are a
// cheap byte swap later.
func New(cfg Config) *Tray {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Tooltip == "" {
		cfg.Tooltip = "SmartInput"
	}
	return &Tray{
		cfg:         cfg,
		log:         cfg.Logger,
		mode:        classify.Pinyin,
		pinyinIcon:  loadIcon(cfg.PinyinIconPath, pinyinColor, cfg.Logger),
		englishIcon: loadIcon(cfg.EnglishIconPath, englishColor, cfg.Logger),
	}
}

// Run blocks in the systray event loop until the context is cancelled or the
// user quits. It must run on the main goroutine on platforms that require it.
func (t *Tray) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	t.mu.Lock()
	mode := t.mode
	t.mu.Unlock()

	systray.SetTooltip(t.cfg.Tooltip)

	modeItem := systray.AddMenuItem(modeLabel(mode), "Current input mode")
	modeItem.Disable()
	hint := systray.AddMenuItem("Ctrl+Shift to switch", "")
	hint.Disable()
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop SmartInput")

	t.mu.Lock()
	t.modeItem = modeItem
	t.ready = true
	t.applyLocked(mode)
	t.mu.Unlock()

	go func() {
		<-quit.ClickedCh
		systray.Quit()
	}()

	t.log.Debug("tray ready", "mode", mode.String())
}

func (t *Tray) onExit() {
	if t.cfg.OnQuit != nil {
		t.cfg.OnQuit()
	}
}

// ModeChanged updates the icon and menu label. Safe to call before the tray
// is ready; the mode is applied when it comes up.
func (t *Tray) ModeChanged(mode classify.Mode) {
	if mode == classify.Unknown {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = mode
	if t.ready {
		t.applyLocked(mode)
	}
}

func (t *Tray) applyLocked(mode classify.Mode) {
	if mode == classify.English {
		systray.SetIcon(t.englishIcon)
	} else {
		systray.SetIcon(t.pinyinIcon)
	}
	if t.modeItem != nil {
		t.modeItem.SetTitle(modeLabel(mode))
	}
}

func modeLabel(mode classify.Mode) string {
	if mode == classify.English {
		return "英文模式 (English)"
	}
	return "中文模式 (Pinyin)"
}
