// smartinput - pinyin-aware input shim
//
//	smartinput run              Run the input daemon (default)
//	smartinput ibus             Run as a Linux IBus engine frontend
//	smartinput status           Show daemon status
//	smartinput switch           Force a mode switch on the running daemon
//	smartinput stop             Stop the running daemon
//	smartinput lookup <pinyin>  Resolve pinyin to candidates via the daemon
//	smartinput version          Print version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"smartinput/internal/config"
	"smartinput/internal/dict"
	"smartinput/internal/engine"
	"smartinput/internal/hook"
	"smartinput/internal/ibus"
	"smartinput/internal/ipc"
	"smartinput/internal/logging"
	"smartinput/internal/pinyin"
	"smartinput/internal/tray"
	"smartinput/internal/ui"
)

const version = "1.0.0"

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "run":
		cmdRun(args, false)
	case "ibus":
		cmdRun(args, true)
	case "status":
		cmdStatus(args)
	case "switch":
		cmdSwitch(args)
	case "stop":
		cmdStop(args)
	case "lookup":
		cmdLookup(args)
	case "version", "-v", "--version":
		fmt.Println("smartinput", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`smartinput - pinyin-aware input shim

USAGE:
    smartinput [command] [options]

COMMANDS:
    run                 Run the input daemon (default when no command given)
    ibus                Run as a Linux IBus engine frontend
    status              Show mode, buffer and counters of the running daemon
    switch              Force a mode switch, exactly like Ctrl+Shift
    stop                Stop the running daemon
    lookup <pinyin>     Resolve a pinyin string to ranked candidates
    version             Print version
    help                Show this help message

While running, smartinput buffers Latin letters globally, classifies the
buffer as Pinyin or English from its first character, offers Hanzi
candidates for Pinyin, and commits on Space/Enter or digits 1-5.
Ctrl+Shift forces a mode switch; Escape stops the daemon.

Configuration lives at ~/.smartinput/config.toml and is created on first
run. TOML, JSON and YAML are all accepted.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// cmdRun brings up the full daemon: dictionary, engine, hook or IBus capture,
// UI worker, tray and IPC server.
func cmdRun(args []string, useIBus bool) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (default ~/.smartinput/config.toml)")
	noTray := fs.Bool("no-tray", false, "disable the tray icon")
	fs.Parse(args)

	cfg, created, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}

	logCfg, err := cfg.LoggingSetup()
	if err != nil {
		fatal("configure logging: %v", err)
	}
	log, err := logging.New(logCfg)
	if err != nil {
		fatal("initialize logging: %v", err)
	}
	defer log.Close()
	logging.SetDefault(log)

	if created {
		log.Info("wrote default config", "path", config.ConfigPath())
	}
	log.Info("smartinput starting", "version", version, "frontend", frontendName(useIBus))

	// Dictionary: embedded base, user overlay, learned store.
	d, err := dict.LoadBase()
	if err != nil {
		fatal("load base dictionary: %v", err)
	}
	if p := cfg.Dictionary.UserDictPath; p != "" {
		if err := d.MergeFile(p); err != nil {
			log.Warn("user dictionary not merged", "path", p, "error", err)
		}
	}

	var store *dict.Store
	if cfg.Dictionary.Learn {
		store, err = dict.OpenStore(cfg.Dictionary.StorePath)
		if err != nil {
			log.Warn("learned-words store unavailable", "path", cfg.Dictionary.StorePath, "error", err)
		} else {
			defer store.Close()
			if rows, err := store.All(); err == nil {
				d.MergeLearned(rows)
			} else {
				log.Warn("could not read learned words", "error", err)
			}
		}
	}
	log.Info("dictionary ready", "entries", d.Size())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot reload of the user dictionary.
	if p := cfg.Dictionary.UserDictPath; p != "" && cfg.Dictionary.WatchUserDict {
		err := dict.Watch(ctx, p,
			func() {
				if err := d.MergeFile(p); err != nil {
					log.Warn("user dictionary reload failed", "error", err)
					return
				}
				log.Info("user dictionary reloaded", "entries", d.Size())
			},
			func(err error) {
				log.Warn("user dictionary watch error", "error", err)
			})
		if err != nil {
			log.Warn("user dictionary watch unavailable", "error", err)
		}
	}

	// Config hot reload reports changes; a restart applies them.
	loader := config.NewLoader(configPathOrDefault(*configPath))
	if _, err := loader.Load(); err == nil {
		loader.OnChange(func(*config.Config) {
			log.Info("configuration changed on disk, restart to apply")
		})
		if err := loader.Watch(); err != nil {
			log.Debug("config watch unavailable", "error", err)
		}
		defer loader.Close()
	}

	lookup := func(p string, topK int) []string {
		return pinyin.Lookup(d, p, topK)
	}

	queue := ui.NewQueue(cfg.UI.QueueSize)
	go queue.Run(ctx, ui.ConsoleRenderer{})

	var tr *tray.Tray
	trayEnabled := cfg.Tray.Enabled && !*noTray
	if trayEnabled {
		tr = tray.New(tray.Config{
			Tooltip:         cfg.Tray.Tooltip,
			PinyinIconPath:  cfg.Tray.PinyinIconPath,
			EnglishIconPath: cfg.Tray.EnglishIconPath,
			OnQuit:          cancel,
			Logger:          log.WithComponent("tray"),
		})
	}

	engCfg := engine.Config{
		TopK:   cfg.Input.TopK,
		Lookup: lookup,
		UI:     queue,
		Output: logOutput{log: log.WithComponent("output")},
		OnStop: cancel,
		Logger: log.WithComponent("engine"),
	}
	if tr != nil {
		engCfg.Tray = tr
	}
	if store != nil {
		engCfg.Learner = &selectionLearner{d: d, store: store, log: log}
	}

	// Key capture: IBus frontend or the global hook. Under IBus the frontend
	// renders preedit and commits text itself.
	var front *ibus.Frontend
	if useIBus {
		front = ibus.New(log.WithComponent("ibus"))
		engCfg.UI = front
		engCfg.Output = front
	}
	eng := engine.New(engCfg)

	if useIBus {
		front.SetEngine(eng)
		if err := front.Start(ctx); err != nil {
			fatal("start ibus frontend: %v", err)
		}
		defer front.Stop()
	} else {
		src := hook.New(log.WithComponent("hook"))
		src.Start(ctx)
		go eng.Run(ctx, src.Events())
	}

	// IPC control socket.
	if cfg.IPC.Enabled {
		srv := ipc.NewServer(ipc.ServerConfig{
			SocketPath: cfg.IPC.SocketPath,
			Logger:     log.WithComponent("ipc"),
		}, &ipc.DaemonHandler{
			Version: version,
			Engine:  eng,
			Lookup:  lookup,
			Stop:    cancel,
		})
		if err := srv.Start(); err != nil {
			fatal("start ipc server: %v", err)
		}
		defer srv.Stop()
	}

	// Stop on SIGINT/SIGTERM alongside Escape, tray Quit and IPC stop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Info("signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	if tr != nil {
		// systray insists on the main goroutine; it returns when the
		// context is cancelled or the user quits.
		tr.Run(ctx)
		cancel()
	} else {
		<-ctx.Done()
	}

	log.Info("smartinput stopped")
}

func frontendName(useIBus bool) string {
	if useIBus {
		return "ibus"
	}
	return "hook"
}

func configPathOrDefault(path string) string {
	if path == "" {
		return config.ConfigPath()
	}
	return path
}

// logOutput is the reference commit sink: committed text goes to the log in
// commit order.
type logOutput struct {
	log *logging.Logger
}

func (o logOutput) Commit(text string) {
	o.log.Info("commit", "text", text)
}

// selectionLearner boosts picked words in memory and persists them.
type selectionLearner struct {
	d     *dict.Dict
	store *dict.Store
	log   *logging.Logger
}

func (l *selectionLearner) Selected(pinyin, word string) {
	l.d.Boost(pinyin, word, dict.SelectionBoost)
	if err := l.store.RecordSelection(pinyin, word); err != nil {
		l.log.Warn("could not persist selection", "pinyin", pinyin, "word", word, "error", err)
	}
}

// dialDaemon connects to the daemon socket from the configured path.
func dialDaemon(configPath string) *ipc.Client {
	cfg, _, err := config.LoadOrCreate(configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if !cfg.IPC.Enabled {
		fatal("ipc is disabled in the configuration")
	}
	c, err := ipc.Dial(cfg.IPC.SocketPath, 0)
	if err != nil {
		fatal("is the daemon running? %v", err)
	}
	return c
}

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	c := dialDaemon(*configPath)
	defer c.Close()

	status, err := c.Status()
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("smartinput %s\n", status.Version)
	fmt.Printf("  Mode:       %s\n", status.Mode)
	fmt.Printf("  Buffer:     %q\n", status.Buffer)
	if len(status.Candidates) > 0 {
		fmt.Printf("  Candidates: %s\n", strings.Join(status.Candidates, " "))
	}
	fmt.Printf("  Keystrokes: %d\n", status.Keystrokes)
	fmt.Printf("  Commits:    %d\n", status.Commits)
	fmt.Printf("  Switches:   %d\n", status.Switches)
	fmt.Printf("  Uptime:     %s\n", status.Uptime)
}

func cmdSwitch(args []string) {
	fs := flag.NewFlagSet("switch", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	c := dialDaemon(*configPath)
	defer c.Close()

	mode, err := c.SwitchMode()
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println("Mode:", mode)
}

func cmdStop(args []string) {
	fs := flag.NewFlagSet("stop", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	c := dialDaemon(*configPath)
	defer c.Close()

	if err := c.Stop(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("Daemon stopping.")
}

func cmdLookup(args []string) {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	topK := fs.Int("n", engine.DefaultTopK, "number of candidates")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("usage: smartinput lookup [-n N] <pinyin>")
	}
	query := fs.Arg(0)

	c := dialDaemon(*configPath)
	defer c.Close()

	candidates, err := c.Lookup(query, *topK)
	if err != nil {
		fatal("%v", err)
	}
	if len(candidates) == 0 {
		fmt.Printf("%s: no candidates\n", query)
		return
	}
	for i, cand := range candidates {
		fmt.Printf("%d. %s\n", i+1, cand)
	}
}
