// Command ircd runs the protocol engine as a standalone process: it parses
// the minimal CLI flag surface spec §6 defines, loads the config file,
// binds every configured <bind> listener, and drives the core's
// single-threaded main loop until signaled to stop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/okzk/sdnotify"

	"github.com/coregate/ircd/irc"
	"github.com/coregate/ircd/irc/config"
	"github.com/coregate/ircd/irc/logger"
)

var version = "" // set via linker flags at build time

func main() {
	usage := `ircd.
Usage:
	ircd [--conf <filename>] [--nolog] [--debug]
	ircd -h | --help
	ircd --version

Options:
	--conf <filename>  Configuration file to use [default: ircd.conf].
	--nolog            Suppress opening any configured log files.
	--debug            Force RawLog-level logging regardless of config.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, version)

	configPath := arguments["--conf"].(string)
	nolog := arguments["--nolog"].(bool)
	debug := arguments["--debug"].(bool)

	log := logger.NewManager()
	minLevel := logger.LevelDefault
	if debug {
		minLevel = logger.LevelRawIO
	}
	if !nolog {
		var stdoutMu sync.Mutex
		log.AddLogTypes(logger.NewStdStream(os.Stdout, &stdoutMu), []string{"*"}, nil, minLevel)
	}

	cfg, err := config.Load(configPath, config.Options{Log: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircd: config error: %v\n", err)
		os.Exit(1)
	}

	serverName := "irc.example.net"
	if t, ok := cfg.Tag("server"); ok {
		serverName = t.GetString("name", serverName)
	}

	s, err := irc.NewServer(cfg, serverName, time.Now().Unix())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircd: startup error: %v\n", err)
		os.Exit(1)
	}

	var addrs []string
	for _, t := range cfg.Tags("bind") {
		host := t.GetString("address", "0.0.0.0")
		port := t.GetString("port", "6667")
		addrs = append(addrs, fmt.Sprintf("%s:%s", host, port))
	}
	if len(addrs) == 0 {
		addrs = []string{"0.0.0.0:6667"}
	}

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
	}()

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = sdnotify.Ready()
	}()

	if err := s.Run(addrs, stop); err != nil {
		fmt.Fprintf(os.Stderr, "ircd: %v\n", err)
		_ = sdnotify.Stopping()
		os.Exit(1)
	}
	_ = sdnotify.Stopping()
}
