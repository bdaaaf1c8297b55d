// Monitoring agent for a single-board computer: samples a sensor, blinks
// an LED, renders a status screen and serves the state over HTTP. One
// binary covers real hardware and a terminal simulation, selected by
// config.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	qrcode "github.com/skip2/go-qrcode"

	"pimon/helpers"
	"pimon/internal/api"
	"pimon/internal/state"
	"pimon/internal/task"
	"pimon/log2"
)

var BuildVersion string = "unknown" // set by ldflags

func main() {
	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	flags := parseFlags()

	interactive := isatty.IsTerminal(os.Stderr.Fd())
	if !interactive {
		// assume systemd journal logging, timestamps are redundant
		log.SetFlags(log2.LServiceFlags)
	}
	log.Infof("pimon version=%s", BuildVersion)

	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion
	defer g.Close()

	config := state.MustReadConfig(log, state.NewOsFullReader(""), flags.config)
	g.MustInit(ctx, config)
	log.Debugf("config=%+v", config)

	task.Start(g)

	server := api.NewServer(g)
	if interactive {
		logApiQR(log, config.Listen)
	}

	sdnotify(log, daemon.SdNotifyReady)

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigch
		log.Infof("signal=%v stopping", sig)
		sdnotify(log, daemon.SdNotifyStopping)
		g.Stop()
	}()

	errch := make(chan error, 1)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go helpers.WrapErrChan(&wg, errch, server.Serve)

	// Serve returns on a listen error or once Stop closes the listener.
	wg.Wait()
	g.Stop()
	if !g.StopWait(10 * time.Second) {
		log.Errorf("tasks did not stop in time")
	}
	close(errch)
	if err := helpers.FoldErrChan(errch); err != nil {
		g.Fatal(err)
	}
}

type cmdFlags struct {
	config string
}

func parseFlags() cmdFlags {
	f := cmdFlags{}
	flag.StringVar(&f.config, "config", "pimon.hcl", "")
	flag.Parse()
	return f
}

// logApiQR prints a terminal QR of the API base URL so a phone on the
// same network can reach the agent without typing the address.
func logApiQR(log *log2.Log, listen string) {
	url := "http://" + listen
	if strings.HasPrefix(listen, ":") {
		if host, err := os.Hostname(); err == nil {
			url = "http://" + host + listen
		}
	}
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		log.Errorf("qr encode url=%s: %v", url, err)
		return
	}
	log.Infof("api url=%s\n%s", url, qr.ToSmallString(false))
}

func sdnotify(log *log2.Log, s string) {
	if _, err := daemon.SdNotify(false, s); err != nil {
		log.Errorf("sdnotify: %s", errors.ErrorStack(err))
	}
}
