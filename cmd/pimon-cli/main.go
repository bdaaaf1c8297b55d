// Diagnostic REPL for a running pimon agent. Talks plain HTTP to the
// agent's API, so it works over the network as well as on the device.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"

	"pimon/helpers/cli"
	"pimon/log2"
)

var log = log2.NewStderr(log2.LDebug)

var client = &http.Client{Timeout: 10 * time.Second}

var base string

func main() {
	flagAddr := flag.String("addr", "http://127.0.0.1:3030", "agent API base URL")
	flag.Parse()
	base = strings.TrimRight(*flagAddr, "/")
	log.SetFlags(log2.LInteractiveFlags)

	cli.MainLoop(execLine, completer)
}

func completer(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "status", Description: "agent uptime, LED and last reading"},
		{Text: "sensor", Description: "latest sensor reading"},
		{Text: "display", Description: "rendered display content"},
		{Text: "led on", Description: "force LED on"},
		{Text: "led off", Description: "force LED off"},
		{Text: "exit", Description: ""},
	}
	return prompt.FilterFuzzy(suggests, d.GetWordBeforeCursor(), true)
}

func execLine(line string) {
	line = strings.TrimSpace(line)
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// loop=N status  reruns the rest of the line N times
	if n, ok := strings.CutPrefix(words[0], "loop="); ok {
		count, err := strconv.Atoi(n)
		if err != nil || count <= 0 || len(words) < 2 {
			log.Errorf("usage: loop=N command")
			return
		}
		rest := strings.Join(words[1:], " ")
		for i := 0; i < count; i++ {
			execLine(rest)
		}
		return
	}

	switch words[0] {
	case "status":
		get("/status")
	case "sensor":
		get("/sensor")
	case "display":
		get("/display")
	case "led":
		if len(words) != 2 || (words[1] != "on" && words[1] != "off") {
			log.Errorf("usage: led on|off")
			return
		}
		postLed(words[1] == "on")
	case "exit", "quit":
		os.Exit(0)
	default:
		log.Errorf("unknown command: %s", line)
	}
}

func get(path string) {
	resp, err := client.Get(base + path)
	if err != nil {
		log.Errorf("GET %s: %v", path, err)
		return
	}
	show(path, resp)
}

func postLed(on bool) {
	body := fmt.Sprintf(`{"state": %t}`, on)
	resp, err := client.Post(base+"/led", "application/json", strings.NewReader(body))
	if err != nil {
		log.Errorf("POST /led: %v", err)
		return
	}
	show("/led", resp)
}

func show(path string, resp *http.Response) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("%s read body: %v", path, err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		log.Errorf("%s status=%s body=%s", path, resp.Status, b)
		return
	}
	fmt.Println(strings.TrimSpace(string(b)))
}
