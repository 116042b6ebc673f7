package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"
	"github.com/pkg/profile"

	"github.com/sergev/kale/runtime"
)

type cmdline struct {
	Config  string `help:"YAML configuration file."             short:"c" type:"path"`
	Profile string `help:"Write a runtime profile."             enum:"off,cpu,mem" default:"off"`
	Quiet   bool   `help:"Suppress IR echo for compiled forms." short:"q"`
	Script  string `arg:"" optional:"" help:"Script file to run, or '-' for stdin."`
}

func main() {
	var cl cmdline
	kong.Parse(&cl,
		kong.Name("kale"),
		kong.Description("Interactive front end for the kale expression language."),
		kong.UsageOnError(),
	)
	os.Exit(run(&cl))
}

func run(cl *cmdline) int {
	switch cl.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	cfg, err := loadConfig(cl.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kale: %v\n", err)
		return 1
	}

	sess := runtime.NewSession()
	sess.EchoIR = !cl.Quiet
	if err := cfg.apply(sess.Precedence); err != nil {
		fmt.Fprintf(os.Stderr, "kale: %v\n", err)
		return 1
	}

	if cl.Script != "" {
		if cl.Script == "-" {
			err = runtime.EvaluateReader(sess, os.Stdin)
		} else {
			err = runtime.EvaluateFile(sess, cl.Script)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "kale: %v\n", err)
			return 1
		}
		if sess.ErrorCount() > 0 {
			return 1
		}
		return 0
	}

	if !isInteractive() {
		if err := runtime.EvaluateReader(sess, os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "kale: %v\n", err)
			return 1
		}
		if sess.ErrorCount() > 0 {
			return 1
		}
		return 0
	}

	runREPL(sess, cfg.historyPath())
	return 0
}

func runREPL(sess *runtime.Session, historyPath string) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	needMore := false
	for {
		prompt := "ready> "
		if needMore {
			prompt = "...... "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				sess.Discard()
				needMore = false
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				sess.Finish()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		if trimmed := strings.TrimSpace(input); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		needMore = sess.Feed(input + "\n")
	}
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
