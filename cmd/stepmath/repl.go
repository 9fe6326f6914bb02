package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const historyFile = ".stepmath_history"

func cmdRepl(_ []string) int {
	fmt.Println("stepmath REPL: enter an expression or equation, :quit to exit")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("==> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			return 0
		}
		out, frames, comments, err := run(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		printSteps(os.Stdout, frames, comments)
		fmt.Println("=>", out)
		ln.AppendHistory(input)
	}
}
