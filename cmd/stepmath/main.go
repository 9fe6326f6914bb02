package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/simplify"
	"github.com/agenthands/stepmath/pkg/token"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "simplify":
		os.Exit(cmdSimplify(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "play":
		os.Exit(cmdPlay(os.Args[2:]))
	default:
		fmt.Println("Unknown command:", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`Usage: stepmath <command> [args]

Commands:
  simplify [-steps] <input>   reduce an expression or equation
  repl                        interactive session
  play <input>                step through the derivation`)
}

func cmdSimplify(args []string) int {
	fs := flag.NewFlagSet("simplify", flag.ExitOnError)
	steps := fs.Bool("steps", false, "print the step-by-step derivation")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("Usage: stepmath simplify [-steps] <input>")
		return 2
	}
	input := strings.Join(fs.Args(), " ")
	out, frames, comments, err := run(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *steps {
		printSteps(os.Stdout, frames, comments)
	}
	fmt.Println(out)
	return 0
}

// run parses the input and dispatches to the expression or equation
// simplifier.
func run(input string) (string, [][]*token.Token, [][]string, error) {
	lhs, rhs, isEquation, err := parse.Source(input)
	if err != nil {
		return "", nil, nil, err
	}
	if isEquation {
		if !classify.IsEquation(lhs, rhs) {
			return "", nil, nil, fmt.Errorf("malformed equation: %s", input)
		}
		res, err := simplify.Equation(lhs, rhs)
		if err != nil {
			return "", nil, nil, err
		}
		return res.Output, res.Frames, res.Comments, nil
	}
	res, err := simplify.Expression(lhs)
	if err != nil {
		return "", nil, nil, err
	}
	return res.Output, res.Frames, res.Comments, nil
}

func printSteps(w *os.File, frames [][]*token.Token, comments [][]string) {
	for i, frame := range frames {
		for _, c := range comments[i] {
			fmt.Fprintln(w, "  #", c)
		}
		fmt.Fprintln(w, parse.Render(frame))
	}
}
