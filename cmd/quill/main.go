// Command quill evaluates quill expressions, either one-shot with -e or
// interactively in a REPL with history and completion.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/engine"
	"github.com/quill-lang/quill/internal/value"
)

const prompt = "quill> "

func main() {
	var (
		exprFlag   = flag.String("e", "", "evaluate a single expression and exit")
		configFlag = flag.String("config", "", "path to a YAML engine config")
		disasmFlag = flag.Bool("disasm", false, "with -e: print the compiled program instead of evaluating")
	)
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configFlag != "" {
		loaded, err := engine.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quill: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx := newContext()

	if *exprFlag != "" {
		if err := evalOnce(*exprFlag, cfg, ctx, *disasmFlag); err != nil {
			fmt.Fprintf(os.Stderr, "quill: %v\n", err)
			os.Exit(1)
		}
		return
	}

	repl(cfg, ctx)
}

// evalOnce parses and evaluates a single expression.
func evalOnce(source string, cfg engine.Config, ctx *ast.EvalContext, disasm bool) error {
	expr, err := engine.ParseWithConfig(source, cfg)
	if err != nil {
		return err
	}

	if disasm {
		if err := expr.Compile(); err != nil {
			return err
		}
		fmt.Print(expr.Program())
		return nil
	}

	out, err := expr.Eval(ctx)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// repl runs the interactive loop. Lines of the form "name = expr" bind a
// variable in the session context; everything else is evaluated.
func repl(cfg engine.Config, ctx *ast.EvalContext) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, name := range ctx.FuncNames() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
		return out
	})

	historyFile := filepath.Join(os.TempDir(), ".quill_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("quill expression shell — type 'exit' or Ctrl-D to quit")

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println("^C")
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "quill: %v\n", err)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}
		line.AppendHistory(input)

		name, source, isBinding := splitBinding(input)
		if !isBinding {
			source = input
		}

		expr, err := engine.ParseWithConfig(source, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		out, err := expr.Eval(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}

		if isBinding {
			ctx.SetVar(name, out)
		}
		fmt.Println(out)
	}
}

// splitBinding recognizes "name = expr" (but not "name == expr") and
// returns the variable name and the expression source.
func splitBinding(input string) (name, source string, ok bool) {
	i := strings.IndexByte(input, '=')
	if i <= 0 || i+1 >= len(input) || input[i+1] == '=' {
		return "", "", false
	}
	name = strings.TrimSpace(input[:i])
	if !isIdentifier(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(input[i+1:]), true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		letter := ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		digit := '0' <= ch && ch <= '9'
		if !letter && !(digit && i > 0) {
			return false
		}
	}
	return true
}

// newContext builds the session context with a few host functions so calls
// have something to call.
func newContext() *ast.EvalContext {
	ctx := ast.NewEvalContext()

	ctx.SetFunc("len", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		switch x := args[0].Raw().(type) {
		case string:
			return value.Int(int64(len(x))), nil
		case *value.List:
			return value.Int(int64(x.Len())), nil
		}
		return value.Value{}, fmt.Errorf("want a string or list, got %s", args[0].Desc())
	})

	ctx.SetFunc("abs", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		switch x := args[0].Raw().(type) {
		case int64:
			if x < 0 {
				x = -x
			}
			return value.Int(x), nil
		case float64:
			if x < 0 {
				x = -x
			}
			return value.Float(x), nil
		}
		return value.Value{}, fmt.Errorf("want a number, got %s", args[0].Desc())
	})

	return ctx
}
