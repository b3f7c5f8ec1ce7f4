// Command corevmshell is an interactive inspector for the object model and
// collector, grounded on the teacher's Interpreter.Repl: a readline
// history/completion loop that swallows and prints errors instead of
// letting them kill the session. Where the teacher's Repl reads and
// compiles source text, this one reads small assembly-style commands that
// exercise the runtime directly, since this module has no front-end to
// compile source with.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bobappleyard/corevm"
	"github.com/bobappleyard/readline"
)

var commands = []string{"alloc-int", "alloc-string", "heap-stats", "gc", "debug", "help", "quit"}

// bench is where allocated values live between commands, standing in for
// the stack frame emitted code would hold them in.
var bench []*corevm.Value

func main() {
	fmt.Println("corevm shell -- type 'help' for commands, 'quit' to exit")

	readline.Completer = func(query, ctx string) []string {
		var res []string
		for _, c := range commands {
			if strings.HasPrefix(c, query) {
				res = append(res, c)
			}
		}
		return res
	}

	for {
		if runOne() {
			break
		}
	}
	fmt.Println()
}

// runOne reads and executes a single command, swallowing and printing any
// panic exactly as the teacher's Repl does, and reports whether the
// session should end.
func runOne() (done bool) {
	defer func() {
		if e := recover(); e != nil {
			fmt.Printf("\033[1;31m%s\033[0m\n", e)
		}
	}()

	r := readline.Reader()
	buf := make([]byte, 4096)
	n, e := r.Read(buf)
	if e == io.EOF {
		return true
	}
	line := strings.TrimSpace(string(buf[:n]))
	if line == "" {
		return false
	}
	readline.AddHistory(line)

	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		printHelp()
	case "alloc-int":
		n, err := strconv.ParseInt(arg(fields, 1, "0"), 10, 64)
		if err != nil {
			fmt.Println("usage: alloc-int <n>")
			return false
		}
		v := corevm.MakeInt(n)
		bench = append(bench, v)
		fmt.Printf("#%d = int %d (on_stack=%v)\n", len(bench)-1, v.Int64(), v.OnStack())
	case "alloc-string":
		s := strings.Join(fields[1:], " ")
		v := corevm.MakeString([]byte(s))
		bench = append(bench, v)
		fmt.Printf("#%d = string %q (on_stack=%v)\n", len(bench)-1, v.Bytes(), v.OnStack())
	case "heap-stats":
		fmt.Printf("heap objects: %d, bench values: %d\n", corevm.HeapLen(), len(bench))
	case "gc":
		before := corevm.HeapLen()
		bench = corevm.Collect(bench)
		fmt.Printf("gc: promoted %d bench values (heap objects: %d -> %d)\n", len(bench), before, corevm.HeapLen())
	case "debug":
		on := arg(fields, 1, "on") != "off"
		corevm.SetDebug(on)
		fmt.Printf("debug = %v\n", on)
	default:
		fmt.Printf("unknown command %q (try 'help')\n", fields[0])
	}
	return false
}

func arg(fields []string, i int, dflt string) string {
	if i < len(fields) {
		return fields[i]
	}
	return dflt
}

func printHelp() {
	fmt.Println("commands:")
	fmt.Println("  alloc-int <n>       allocate a stack-side integer value")
	fmt.Println("  alloc-string <str>  allocate a stack-side string value")
	fmt.Println("  heap-stats          report the heap bookkeeping vector size")
	fmt.Println("  gc                  force a minor+major collection over the bench")
	fmt.Println("  debug [on|off]      toggle GC tracing and value provenance")
	fmt.Println("  quit                leave the shell")
}
