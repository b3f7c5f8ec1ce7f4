// Command corevmdemo hand-assembles the CPS procedures a compiler backend
// would emit for a handful of literal scenarios and links them against
// corevm.SchemeStart. Generating that assembly is out of scope for this
// module; demonstrating what the runtime does with it is not.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bobappleyard/corevm"
	"github.com/bobappleyard/corevm/envtable"
	"github.com/bobappleyard/corevm/internal/diag"
)

func main() {
	debug := flag.Bool("debug", false, "enable verbose GC tracing and value provenance")
	noColor := flag.Bool("no-color", false, "disable ANSI colored log output")
	flag.Parse()

	if *noColor {
		diag.NoColor()
	}
	corevm.SetDebug(*debug)

	// This host runs three independent programs back to back, so it
	// intercepts halt_func's exit rather than letting the first scenario
	// end the whole process.
	lastCode := 0
	corevm.SetExitFunc(func(code int) { lastCode = code })

	runHalt()
	runFactorial()
	runCountdown()

	os.Exit(lastCode)
}

/*******************************************************************************

	S1: halt is the initial thunk's continuation

*******************************************************************************/

func runHalt() {
	fmt.Println("--- scenario: halt ---")
	corevm.SchemeStart(corevm.NewInitialThunk(corevm.NewHalt(), corevm.MakeVoid()))
}

/*******************************************************************************

	S2: CPS factorial

*******************************************************************************/

const (
	factVarN    envtable.VarID = 0
	factVarCont envtable.VarID = 1
)

func runFactorial() {
	fmt.Println("--- scenario: cps factorial(6) ---")

	corevm.SetEnvTable(envtable.New(envtable.Entry{
		EnvID:  1,
		VarIDs: []envtable.VarID{factVarN, factVarCont},
	}))

	var fact *corevm.Value

	mulCont := func(env, rand *corevm.Value) {
		n := corevm.EnvGet(env, factVarN).Int64()
		outer := corevm.EnvGet(env, factVarCont)
		corevm.CallOne(outer, corevm.MakeInt(n*rand.Int64()))
	}

	factBody := func(env, rand, cont *corevm.Value) {
		n := rand.Int64()
		if n == 0 {
			corevm.CallOne(cont, corevm.MakeInt(1))
			return
		}
		frame := corevm.EnvWith(corevm.EnvWith(corevm.EnvNew(2), factVarN, corevm.MakeInt(n)), factVarCont, cont)
		corevm.CallTwo(fact, corevm.MakeInt(n-1), corevm.MakeClosure1(mulCont, 1, frame))
	}
	fact = corevm.MakeClosure2(factBody, 0, corevm.EnvNew(0))

	report := func(env, rand *corevm.Value) {
		fmt.Printf("factorial(6) = %d\n", rand.Int64())
		corevm.CallOne(corevm.NewHalt(), corevm.MakeVoid())
	}

	corevm.SchemeStart(corevm.NewInitialThunkTwo(fact, corevm.MakeInt(6), corevm.MakeClosure1(report, 0, corevm.EnvNew(0))))
}

/*******************************************************************************

	S4-flavored: a deep self-tail-calling countdown, forcing repeated bounces

*******************************************************************************/

func runCountdown() {
	fmt.Println("--- scenario: deep tail-call countdown ---")

	oldDepth := corevm.MaxCallDepth
	corevm.MaxCallDepth = 256
	defer func() { corevm.MaxCallDepth = oldDepth }()

	var loop *corevm.Value
	body := func(env, rand *corevm.Value) {
		n := rand.Int64()
		if n <= 0 {
			fmt.Println("countdown reached 0")
			corevm.CallOne(corevm.NewHalt(), corevm.MakeVoid())
			return
		}
		corevm.CallOne(loop, corevm.MakeInt(n-1))
	}
	loop = corevm.MakeClosure1(body, 0, corevm.EnvNew(0))

	corevm.SchemeStart(corevm.NewInitialThunk(loop, corevm.MakeInt(2_000_000)))

	fmt.Fprintf(os.Stderr, "heap objects after countdown: %d\n", corevm.HeapLen())
}
