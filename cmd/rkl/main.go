// Command rkl compiles a layer-definition source into either a kanata
// text configuration or a live binary programming run against a Vial
// keyboard over USB-HID.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/mattn/go-runewidth"
	term "github.com/pkg/term"

	"github.com/rkl-go/rkl/internal/hidtransport"
	"github.com/rkl-go/rkl/internal/hidtransport/hidraw"
	"github.com/rkl-go/rkl/internal/kanata"
	"github.com/rkl-go/rkl/internal/layout"
	"github.com/rkl-go/rkl/internal/rsrc"
	"github.com/rkl-go/rkl/internal/vial"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rkl", flag.ContinueOnError)
	vialFlag := fs.Bool("vial", false, "program an attached Vial keyboard over USB-HID")
	kanataFlag := fs.String("kanata", "", "write a kanata text configuration to PATH (- for stdout)")
	describeFlag := fs.Bool("describe", false, "print a column-aligned summary of the parsed layers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: rkl [--vial] [--kanata PATH|-] [--describe] SOURCE")
	}
	source := fs.Arg(0)

	content, err := rsrc.ReadFile(source)
	if err != nil {
		return err
	}
	l, err := layout.Parse(content)
	if err != nil {
		return err
	}

	if *describeFlag {
		describe(os.Stdout, l)
	}
	if *kanataFlag != "" {
		if err := writeKanata(l, *kanataFlag); err != nil {
			return err
		}
	}
	if *vialFlag {
		if err := programVial(l); err != nil {
			return err
		}
	}
	return nil
}

func writeKanata(l *layout.Layout, path string) error {
	text, err := kanata.Emit(l)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err := fmt.Fprint(os.Stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// programVial drives a real device. Programming runs on its own
// goroutine; a SIGINT during the run exits the process immediately
// rather than waiting for the goroutine to unwind, matching the
// compiler's cooperative-cancellation-by-process-exit posture — a
// partial programming run leaves the device in whatever state it
// reached, and the caller is expected to simply re-run the compiler.
func programVial(l *layout.Layout) error {
	t, err := hidraw.Open(nil)
	if err != nil {
		return err
	}
	defer t.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)

	cancelKey := watchForCancelKey(sigCh)

	done := make(chan error, 1)
	go func() { done <- vial.Emit(l, t, os.Stderr) }()

	select {
	case err := <-done:
		return err
	case <-sigCh:
		fmt.Fprintln(os.Stderr, "\nrkl: interrupted, aborting (device may be partially programmed)")
		os.Exit(130)
	case <-cancelKey:
		fmt.Fprintln(os.Stderr, "\nrkl: canceled, aborting (device may be partially programmed)")
		os.Exit(130)
	}
	return nil
}

// watchForCancelKey puts the controlling terminal into raw mode so a
// single keypress, not just Ctrl-C, can cancel the interactive unlock
// wait without requiring Enter. Failure to open a controlling tty (no
// terminal attached, e.g. when driven from a script) silently disables
// this and leaves SIGINT as the only cancellation path.
func watchForCancelKey(sigCh chan os.Signal) <-chan struct{} {
	out := make(chan struct{})
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return out
	}
	go func() {
		defer tty.Restore()
		defer tty.Close()
		buf := make([]byte, 1)
		for {
			n, err := tty.Read(buf)
			if err != nil {
				return
			}
			if n > 0 {
				close(out)
				return
			}
		}
	}()
	return out
}

func describe(w io.Writer, l *layout.Layout) {
	indexToKey := make(map[int]string, len(l.Keyboard.Source))
	for k, idx := range l.Keyboard.Source {
		indexToKey[idx] = k.String()
	}

	names := make([]string, 0, len(l.Layers))
	for name := range l.Layers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return l.Layers[names[i]].Index < l.Layers[names[j]].Index })

	for _, name := range names {
		ly := l.Layers[name]
		fmt.Fprintf(w, "layer %s\n", ly.Name)

		indices := make([]int, 0, len(ly.Keys))
		for idx := range ly.Keys {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		width := 0
		for _, idx := range indices {
			if n := runewidth.StringWidth(indexToKey[idx]); n > width {
				width = n
			}
		}
		for _, idx := range indices {
			key := indexToKey[idx]
			pad := width - runewidth.StringWidth(key)
			fmt.Fprintf(w, "  %s%s  %s\n", key, spaces(pad), ly.Keys[idx].String())
		}
		fmt.Fprintln(w)
	}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
