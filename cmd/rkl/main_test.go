package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rkl-go/rkl/internal/layout"
)

const fixtureSource = `
(defsrc a b c)
(deflayer default a x c)
`

const alignmentFixtureSource = `
(defsrc a spc c)
(deflayer default a x c)
`

func TestRunWritesKanataToFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "layout.rkl")
	if err := os.WriteFile(src, []byte(fixtureSource), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.kbd")

	if err := run([]string{"--kanata", out, src}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(got), "(defsrc a b c)") {
		t.Fatalf("got %q, want a defsrc line", got)
	}
}

func TestRunRejectsWrongArgCount(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatalf("expected an error with no source argument")
	}
}

const twoLayerFixtureSource = `
(defsrc a b c)
(deflayer default a x c)
(deflayer (nav default) _ x _)
`

func TestDescribeListsLayersInIndexOrder(t *testing.T) {
	// The synthetic "src" layer is removed by prepare_layers (spec.md
	// §4.4 step 3), so describe only ever sees the layers actually
	// declared by the source: "default" (form index 1) before "nav"
	// (form index 2, declared with "default" as its parent).
	l, err := layout.Parse(twoLayerFixtureSource)
	if err != nil {
		t.Fatalf("layout.Parse: %v", err)
	}
	var buf bytes.Buffer
	describe(&buf, l)

	out := buf.String()
	if strings.Contains(out, "layer src") {
		t.Fatalf("got %q, want the synthetic src layer removed", out)
	}
	if !strings.Contains(out, "layer default") || !strings.Contains(out, "layer nav") {
		t.Fatalf("got %q, want both layers listed", out)
	}
	if strings.Index(out, "layer default") > strings.Index(out, "layer nav") {
		t.Fatalf("got %q, want default (index 1) listed before nav (index 2)", out)
	}
}

func TestDescribeAlignsColumnsByDisplayWidth(t *testing.T) {
	l, err := layout.Parse(alignmentFixtureSource)
	if err != nil {
		t.Fatalf("layout.Parse: %v", err)
	}
	var buf bytes.Buffer
	describe(&buf, l)

	lines := strings.Split(buf.String(), "\n")
	var srcLines []string
	inSrc := false
	for _, line := range lines {
		if line == "layer default" {
			inSrc = true
			continue
		}
		if inSrc && line == "" {
			break
		}
		if inSrc {
			srcLines = append(srcLines, line)
		}
	}
	if len(srcLines) != 3 {
		t.Fatalf("got %d data lines in layer default, want 3: %q", len(srcLines), srcLines)
	}

	// The src layer is removed before describe runs, so this checks the
	// default layer's rows; the action column should still start at the
	// same byte offset on every line regardless of how wide the key name
	// itself ("KeyA" vs "Space" vs "KeyC") is.
	offsets := make([]int, len(srcLines))
	for i, line := range srcLines {
		offsets[i] = strings.LastIndex(line, "  ") + 2
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] != offsets[0] {
			t.Fatalf("got action columns at %v, want them aligned: %q", offsets, srcLines)
		}
	}
}
