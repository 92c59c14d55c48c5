package hierarchy

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// memOpener serves fixed schematic text for a set of normalized paths,
// standing in for the real filesystem in these tests.
type memOpener map[string]string

func (m memOpener) Open(path string) (io.ReadCloser, error) {
	src, ok := m[path]
	if !ok {
		return nil, errors.New("memOpener: no file at " + path)
	}
	return io.NopCloser(strings.NewReader(src)), nil
}

const rootSch = `EESchema Schematic File Version 4
$Descr A4 11693 8268
$EndDescr
$Sheet
S 1000 1000 500  300
U 00000001
F0 "Channel A" 60
F1 "sub/power.sch" 60
$EndSheet
$Sheet
S 2000 1000 500  300
U 00000002
F0 "Channel B" 60
F1 "sub/power.sch" 60
$EndSheet
$EndSCHEMATC
`

const subSch = `EESchema Schematic File Version 4
$Descr A4 11693 8268
$EndDescr
$Comp
L Device:R R1
U 1 1 AAAAAAAA
P 2000 2000
AR Path="/00000001/AAAAAAAA" Ref="R1"  Part="1"
AR Path="/00000002/AAAAAAAA" Ref="R2"  Part="1"
F 0 "R1" H 1950 1900 50  0000 C CNN
F 1 "10k" H 1950 1800 50  0000 C CNN
$EndComp
$EndSCHEMATC
`

func testFixture() memOpener {
	return memOpener{
		"root.sch":      rootSch,
		"sub/power.sch": subSch,
	}
}

func TestLoadParsesEachFileOnce(t *testing.T) {
	g, err := Load("root.sch", testFixture())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(g.Files) != 2 {
		t.Fatalf("expected 2 files (one root, sub-sheet deduplicated), got %d: %v", len(g.Files), pathsOf(g))
	}
	if g.Files[RootIndex].Path != "root.sch" {
		t.Errorf("root path = %q", g.Files[RootIndex].Path)
	}
	if g.Files[1].Path != "sub/power.sch" {
		t.Errorf("sub-sheet path = %q", g.Files[1].Path)
	}
	if len(g.Files[1].Components) != 1 {
		t.Fatalf("expected 1 component in sub-sheet, got %d", len(g.Files[1].Components))
	}
}

func TestLoadLinksSheetsToFileIndex(t *testing.T) {
	g, err := Load("root.sch", testFixture())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	root := g.Files[RootIndex]
	if len(root.Sheets) != 2 {
		t.Fatalf("expected 2 sheet entries, got %d", len(root.Sheets))
	}
	for _, sheet := range root.Sheets {
		target, ok := root.Links[sheet.ID.Get()]
		if !ok {
			t.Fatalf("sheet %q has no link", sheet.ID.Get())
		}
		if g.Files[target].Path != "sub/power.sch" {
			t.Errorf("sheet %q links to %q, want sub/power.sch", sheet.ID.Get(), g.Files[target].Path)
		}
	}
}

func TestLoadSkipsPowerSymbols(t *testing.T) {
	src := `EESchema Schematic File Version 4
$Comp
L power:GND #PWR01
U 1 1 BBBBBBBB
P 1000 1000
F 0 "#PWR01" H 1000 750 50  0001 C CNN
$EndComp
$Comp
L Device:R R1
U 1 1 AAAAAAAA
P 2000 2000
F 0 "R1" H 1950 1900 50  0000 C CNN
$EndComp
$EndSCHEMATC
`
	g, err := Load("root.sch", memOpener{"root.sch": src})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	comps := g.Files[RootIndex].Components
	if len(comps) != 1 {
		t.Fatalf("expected power symbol to be skipped, got %d components", len(comps))
	}
	if comps[0].Ref.Get() != "R1" {
		t.Errorf("kept component = %q, want R1", comps[0].Ref.Get())
	}
}

func pathsOf(g *Graph) []string {
	var out []string
	for _, f := range g.Files {
		out = append(out, f.Path)
	}
	return out
}
