package hierarchy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/sch"
	"github.com/kicadtoolkit/hiercad/pkg/kicad/units"
)

// Opener abstracts reading a schematic file by its normalized path, so
// the loader can be driven from an in-memory fixture in tests instead of
// the real filesystem.
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// osOpener reads files directly off disk.
type osOpener struct{}

func (osOpener) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

// FileRecord is one parsed schematic file: its sheet and component
// records, plus the sheet-ID to file-index links discovered while
// parsing it. Links are filled in as each sheet's sub-sheet file is
// resolved, not necessarily before the file itself finishes parsing.
type FileRecord struct {
	Index      int
	Path       string
	Sheets     []*sch.SheetRecord
	Components []*sch.ComponentRecord
	Links      map[string]int // sheet ID -> index into Graph.Files
}

// Graph is the arena of every file reachable from a project's root
// schematic, indexed by stable integer so links never need to hold a
// pointer back into another record.
type Graph struct {
	Files       []*FileRecord
	indexByPath map[string]int
}

// RootIndex is the file index of the root schematic passed to Load.
const RootIndex = 0

// Load parses rootPath and every sub-sheet file it transitively
// references, each at most once, and links each sheet entry to its
// target file's index. A sub-sheet path is resolved with
// units.NormalizePath against the directory of the file that
// references it, so Windows/Cygwin/Linux-authored projects all load the
// same way. If opener is nil, files are read from the local disk.
func Load(rootPath string, opener Opener) (*Graph, error) {
	if opener == nil {
		opener = osOpener{}
	}

	g := &Graph{indexByPath: make(map[string]int)}
	g.enqueue(units.NormalizePath(rootPath, ""))

	for i := 0; i < len(g.Files); i++ {
		if err := g.parseFile(g.Files[i], opener); err != nil {
			return nil, fmt.Errorf("hierarchy: loading %s: %w", g.Files[i].Path, err)
		}
	}
	return g, nil
}

func (g *Graph) enqueue(path string) int {
	if idx, ok := g.indexByPath[path]; ok {
		return idx
	}
	idx := len(g.Files)
	g.indexByPath[path] = idx
	g.Files = append(g.Files, &FileRecord{Index: idx, Path: path, Links: make(map[string]int)})
	return idx
}

func (g *Graph) parseFile(fr *FileRecord, opener Opener) error {
	rc, err := opener.Open(fr.Path)
	if err != nil {
		return err
	}
	defer rc.Close()

	dir := dirOf(fr.Path)
	p := sch.NewParser(rc)
	for p.Next() {
		ev := p.Event()
		switch ev.State {
		case sch.SheetExit:
			fr.Sheets = append(fr.Sheets, ev.Sheet)
			subPath := units.NormalizePath(ev.Sheet.File.Get(), dir)
			fr.Links[ev.Sheet.ID.Get()] = g.enqueue(subPath)
		case sch.CompExit:
			// power symbols (#PWR, #FLG) are annotation artifacts, not
			// components a board carries
			if ev.Comp.Ref != nil && strings.HasPrefix(ev.Comp.Ref.Get(), "#") {
				continue
			}
			fr.Components = append(fr.Components, ev.Comp)
		}
	}
	return p.Err()
}

func dirOf(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}
