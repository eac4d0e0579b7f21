package sim

import (
	"bytes"
	"fmt"

	"github.com/robotalks/gauge.go/pkg/device"
)

// ChunkSize is the largest export chunk.
const ChunkSize = 192

type files struct {
	stored    map[string][]byte
	exporting []byte
	exportOff int
	importing string
	importBuf bytes.Buffer
}

func (f *files) init() {
	f.stored = make(map[string][]byte)
}

// PutFile stores a file for export.
func (g *Gauge) PutFile(name string, data []byte) {
	g.lock.Lock()
	g.stored[name] = append([]byte(nil), data...)
	g.lock.Unlock()
}

// File returns a stored file.
func (g *Gauge) File(name string) ([]byte, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	data, ok := g.stored[name]
	return data, ok
}

// ExportInfo implements device.Files.
func (g *Gauge) ExportInfo(name string) (uint32, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	data, ok := g.stored[name]
	if !ok {
		return 0, false
	}
	g.exporting, g.exportOff = data, 0
	return uint32(len(data)), true
}

// StartExport implements device.Files.
func (g *Gauge) StartExport() {
	g.lock.Lock()
	g.exportOff = 0
	g.lock.Unlock()
}

// NextExportChunk implements device.Files.
func (g *Gauge) NextExportChunk() []byte {
	g.lock.Lock()
	defer g.lock.Unlock()
	end := g.exportOff + ChunkSize
	if end > len(g.exporting) {
		end = len(g.exporting)
	}
	chunk := g.exporting[g.exportOff:end]
	g.exportOff = end
	return chunk
}

// ExportRemaining tells how many bytes are left in the export.
func (g *Gauge) ExportRemaining() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return len(g.exporting) - g.exportOff
}

// CreateImport implements device.Files.
func (g *Gauge) CreateImport(name string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.importing != "" || name == "" {
		return false
	}
	g.importing = name
	g.importBuf.Reset()
	return true
}

// WriteImport implements device.Files.
func (g *Gauge) WriteImport(data []byte) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.importing == "" {
		return false
	}
	g.importBuf.Write(data)
	return true
}

// CloseImport implements device.Files.
func (g *Gauge) CloseImport() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.importing == "" {
		return false
	}
	g.stored[g.importing] = append([]byte(nil), g.importBuf.Bytes()...)
	g.importing = ""
	return true
}

// ExportData implements device.Files. It formats the test results as a
// comma separated line, or the column header line.
func (g *Gauge) ExportData(header bool) []byte {
	var buf bytes.Buffer
	for i := 0; i < device.NumResults; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if header {
			fmt.Fprintf(&buf, "R%d", i)
		} else {
			fmt.Fprintf(&buf, "%g", g.Result(uint8(i)))
		}
	}
	return buf.Bytes()
}
