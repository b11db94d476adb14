package control

import "github.com/arung-agamani/denpa-radio/internal/engine"

// streamSource is the subset of ffmpegplayer.Player the stream handler
// needs; kept as a local interface so this package doesn't import a
// concrete backend.
type streamSource interface {
	Subscribe() (id uint64, ch <-chan []byte)
	Unsubscribe(id uint64)
	ActiveClients() int
}

// Driver adapts an *engine.Driver plus the block engine's stream source
// into the handlers this package registers.
type Driver struct {
	eng    *engine.Driver
	stream streamSource
}

// NewDriver wraps eng for HTTP serving. stream is the ffmpegplayer.Player
// backing the block engine's two decks, whose mixed output is restreamed
// at /stream.
func NewDriver(eng *engine.Driver, stream streamSource) *Driver {
	return &Driver{eng: eng, stream: stream}
}

func (d *Driver) BlockEngine() *engine.Engine      { return d.eng.BlockEngine() }
func (d *Driver) TimeSignalEngine() *engine.Engine { return d.eng.TimeSignalEngine() }
func (d *Driver) Reload()                          { d.eng.Reload() }
func (d *Driver) ActiveClients() int               { return d.stream.ActiveClients() }
