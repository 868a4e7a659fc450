package keyboard

import (
	"embed"
	"sync"

	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/rsrc"
)

//go:embed descriptors/*.txt
var bundled embed.FS

var (
	dblock      sync.Mutex
	descriptors = make(map[string]*Descriptor)
)

// Register makes a descriptor available to Lookup under id, overwriting
// any prior registration. Used by the bundled descriptors' init().
func Register(id string, d *Descriptor) {
	dblock.Lock()
	descriptors[id] = d
	dblock.Unlock()
}

// Lookup returns the descriptor registered under id.
func Lookup(id string) (*Descriptor, error) {
	dblock.Lock()
	d := descriptors[id]
	dblock.Unlock()
	if d == nil {
		return nil, &rklerr.UnknownKeymapError{Name: id}
	}
	return d, nil
}

// IDs lists every registered descriptor name.
func IDs() []string {
	dblock.Lock()
	defer dblock.Unlock()
	out := make([]string, 0, len(descriptors))
	for id := range descriptors {
		out = append(out, id)
	}
	return out
}

func init() {
	entries, err := bundled.ReadDir("descriptors")
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		raw, err := bundled.ReadFile("descriptors/" + name)
		if err != nil {
			continue
		}
		text, err := rsrc.Decode(raw)
		if err != nil {
			continue
		}
		d, err := Parse(text)
		if err != nil {
			continue
		}
		id := name[:len(name)-len(".txt")]
		Register(id, d)
	}
}
