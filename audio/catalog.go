package audio

import (
	"math/rand/v2"
	"sync"

	"github.com/shacgolf/shac-golf/constant"
)

// Pack is a named, ordered set of sound buffers
type Pack struct {
	Name        string
	Description string

	names  []string
	sounds map[string]*Buffer
}

func NewPack(name, description string) *Pack {
	return &Pack{
		Name:        name,
		Description: description,
		sounds:      make(map[string]*Buffer),
	}
}

// Add inserts or replaces a sound; insertion order is kept for first-seen names
func (p *Pack) Add(name string, buf *Buffer) *Pack {
	if buf == nil {
		return p
	}
	if _, ok := p.sounds[name]; !ok {
		p.names = append(p.names, name)
	}
	p.sounds[name] = buf
	return p
}

// Names returns sound names in insertion order
func (p *Pack) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *Pack) Sound(name string) (*Buffer, bool) {
	b, ok := p.sounds[name]
	return b, ok
}

func (p *Pack) Len() int { return len(p.names) }

// clone copies the name list and map; buffers are immutable and shared
func (p *Pack) clone() *Pack {
	c := NewPack(p.Name, p.Description)
	for _, n := range p.names {
		c.Add(n, p.sounds[n])
	}
	return c
}

// Catalog holds every registered pack and the active lookup table
type Catalog struct {
	mu sync.RWMutex

	packs     map[string]*Pack
	packOrder []string

	active string
	sounds map[string]*Buffer
	names  []string

	fallback *Buffer
}

// NewCatalog creates an empty catalog; fallback nil means a 440Hz pure tone at sampleRate
func NewCatalog(sampleRate int, fallback *Buffer) *Catalog {
	if fallback == nil {
		fallback = PureTone(sampleRate, constant.FallbackToneFreq, constant.FallbackToneDuration)
	}
	return &Catalog{
		packs:    make(map[string]*Pack),
		sounds:   make(map[string]*Buffer),
		fallback: fallback,
	}
}

// RegisterPack stores a private copy under pack.Name, replacing any existing one
// Replacing the active pack does not change the working table until re-activated
func (c *Catalog) RegisterPack(p *Pack) {
	if p == nil {
		return
	}
	cp := p.clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.packs[cp.Name]; !ok {
		c.packOrder = append(c.packOrder, cp.Name)
	}
	c.packs[cp.Name] = cp
}

// Activate swaps the working table to the named pack; unknown names leave it untouched
func (c *Catalog) Activate(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.packs[name]
	if !ok {
		return false
	}

	sounds := make(map[string]*Buffer, len(p.names))
	for _, n := range p.names {
		sounds[n] = p.sounds[n]
	}
	c.sounds = sounds
	c.names = p.Names()
	c.active = name
	return true
}

// Sound returns the named buffer from the active pack, or the fallback tone
// Never returns nil
func (c *Catalog) Sound(name string) *Buffer {
	b, _ := c.Lookup(name)
	return b
}

// Lookup is Sound that also reports whether name was an exact match
func (c *Catalog) Lookup(name string) (*Buffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if b, ok := c.sounds[name]; ok {
		return b, true
	}
	return c.fallback, false
}

// Names returns active sound names in stable pack order
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// SoundAt picks by index modulo the active list length, for per-target rotation
func (c *Catalog) SoundAt(i int) *Buffer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.names) == 0 {
		return c.fallback
	}
	i %= len(c.names)
	if i < 0 {
		i += len(c.names)
	}
	return c.sounds[c.names[i]]
}

// Random returns a random active sound, or fallback when empty
func (c *Catalog) Random() *Buffer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.names) == 0 {
		return c.fallback
	}
	return c.sounds[c.names[rand.IntN(len(c.names))]]
}

// Active returns the active pack name, empty before any activation
func (c *Catalog) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Packs returns registered pack names in registration order
func (c *Catalog) Packs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.packOrder))
	copy(out, c.packOrder)
	return out
}

// Pack returns a copy of a registered pack
func (c *Catalog) Pack(name string) (*Pack, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.packs[name]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

func (c *Catalog) Fallback() *Buffer {
	return c.fallback
}
