package track

// Pool is an ordered collection of tracks with exclusion tracking.
// The working pool of a conversation starts as a copy of the full
// recommendation pool; recommended tracks are removed from the copy only,
// never from the slice the caller passed in. Insertion order is preserved
// and doubles as recommendation priority context.
type Pool struct {
	tracks []Track
	byID   map[string]int // index into tracks, removed entries deleted
}

// NewPool creates a pool from the given tracks. The input slice is copied.
// Tracks with a duplicate ID are dropped, keeping the first occurrence.
func NewPool(tracks []Track) *Pool {
	p := &Pool{
		tracks: make([]Track, 0, len(tracks)),
		byID:   make(map[string]int, len(tracks)),
	}
	for _, t := range tracks {
		if _, ok := p.byID[t.ID]; ok {
			continue
		}
		p.byID[t.ID] = len(p.tracks)
		p.tracks = append(p.tracks, t)
	}
	return p
}

// Tracks returns the current members in original relative order.
// The returned slice is a copy.
func (p *Pool) Tracks() []Track {
	out := make([]Track, 0, len(p.byID))
	for _, t := range p.tracks {
		if _, ok := p.byID[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the track with the given ID, if still in the pool.
func (p *Pool) Get(id string) (Track, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Track{}, false
	}
	return p.tracks[i], true
}

// Contains reports whether the track with the given ID is still in the pool.
func (p *Pool) Contains(id string) bool {
	_, ok := p.byID[id]
	return ok
}

// Remove excludes the track with the given ID from the pool.
// Returns false if the ID is not a current member. A removed track can
// never be reintroduced.
func (p *Pool) Remove(id string) bool {
	if _, ok := p.byID[id]; !ok {
		return false
	}
	delete(p.byID, id)
	return true
}

// Len returns the number of current members.
func (p *Pool) Len() int {
	return len(p.byID)
}

// Empty reports whether the pool has no members left.
func (p *Pool) Empty() bool {
	return len(p.byID) == 0
}

// IDs returns the current member IDs in original relative order.
func (p *Pool) IDs() []string {
	out := make([]string, 0, len(p.byID))
	for _, t := range p.tracks {
		if _, ok := p.byID[t.ID]; ok {
			out = append(out, t.ID)
		}
	}
	return out
}
