// Package broadcast fans encoded frames out to named groups of subscribers.
package broadcast

import "sync"

type Broadcaster struct {
	Mu     sync.Mutex
	Groups map[string]map[chan []byte]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		Groups: make(map[string]map[chan []byte]bool),
	}
}

// Subscribe adds ch to group. The caller keeps ownership of ch and must
// unsubscribe it before closing it.
func (b *Broadcaster) Subscribe(group string, ch chan []byte) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	subs, ok := b.Groups[group]
	if !ok {
		subs = make(map[chan []byte]bool)
		b.Groups[group] = subs
	}
	subs[ch] = true
}

func (b *Broadcaster) Unsubscribe(group string, ch chan []byte) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.unsubscribe(group, ch)
}

// UnsubscribeAll removes ch from every group it belongs to.
func (b *Broadcaster) UnsubscribeAll(ch chan []byte) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for group := range b.Groups {
		b.unsubscribe(group, ch)
	}
}

func (b *Broadcaster) unsubscribe(group string, ch chan []byte) {
	subs, ok := b.Groups[group]
	if !ok {
		return
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(b.Groups, group)
	}
}

// Broadcast delivers data to every subscriber of group and returns how many
// subscribers were skipped because their channel was full.
func (b *Broadcaster) Broadcast(group string, data []byte) int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	dropped := 0
	for ch := range b.Groups[group] {
		select {
		case ch <- data:
		default:
			// skip clients with full data channels
			dropped++
		}
	}
	return dropped
}

// Size returns the number of subscribers in group.
func (b *Broadcaster) Size(group string) int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return len(b.Groups[group])
}
