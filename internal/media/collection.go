package media

import (
	"context"
	"sync"
)

// Collection is an ordered multi-item slot (gallery) capped by
// Policy.MaxFiles. Batches are admitted all-or-nothing.
type Collection struct {
	mu sync.Mutex

	binding  Binding
	items    []*collectionItem
	original []Slot
	nextID   uint64
}

type collectionItem struct {
	id       uint64
	slot     Slot
	preview  string
	inflight int
}

// NewCollection seeds a gallery with the remote URLs loaded from the backend.
func NewCollection(binding Binding, original []Slot) *Collection {
	c := &Collection{binding: binding}
	c.reset(original)
	return c
}

// Binding returns the slot definition.
func (c *Collection) Binding() Binding {
	return c.binding
}

// Len returns the number of items.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns the slots in display order.
func (c *Collection) Items() []Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Slot, len(c.items))
	for idx, item := range c.items {
		out[idx] = item.slot
	}
	return out
}

// SelectFiles appends files when the whole batch fits the policy. Any
// count, type or size violation rejects the batch and leaves the
// collection unchanged.
func (c *Collection) SelectFiles(files ...File) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(files) == 0 {
		return nil
	}
	if err := c.binding.Policy.CheckCount(c.binding.Slot, len(c.items), len(files)); err != nil {
		return err
	}
	for _, file := range files {
		if err := c.binding.Policy.CheckFile(c.binding.Slot, file); err != nil {
			return err
		}
	}
	for _, file := range files {
		c.appendLocked(PendingSlot(file))
	}
	return nil
}

// AddURL validates and appends a remote URL.
func (c *Collection) AddURL(raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	normalized, err := ValidateURL(c.binding.Slot, raw)
	if err != nil {
		return err
	}
	if err := c.binding.Policy.CheckCount(c.binding.Slot, len(c.items), 1); err != nil {
		return err
	}
	c.appendLocked(RemoteSlot(normalized))
	return nil
}

// RemoveAt drops the item at idx.
func (c *Collection) RemoveAt(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return nil
}

// Move reorders an item.
func (c *Collection) Move(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if from < 0 || from >= len(c.items) || to < 0 || to >= len(c.items) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	item := c.items[from]
	c.items = append(c.items[:from], c.items[from+1:]...)
	c.items = append(c.items[:to], append([]*collectionItem{item}, c.items[to:]...)...)
	return nil
}

// Promote replaces the first pending item equal to pending with its
// uploaded URL, keeping its position. It reports false when no such item
// remains.
func (c *Collection) Promote(pending Slot, rawURL string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !pending.IsPending() {
		return false, nil
	}
	for _, item := range c.items {
		if !item.slot.Equal(pending) {
			continue
		}
		normalized, err := ValidateURL(c.binding.Slot, rawURL)
		if err != nil {
			return false, err
		}
		item.slot = RemoteSlot(normalized)
		item.preview = ""
		item.inflight = 0
		return true, nil
	}
	return false, nil
}

// Clear removes every item.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Reset reseeds the gallery, typically after a successful submission.
func (c *Collection) Reset(original []Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(original)
}

func (c *Collection) reset(original []Slot) {
	c.items = nil
	c.original = nil
	for _, slot := range original {
		if !slot.IsRemote() {
			continue
		}
		c.original = append(c.original, slot)
		c.appendLocked(slot)
	}
}

// Preview returns the preview source for the item at idx.
func (c *Collection) Preview(idx int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.items) {
		return "", ErrIndexOutOfRange
	}
	item := c.items[idx]
	switch item.slot.Kind() {
	case SlotRemote:
		return item.slot.url, nil
	case SlotPending:
		if item.preview != "" {
			return item.preview, nil
		}
		return DataURI(item.slot.file), nil
	default:
		return "", nil
	}
}

// GeneratePreview renders the item at idx. If the item was removed while
// rendering, the result is discarded and applied is false.
func (c *Collection) GeneratePreview(ctx context.Context, idx int, renderer PreviewRenderer) (applied bool, err error) {
	if renderer == nil {
		renderer = DataURIRenderer{}
	}
	c.mu.Lock()
	if idx < 0 || idx >= len(c.items) {
		c.mu.Unlock()
		return false, ErrIndexOutOfRange
	}
	item := c.items[idx]
	file, ok := item.slot.File()
	if !ok {
		c.mu.Unlock()
		return false, ErrNoPendingFile
	}
	id := item.id
	item.inflight++
	c.mu.Unlock()

	preview, renderErr := renderer.RenderPreview(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.findLocked(id)
	if current == nil {
		return false, nil
	}
	current.inflight--
	if renderErr != nil {
		return false, renderErr
	}
	current.preview = preview
	return true, nil
}

// Settled reports whether no preview generation is in flight.
func (c *Collection) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settledLocked()
}

// Snapshot captures the settled state for submission.
func (c *Collection) Snapshot() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.settledLocked() {
		return Snapshot{}, ErrSlotUnsettled
	}
	snap := Snapshot{Binding: c.binding}
	for _, item := range c.items {
		snap.Items = append(snap.Items, item.slot)
	}
	snap.Original = append([]Slot(nil), c.original...)
	return snap, nil
}

func (c *Collection) settledLocked() bool {
	for _, item := range c.items {
		if item.inflight > 0 {
			return false
		}
	}
	return true
}

func (c *Collection) appendLocked(slot Slot) {
	c.nextID++
	c.items = append(c.items, &collectionItem{id: c.nextID, slot: slot})
}

func (c *Collection) findLocked(id uint64) *collectionItem {
	for _, item := range c.items {
		if item.id == id {
			return item
		}
	}
	return nil
}
