package chip8

import "sync"

// KeyEvent is a single press or release of one of the 16 keys.
type KeyEvent struct {
	Key     uint8
	Pressed bool
}

// Keypad queues key events from the input layer. It may be written from any
// goroutine; the machine drains the queue at the start of every cycle so a
// handler never observes a half-applied batch.
type Keypad struct {
	mu      sync.Mutex
	pending []KeyEvent
}

// Press queues a key-down event.
func (k *Keypad) Press(key uint8) error { return k.Set(key, true) }

// Release queues a key-up event.
func (k *Keypad) Release(key uint8) error { return k.Set(key, false) }

// Set queues a key event.
func (k *Keypad) Set(key uint8, pressed bool) error {
	if key >= KeyCount {
		return faultAt(ErrKeyIndexOutOfRange, int(key))
	}
	k.mu.Lock()
	k.pending = append(k.pending, KeyEvent{Key: key, Pressed: pressed})
	k.mu.Unlock()
	return nil
}

// Pending returns the number of queued events not yet seen by the machine.
func (k *Keypad) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.pending)
}

func (k *Keypad) drain() []KeyEvent {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.pending) == 0 {
		return nil
	}
	events := k.pending
	k.pending = nil
	return events
}

// applyKeyEvents applies all queued events and returns the lowest key that
// went from released to pressed, or -1.
func (m *Machine) applyKeyEvents() int {
	lowest := -1
	for _, ev := range m.keypad.drain() {
		if ev.Pressed && !m.keys[ev.Key] {
			if lowest < 0 || int(ev.Key) < lowest {
				lowest = int(ev.Key)
			}
		}
		m.keys[ev.Key] = ev.Pressed
	}
	return lowest
}
