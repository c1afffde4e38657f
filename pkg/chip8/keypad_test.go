package chip8

import (
	"errors"
	"sync"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypadRejectsOutOfRange(t *testing.T) {
	var k Keypad
	err := k.Press(KeyCount)
	assert.True(t, errors.Is(err, ErrKeyIndexOutOfRange))
	assert.Len(t, k.drain(), 0)
}

func TestKeyEventsApplyAtCycleStart(t *testing.T) {
	m := newTestMachine(t)
	loadProgram(m, 0x1200)

	assert.NoError(t, m.Keypad().Press(0x4))
	// not visible until the next cycle
	assert.False(t, m.Key(0x4))

	step(t, m, 1)
	assert.True(t, m.Key(0x4))

	assert.NoError(t, m.Keypad().Release(0x4))
	step(t, m, 1)
	assert.False(t, m.Key(0x4))
	assert.False(t, m.Key(KeyCount))
}

func TestKeyEventsAppliedInOrder(t *testing.T) {
	m := newTestMachine(t)
	loadProgram(m, 0x1200)

	assert.NoError(t, m.Keypad().Press(0x1))
	assert.NoError(t, m.Keypad().Release(0x1))
	assert.NoError(t, m.Keypad().Press(0x2))
	step(t, m, 1)

	assert.False(t, m.Key(0x1))
	assert.True(t, m.Key(0x2))
}

func TestApplyKeyEventsReportsLowestNewPress(t *testing.T) {
	m := newTestMachine(t)
	m.keys[0x2] = true

	assert.NoError(t, m.Keypad().Press(0x2))
	assert.NoError(t, m.Keypad().Press(0x9))
	assert.NoError(t, m.Keypad().Press(0x5))
	assert.Equal(t, 5, m.applyKeyEvents())
	assert.Equal(t, -1, m.applyKeyEvents())
}

func TestKeypadConcurrentWriters(t *testing.T) {
	m := newTestMachine(t)
	loadProgram(m, 0x1200)

	var wg sync.WaitGroup
	for i := range KeyCount {
		wg.Add(1)
		go func(key uint8) {
			defer wg.Done()
			_ = m.Keypad().Press(key)
		}(uint8(i))
	}
	wg.Wait()
	step(t, m, 1)

	for k := range uint8(KeyCount) {
		assert.True(t, m.Key(k))
	}
}
