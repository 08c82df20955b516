// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

const noSlot = -1

type slot[K comparable, V any] struct {
	key        K
	value      V
	prev, next int
}

// arena is a recency list whose nodes live in a dense slice and refer to
// each other by index. head is the most recently used slot, tail the least.
//
// Slots are only ever appended or reused in place, so every index below
// len(slots) is live.
type arena[K comparable, V any] struct {
	slots      []slot[K, V]
	head, tail int
}

func newArena[K comparable, V any](capacity int) arena[K, V] {
	return arena[K, V]{
		slots: make([]slot[K, V], 0, capacity),
		head:  noSlot,
		tail:  noSlot,
	}
}

func (a *arena[K, V]) len() int {
	return len(a.slots)
}

// pushFront appends a new slot as the most recently used entry.
func (a *arena[K, V]) pushFront(key K, value V) int {
	i := len(a.slots)
	a.slots = append(a.slots, slot[K, V]{key: key, value: value})
	a.linkFront(i)
	return i
}

// replaceBack reuses the least recently used slot for key and value, moves
// it to the front and returns the entry it held before.
func (a *arena[K, V]) replaceBack(key K, value V) (int, K, V) {
	i := a.tail
	s := &a.slots[i]
	oldKey, oldValue := s.key, s.value
	s.key, s.value = key, value
	a.moveToFront(i)
	return i, oldKey, oldValue
}

func (a *arena[K, V]) moveToFront(i int) {
	if a.head == i {
		return
	}
	a.unlink(i)
	a.linkFront(i)
}

func (a *arena[K, V]) linkFront(i int) {
	s := &a.slots[i]
	s.prev = noSlot
	s.next = a.head
	if a.head != noSlot {
		a.slots[a.head].prev = i
	}
	a.head = i
	if a.tail == noSlot {
		a.tail = i
	}
}

func (a *arena[K, V]) unlink(i int) {
	s := &a.slots[i]
	if s.prev != noSlot {
		a.slots[s.prev].next = s.next
	} else {
		a.head = s.next
	}
	if s.next != noSlot {
		a.slots[s.next].prev = s.prev
	} else {
		a.tail = s.prev
	}
	s.prev, s.next = noSlot, noSlot
}

// keys returns the keys from most to least recently used.
func (a *arena[K, V]) keys() []K {
	keys := make([]K, 0, len(a.slots))
	for i := a.head; i != noSlot; i = a.slots[i].next {
		keys = append(keys, a.slots[i].key)
	}
	return keys
}
