// Package grouping recovers hierarchical structure from a flat, address
// only register list: repeated address windows collapse into one template
// block with a repeat count, consecutive numbered registers fold into
// register arrays.
package grouping

import (
	"fmt"
	"sort"

	"github.com/dallingham/regenerate/internal/db"
)

// Block is one detected repeating block: a template register list that
// occurs Repeat times starting at Base, one boundary stride apart.
// Registers keep the absolute addresses of the first occurrence.
type Block struct {
	Base      uint64
	Registers []*db.Register
	Repeat    uint

	// Leftover marks the shared aggregate of all non repeating windows.
	Leftover bool
}

// candidate is one in-progress template during detection.
type candidate struct {
	base      uint64
	registers []*db.Register
	count     uint
}

// accumulator is the explicit detection state threaded through the fold
// over address sorted buckets. First seen candidates define the canonical
// template, later matches only increment the count.
type accumulator struct {
	candidates []*candidate
}

// Detect partitions the registers into windows of the given power of two
// boundary and collapses structurally identical windows into repeating
// blocks. A boundary of 0 uses a single window covering everything.
// Windows that occur only once merge into one shared leftover block.
func Detect(registers []*db.Register, boundary uint64) ([]Block, error) {
	if boundary != 0 && boundary&(boundary-1) != 0 {
		return nil, db.StructuralError{
			Entity: "grouping",
			Reason: fmt.Sprintf("boundary 0x%x is not a power of two", boundary),
		}
	}

	buckets, keys := partition(registers, boundary)

	acc := accumulator{}
	for _, key := range keys {
		acc.visit(key, buckets[key])
	}
	return acc.blocks(), nil
}

// partition groups registers by address window, returning the windows and
// their keys in ascending order. Registers within a window stay address
// sorted.
func partition(registers []*db.Register, boundary uint64) (map[uint64][]*db.Register, []uint64) {
	buckets := map[uint64][]*db.Register{}
	for _, register := range registers {
		key := uint64(0)
		if boundary != 0 {
			key = register.Address - register.Address%boundary
		}
		buckets[key] = append(buckets[key], register)
	}

	keys := make([]uint64, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
		sort.Slice(buckets[key], func(i, j int) bool {
			return buckets[key][i].Address < buckets[key][j].Address
		})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return buckets, keys
}

// visit compares one window against the known candidates. The first match
// wins and only increments its count, a miss seeds a new candidate. A miss
// is not an error.
func (acc *accumulator) visit(key uint64, registers []*db.Register) {
	for _, cand := range acc.candidates {
		if cand.matches(key, registers) {
			cand.count++
			return
		}
	}
	acc.candidates = append(acc.candidates, &candidate{
		base:      key,
		registers: registers,
		count:     1,
	})
}

// matches reports whether a window is a structural repetition of the
// candidate: same ordered register list, identical fields, addresses
// shifted by exactly the window key delta.
func (c *candidate) matches(key uint64, registers []*db.Register) bool {
	if len(registers) != len(c.registers) {
		return false
	}
	delta := key - c.base
	for i, register := range registers {
		template := c.registers[i]
		if register.Address != template.Address+delta {
			return false
		}
		if register.Dimension != template.Dimension {
			return false
		}
		if !register.GroupEqual(template) {
			return false
		}
	}
	return true
}

// blocks emits the detection result: repeating candidates stand alone, all
// singleton candidates merge into one shared leftover aggregate.
func (acc *accumulator) blocks() []Block {
	var blocks []Block
	var leftover *Block

	for _, cand := range acc.candidates {
		if cand.count > 1 {
			blocks = append(blocks, Block{
				Base:      cand.base,
				Registers: cand.registers,
				Repeat:    cand.count,
			})
			continue
		}
		if leftover == nil {
			leftover = &Block{
				Base:     cand.base,
				Repeat:   1,
				Leftover: true,
			}
		}
		leftover.Registers = append(leftover.Registers, cand.registers...)
	}

	if leftover != nil {
		blocks = append(blocks, *leftover)
	}
	return blocks
}
