package db

import (
	"fmt"
	"sort"

	"github.com/retroenv/retrogolib/set"
)

// RegisterSet is an ordered collection of registers sharing one bus.
type RegisterSet struct {
	Name        string
	Title       string
	Description string

	DataWidth    uint // data bus width in bits
	AddressWidth uint // address bus width in bits

	registers []*Register
	tokens    set.Set[string]
}

// NewRegisterSet creates an empty register set with the given bus widths.
func NewRegisterSet(name string, dataWidth, addressWidth uint) *RegisterSet {
	return &RegisterSet{
		Name:         name,
		DataWidth:    dataWidth,
		AddressWidth: addressWidth,
		tokens:       set.New[string](),
	}
}

// AddressSpace returns the byte size of the address space, 2^AddressWidth.
func (s *RegisterSet) AddressSpace() uint64 {
	return uint64(1) << s.AddressWidth
}

// Registers returns the registers sorted by ascending address.
func (s *RegisterSet) Registers() []*Register {
	registers := make([]*Register, len(s.registers))
	copy(registers, s.registers)
	sort.Slice(registers, func(i, j int) bool {
		if registers[i].Address == registers[j].Address {
			// read half sorts before write half at a shared address
			return registers[i].Share < registers[j].Share
		}
		return registers[i].Address < registers[j].Address
	})
	return registers
}

// Register returns the register with the given token, nil if unknown.
func (s *RegisterSet) Register(token string) *Register {
	for _, register := range s.registers {
		if register.Token == token {
			return register
		}
	}
	return nil
}

// AddRegister adds a register, enforcing token uniqueness.
func (s *RegisterSet) AddRegister(register *Register) error {
	if register.Token == "" {
		return StructuralError{Entity: s.Name, Reason: "register with empty token"}
	}
	if s.tokens == nil {
		s.tokens = set.New[string]()
	}
	if s.tokens.Contains(register.Token) {
		return StructuralError{
			Entity: register.Token,
			Reason: fmt.Sprintf("duplicate register token in set %s", s.Name),
		}
	}
	s.tokens.Add(register.Token)
	s.registers = append(s.registers, register)
	return nil
}

// Validate checks all register invariants and that no two registers overlap
// in address range. Shared read/write halves may occupy the same range.
func (s *RegisterSet) Validate() error {
	registers := s.Registers()
	var lastEnd uint64
	var last *Register

	for _, register := range registers {
		if err := register.Validate(); err != nil {
			return err
		}

		if last != nil && register.Address < lastEnd {
			shared := register.Share != ShareNone && last.Share != ShareNone &&
				register.Share != last.Share && register.Address == last.Address
			if !shared {
				return LayoutError{
					Entity:   register.Token,
					Conflict: last.Token,
					Reason: fmt.Sprintf("address ranges [0x%x,0x%x) and [0x%x,0x%x) overlap",
						register.Address, register.Address+register.ByteSize(),
						last.Address, lastEnd),
				}
			}
		}

		if end := register.Address + register.ByteSize(); end > lastEnd {
			lastEnd = end
		}
		last = register
	}

	if lastEnd > s.AddressSpace() {
		return LayoutError{
			Entity: s.Name,
			Reason: fmt.Sprintf("registers extend to 0x%x beyond %d bit address space",
				lastEnd, s.AddressWidth),
		}
	}
	return nil
}

// ByteSize returns the total byte span up to the end of the last register.
func (s *RegisterSet) ByteSize() uint64 {
	var end uint64
	for _, register := range s.registers {
		if regEnd := register.Address + register.ByteSize(); regEnd > end {
			end = regEnd
		}
	}
	return end
}
