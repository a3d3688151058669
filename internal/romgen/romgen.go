// Package romgen builds the reference smoke test image: a short program at
// 0x0100 exercising loads, XOR, ADD, CP, a relative branch that falls
// through and an absolute jump into an endless loop.
package romgen

import (
	"os"

	"github.com/pkg/errors"
)

// Entry is the address the program starts at.
const Entry = 0x0100

// LoopAddress is the start of the endless loop the program settles into.
const LoopAddress = 0x0117

// Image is a sparse ROM image built by placing byte sequences at fixed
// addresses. Gaps are zero filled, which decodes as NOP.
type Image struct {
	data []byte
}

// At places code at addr, growing the image as needed. Later placements
// overwrite earlier ones.
func (i *Image) At(addr uint16, code ...byte) {
	if end := int(addr) + len(code); end > len(i.data) {
		i.data = append(i.data, make([]byte, end-len(i.data))...)
	}
	copy(i.data[addr:], code)
}

// Bytes returns the image, sized to its highest placed byte.
func (i *Image) Bytes() []byte {
	return i.data
}

// TestProgram returns the reference smoke test image.
func TestProgram() []byte {
	img := &Image{}
	img.At(0x0100, 0x3E, 0x42)       // LD A, 0x42
	img.At(0x0102, 0x06, 0x13)       // LD B, 0x13
	img.At(0x0104, 0x0E, 0x37)       // LD C, 0x37
	img.At(0x0106, 0xAF)             // XOR A
	img.At(0x0107, 0x3E, 0x10)       // LD A, 0x10
	img.At(0x0109, 0xC6, 0x20)       // ADD A, 0x20
	img.At(0x010B, 0xFE, 0x30)       // CP 0x30
	img.At(0x010D, 0x20, 0x02)       // JR NZ, +2
	img.At(0x010F, 0x16, 0x99)       // LD D, 0x99
	img.At(0x0111, 0xC3, 0x17, 0x01) // JP 0x0117
	img.At(0x0114, 0x1E, 0xFF)       // LD E, 0xFF
	img.At(0x0117, 0x26, 0xAA)       // LD H, 0xAA
	img.At(0x0119, 0x2E, 0xBB)       // LD L, 0xBB
	img.At(0x011B, 0x00)             // NOP
	img.At(0x011C, 0xC3, 0x17, 0x01) // JP 0x0117
	return img.Bytes()
}

// Write writes the reference image to path.
func Write(path string) error {
	if err := os.WriteFile(path, TestProgram(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
