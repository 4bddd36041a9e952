// Package linetable precomputes the result of sliding and merging every
// possible 4-cell line toward its first cell. A line is packed into 16 bits,
// one nibble per cell, with the first cell in the most significant nibble.
package linetable

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/slide2048/cache"
	"github.com/domino14/slide2048/tilemapping"
)

const (
	// NumKeys is the number of distinct packed lines.
	NumKeys = 1 << 16

	cacheKey = "linetable:left"
)

// Table maps a packed line to its slid-and-merged result. Lines that a slide
// leaves unchanged have no entry.
type Table struct {
	results [NumKeys]uint16
	changed [NumKeys]bool
	size    int
}

// Pack packs four exponents into a line key, big-endian by nibble.
func Pack(a, b, c, d uint8) uint16 {
	return uint16(a)<<12 | uint16(b)<<8 | uint16(c)<<4 | uint16(d)
}

// Unpack is the inverse of Pack.
func Unpack(key uint16) [4]uint8 {
	return [4]uint8{
		uint8(key>>12) & 0xF,
		uint8(key>>8) & 0xF,
		uint8(key>>4) & 0xF,
		uint8(key) & 0xF,
	}
}

// SlideLeft slides every tile of the line toward index 0, merging equal
// neighbours. A tile merges at most once per slide, so there are no chained
// merges: 2 2 4 0 becomes 4 4 0 0, not 8 0 0 0.
func SlideLeft(line [4]uint8) [4]uint8 {
	var merged [4]bool
	for i := 1; i < 4; i++ {
		pos := i
		for line[pos] != 0 && pos > 0 {
			if line[pos-1] == 0 {
				line[pos-1] = line[pos]
				line[pos] = 0
				pos--
				continue
			}
			if !merged[pos-1] && line[pos-1] == line[pos] {
				// two 32768 tiles cannot be represented; keep the nibble.
				if line[pos-1] < tilemapping.MaxExponent {
					line[pos-1]++
				}
				line[pos] = 0
				merged[pos-1] = true
			}
			break
		}
	}
	return line
}

// New builds the table by running SlideLeft over every packed line.
func New() *Table {
	t := &Table{}
	for k := 0; k < NumKeys; k++ {
		key := uint16(k)
		line := Unpack(key)
		slid := SlideLeft(line)
		if slid != line {
			t.results[key] = Pack(slid[0], slid[1], slid[2], slid[3])
			t.changed[key] = true
			t.size++
		}
	}
	log.Debug().Int("entries", t.size).Msg("built-line-table")
	return t
}

// Lookup returns the slid line for key, and false if sliding would not
// change it.
func (t *Table) Lookup(key uint16) (uint16, bool) {
	if !t.changed[key] {
		return 0, false
	}
	return t.results[key], true
}

// Len is the number of lines a slide changes.
func (t *Table) Len() int {
	return t.size
}

// Get returns the process-wide table, building it on first use.
func Get() *Table {
	obj, err := cache.Load(cacheKey, func(string) (any, error) {
		return New(), nil
	})
	if err != nil {
		// New cannot fail.
		panic(err)
	}
	return obj.(*Table)
}
