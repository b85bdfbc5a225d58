/*
   DiskWright - Apple II disk image construction tool
   Copyright (c) 2026, the DiskWright authors

   This file is part of DiskWright.

   DiskWright is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   DiskWright is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with DiskWright. If not, see <http://www.gnu.org/licenses/>.
*/

package codec

import (
	"fmt"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// Interleave35 is the physical skew of logically sequential sectors on
// 3.5" GCR media.
const Interleave35 = 4

// tagLength is the per-sector tag prefix the 3.5" encoding carries in
// front of the 512 payload bytes.
const tagLength = 12

// gcr35 encodes 3.5" GCR tracks. Tracks are cylinder/side pairs; the
// sector count per track is zoned, dropping from 12 to 8 towards the
// inner cylinders.
type gcr35 struct {
	sides uint32
}

//
func (c *gcr35) SectorSize() int {
	return geometry.BlockSize
}

// SectorsForTrack returns the zoned sector count. track is cylinder*sides
// plus side index.
func (c *gcr35) SectorsForTrack(track uint32) uint32 {
	cyl := track / c.sides
	zone := cyl / 16
	if zone > 4 {
		zone = 4
	}
	return 12 - zone
}

//
func (c *gcr35) TrackLength(track uint32) int {
	// sync run + address and data fields per sector
	return int(c.SectorsForTrack(track))*(28+3+1+703+4+2+2) + 200
}

//
func (c *gcr35) EncodeTrack(track uint32, _ byte, data []byte) ([]byte, error) {

	sectors := c.SectorsForTrack(track)
	want := int(sectors) * geometry.BlockSize
	if len(data) != want {
		return nil, fmt.Errorf(
			"track %d: need %d data bytes, got %d", track, want, len(data))
	}

	cyl := track / c.sides
	side := track % c.sides

	out := make([]byte, 0, c.TrackLength(track))
	out = appendSync(out, 200)

	// lay the sectors out with the standard interleave
	pos := uint32(0)
	placed := make(map[uint32]bool, sectors)

	for i := uint32(0); i < sectors; i++ {
		for placed[pos] {
			pos = (pos + 1) % sectors
		}
		placed[pos] = true

		out = c.appendSector(out, cyl, side, pos,
			data[int(pos)*geometry.BlockSize:int(pos+1)*geometry.BlockSize])

		pos = (pos + Interleave35) % sectors
	}

	return out, nil
}

//
func (c *gcr35) appendSector(out []byte, cyl, side, sector uint32,
	payload []byte) []byte {

	// address field: track low bits, sector, side/track-high, format
	trackLow := byte(cyl & 0x3f)
	sideBits := byte(side << 5)
	if cyl >= 0x40 {
		sideBits |= 0x01
	}
	format := byte(0x02) // single-sided interleave-2 legacy value
	if c.sides == 2 {
		format = 0x22 // double-sided, interleave in low bits
	}

	sum := trackLow ^ byte(sector) ^ sideBits ^ format

	out = append(out, 0xd5, 0xaa, 0x96)
	for _, v := range []byte{trackLow, byte(sector), sideBits, format, sum} {
		out = append(out, diskBytes62[v&0x3f])
	}
	out = append(out, 0xde, 0xaa)
	out = appendSync(out, 5)

	// data field
	out = append(out, 0xd5, 0xaa, 0xad, diskBytes62[byte(sector)&0x3f])

	full := make([]byte, tagLength+geometry.BlockSize)
	copy(full[tagLength:], payload)
	out = encode35(out, full)

	out = append(out, 0xde, 0xaa)
	return appendSync(out, 5)
}

/*
	encode35 encodes the 524 tag+payload bytes of a 3.5" sector. The bytes
	run through a three-way rolling checksum while being packed in groups
	of three 6-bit remainders plus one byte collecting the three high-bit
	pairs; the final checksum goes out as four more disk bytes.
*/
func encode35(out, data []byte) []byte {

	var c1, c2, c3 uint32

	emit := func(a, b, d byte, three bool) {
		hi := (a&0xc0)>>2 | (b&0xc0)>>4
		if three {
			hi |= (d & 0xc0) >> 6
		}
		out = append(out, diskBytes62[hi&0x3f], diskBytes62[a&0x3f],
			diskBytes62[b&0x3f])
		if three {
			out = append(out, diskBytes62[d&0x3f])
		}
	}

	for i := 0; i < len(data); i += 3 {

		// roll c1 left, folding the carry back in
		c1 = (c1 << 1) & 0x1ff
		c1 = (c1 & 0xff) + (c1 >> 8)

		v1 := data[i] ^ byte(c1)
		c3 += uint32(data[i])

		var v2, v3 byte
		three := i+2 < len(data)

		if i+1 < len(data) {
			v2 = data[i+1] ^ byte(c3)
			c2 += uint32(data[i+1])
			if c3 > 0xff {
				c2++
				c3 &= 0xff
			}
		}
		if three {
			v3 = data[i+2] ^ byte(c2)
			c1 += uint32(data[i+2])
			if c2 > 0xff {
				c1++
				c2 &= 0xff
			}
		}

		emit(v1, v2, v3, three)
	}

	// four checksum bytes: high-bit collection plus the three sums
	hi := byte(c1&0xc0)>>2 | byte(c2&0xc0)>>4 | byte(c3&0xc0)>>6
	return append(out, diskBytes62[hi&0x3f], diskBytes62[byte(c1)&0x3f],
		diskBytes62[byte(c2)&0x3f], diskBytes62[byte(c3)&0x3f])
}
