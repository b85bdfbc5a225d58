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

// Track525Length is the encoded track size used by the byte-oriented nibble
// containers ($1A00).
const Track525Length = 0x1a00

// gap lengths, chosen so 16 sectors fill a $1A00 track with room to spare
const (
	gap1Length = 48
	gap2Length = 6
	gap3Length = 27
)

// gcr525 encodes 5.25" GCR tracks, either 16-sector 6&2 or 13-sector 5&3.
type gcr525 struct {
	sectors uint32
}

//
func (c *gcr525) SectorSize() int {
	return geometry.SectorSize
}

//
func (c *gcr525) SectorsForTrack(uint32) uint32 {
	return c.sectors
}

//
func (c *gcr525) TrackLength(uint32) int {
	return Track525Length
}

//
func (c *gcr525) EncodeTrack(track uint32, volume byte,
	data []byte) ([]byte, error) {

	want := int(c.sectors) * geometry.SectorSize
	if len(data) != want {
		return nil, fmt.Errorf(
			"track %d: need %d data bytes, got %d", track, want, len(data))
	}

	out := make([]byte, 0, Track525Length)
	out = appendSync(out, gap1Length)

	for sec := uint32(0); sec < c.sectors; sec++ {

		out = c.appendAddressField(out, volume, byte(track), byte(sec))
		out = appendSync(out, gap2Length)

		payload := data[int(sec)*geometry.SectorSize:]
		payload = payload[:geometry.SectorSize]

		out = append(out, 0xd5, 0xaa, 0xad)
		if c.sectors == 13 {
			out = encode53(out, payload)
		} else {
			out = encode62(out, payload)
		}
		out = append(out, 0xde, 0xaa, 0xeb)

		out = appendSync(out, gap3Length)
	}

	if len(out) > Track525Length {
		return nil, fmt.Errorf(
			"track %d: encoded %d bytes, exceeds track length %d",
			track, len(out), Track525Length)
	}

	// pad out the remainder of the track with sync bytes
	out = appendSync(out, Track525Length-len(out))

	return out, nil
}

// appendAddressField writes the sector address field. The volume number is
// what identifies the disk at nibble level, so the requested number must
// land here.
func (c *gcr525) appendAddressField(out []byte, volume, track,
	sector byte) []byte {

	if c.sectors == 13 {
		out = append(out, 0xd5, 0xaa, 0xb5)
	} else {
		out = append(out, 0xd5, 0xaa, 0x96)
	}

	for _, v := range []byte{volume, track, sector, volume ^ track ^ sector} {
		a, b := oddEven(v)
		out = append(out, a, b)
	}

	return append(out, 0xde, 0xaa, 0xeb)
}

//
func appendSync(out []byte, n int) []byte {
	for i := 0; i < n; i++ {
		out = append(out, 0xff)
	}
	return out
}

/*
	encode62 6&2-encodes a 256-byte sector into 342 disk bytes plus a
	checksum byte. The low two bits of each data byte are collected bit-
	reversed into an 86-byte auxiliary buffer that precedes the 6-bit
	remainders; the whole sequence is XOR-chained before translation.
*/
func encode62(out, data []byte) []byte {

	var aux [86]byte
	for i := 0; i < 86; i++ {
		v := reverse2(data[i])
		if i+86 < 256 {
			v |= reverse2(data[i+86]) << 2
		}
		if i+172 < 256 {
			v |= reverse2(data[i+172]) << 4
		}
		aux[i] = v
	}

	var prev byte
	for i := 85; i >= 0; i-- {
		out = append(out, diskBytes62[(aux[i]^prev)&0x3f])
		prev = aux[i]
	}
	for i := 0; i < 256; i++ {
		v := data[i] >> 2
		out = append(out, diskBytes62[(v^prev)&0x3f])
		prev = v
	}

	return append(out, diskBytes62[prev&0x3f])
}

// reverse2 swaps the low two bits of a byte.
func reverse2(v byte) byte {
	return (v&0x01)<<1 | (v&0x02)>>1
}

/*
	encode53 5&3-encodes a 256-byte sector into 410 disk bytes plus a
	checksum byte: 154 bytes carrying the packed low three bits of each data
	byte, then 256 bytes carrying the high five bits.
*/
func encode53(out, data []byte) []byte {

	// pack 256 x 3 low bits into 154 five-bit groups
	var low [154]byte
	bit := 0
	for _, d := range data {
		for k := 2; k >= 0; k-- {
			if d&(1<<uint(k)) != 0 {
				low[bit/5] |= 1 << uint(4-bit%5)
			}
			bit++
		}
	}

	var prev byte
	for i := len(low) - 1; i >= 0; i-- {
		out = append(out, diskBytes53[(low[i]^prev)&0x1f])
		prev = low[i]
	}
	for _, d := range data {
		v := d >> 3
		out = append(out, diskBytes53[(v^prev)&0x1f])
		prev = v
	}

	return append(out, diskBytes53[prev&0x1f])
}
