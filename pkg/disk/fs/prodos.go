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

package fs

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// ProDOS volume layout: two boot blocks, four volume directory blocks,
// then the volume bitmap.
const (
	prodosDirFirst   = 2
	prodosDirLast    = 5
	prodosBitmapBase = 6

	prodosEntryLength     = 0x27
	prodosEntriesPerBlock = 0x0d
	prodosAccess          = 0xc3 // destroy/rename/write/read
)

//
func formatProDOS(a chunk.Access, volName string) error {

	if !a.HasBlocks() {
		return fmt.Errorf("%w: ProDOS needs a block addressable volume",
			ErrFormatFailed)
	}

	blocks := a.NumBlocks()
	name := strings.ToUpper(volName)

	buf := make([]byte, geometry.BlockSize)

	// volume directory key block
	binary.LittleEndian.PutUint16(buf[0x00:], 0)
	binary.LittleEndian.PutUint16(buf[0x02:], prodosDirFirst+1)
	buf[0x04] = 0xf0 | byte(len(name))
	copy(buf[0x05:0x14], name)
	buf[0x22] = prodosAccess
	buf[0x23] = prodosEntryLength
	buf[0x24] = prodosEntriesPerBlock
	binary.LittleEndian.PutUint16(buf[0x25:], 0) // file count
	binary.LittleEndian.PutUint16(buf[0x27:], prodosBitmapBase)
	binary.LittleEndian.PutUint16(buf[0x29:], uint16(blocks))

	if err := a.WriteBlock(prodosDirFirst, buf); err != nil {
		return fmt.Errorf("%w: writing volume directory: %v",
			ErrFormatFailed, err)
	}

	// remaining directory blocks, linked both ways
	for b := uint32(prodosDirFirst + 1); b <= prodosDirLast; b++ {
		for ix := range buf {
			buf[ix] = 0
		}
		binary.LittleEndian.PutUint16(buf[0x00:], uint16(b-1))
		if b < prodosDirLast {
			binary.LittleEndian.PutUint16(buf[0x02:], uint16(b+1))
		}
		if err := a.WriteBlock(b, buf); err != nil {
			return fmt.Errorf("%w: writing directory block %d: %v",
				ErrFormatFailed, b, err)
		}
	}

	// volume bitmap, one bit per block, set bits are free
	bitmapBlocks := (blocks + 4095) / 4096
	used := uint32(prodosBitmapBase) + bitmapBlocks

	for mb := uint32(0); mb < bitmapBlocks; mb++ {
		for ix := range buf {
			buf[ix] = 0
		}
		lo := mb * 4096
		for b := lo; b < lo+4096 && b < blocks; b++ {
			if b >= used {
				buf[(b-lo)/8] |= 0x80 >> ((b - lo) % 8)
			}
		}
		if err := a.WriteBlock(prodosBitmapBase+mb, buf); err != nil {
			return fmt.Errorf("%w: writing bitmap block %d: %v",
				ErrFormatFailed, prodosBitmapBase+mb, err)
		}
	}

	return nil
}
