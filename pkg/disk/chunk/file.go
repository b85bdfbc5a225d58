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

package chunk

import (
	"fmt"
	"io"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

/*
	fileAccess addresses sectors and/or blocks within a seekable byte
	stream, starting at a base offset (to skip container headers). For
	sector-layout containers, fileOrder records the order in which the
	sectors are physically stored, so requests under any order can be
	translated to the right byte position.
*/
type fileAccess struct {
	ws        io.ReadWriteSeeker
	base      int64
	tracks    uint32
	spt       uint32
	blocks    uint32
	fileOrder SectorOrder
	readOnly  bool
}

/*
	NewSectorAccess creates chunk access over a sector-layout data area.
	16-sector tracks are additionally block addressable, through the ProDOS
	logical sector pairing.
*/
func NewSectorAccess(ws io.ReadWriteSeeker, base int64, tracks, spt uint32,
	fileOrder SectorOrder, readOnly bool) Access {

	a := &fileAccess{
		ws:        ws,
		base:      base,
		tracks:    tracks,
		spt:       spt,
		fileOrder: fileOrder,
		readOnly:  readOnly,
	}
	if spt == 16 {
		a.blocks = tracks * spt / uint32(geometry.SectorsPerBlock)
	}
	return a
}

/*
	NewBlockAccess creates chunk access over a linear block data area. When
	the block count matches a standard 16-sector floppy, the disk is
	additionally exposed as ProDOS-ordered sectors.
*/
func NewBlockAccess(ws io.ReadWriteSeeker, base int64, blocks uint32,
	readOnly bool) Access {

	a := &fileAccess{
		ws:        ws,
		base:      base,
		blocks:    blocks,
		fileOrder: OrderProDOS,
		readOnly:  readOnly,
	}
	if blocks%8 == 0 {
		if t := blocks / 8; t == 35 || t == 40 {
			a.tracks, a.spt = t, 16
		}
	}
	return a
}

//
func (a *fileAccess) HasSectors() bool {
	return a.tracks > 0 && a.spt > 0
}

//
func (a *fileAccess) HasBlocks() bool {
	return a.blocks > 0
}

//
func (a *fileAccess) IsReadOnly() bool {
	return a.readOnly
}

//
func (a *fileAccess) NumTracks() uint32 {
	return a.tracks
}

//
func (a *fileAccess) NumSectorsPerTrack() uint32 {
	return a.spt
}

//
func (a *fileAccess) NumBlocks() uint32 {
	return a.blocks
}

//
func (a *fileAccess) FormattedLength() int64 {
	if a.HasSectors() {
		return int64(a.tracks) * int64(a.spt) * geometry.SectorSize
	}
	return int64(a.blocks) * geometry.BlockSize
}

//
func (a *fileAccess) sectorOffset(track, sector uint32, order SectorOrder) int64 {
	phys := ToPhysical(order, sector, a.spt)
	slot := FromPhysical(a.fileOrder, phys, a.spt)
	return a.base + (int64(track)*int64(a.spt)+int64(slot))*geometry.SectorSize
}

//
func (a *fileAccess) ReadSector(track, sector uint32, order SectorOrder,
	buf []byte) error {

	if err := checkSector(a, track, sector, buf, false); err != nil {
		return err
	}
	return a.readAt(a.sectorOffset(track, sector, order), buf)
}

//
func (a *fileAccess) WriteSector(track, sector uint32, order SectorOrder,
	buf []byte) error {

	if err := checkSector(a, track, sector, buf, true); err != nil {
		return err
	}
	return a.writeAt(a.sectorOffset(track, sector, order), buf)
}

//
func (a *fileAccess) ReadBlock(block uint32, buf []byte) error {

	if err := checkBlock(a, block, buf, false); err != nil {
		return err
	}

	if a.HasSectors() {
		return a.blockBySectors(block, buf, a.ReadSector)
	}
	return a.readAt(a.base+int64(block)*geometry.BlockSize, buf)
}

//
func (a *fileAccess) WriteBlock(block uint32, buf []byte) error {

	if err := checkBlock(a, block, buf, true); err != nil {
		return err
	}

	if a.HasSectors() {
		return a.blockBySectors(block, buf, a.WriteSector)
	}
	return a.writeAt(a.base+int64(block)*geometry.BlockSize, buf)
}

// blockBySectors maps a block onto its two ProDOS logical sectors.
func (a *fileAccess) blockBySectors(block uint32, buf []byte,
	op func(uint32, uint32, SectorOrder, []byte) error) error {

	perTrack := a.spt / uint32(geometry.SectorsPerBlock)
	track := block / perTrack
	first := (block % perTrack) * uint32(geometry.SectorsPerBlock)

	for i := uint32(0); i < uint32(geometry.SectorsPerBlock); i++ {
		lo := int(i) * geometry.SectorSize
		if err := op(track, first+i, OrderProDOS,
			buf[lo:lo+geometry.SectorSize]); err != nil {
			return err
		}
	}
	return nil
}

//
func (a *fileAccess) Flush() error {
	return nil
}

//
func (a *fileAccess) readAt(off int64, buf []byte) error {
	if _, err := a.ws.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %v", off, err)
	}
	if _, err := io.ReadFull(a.ws, buf); err != nil {
		return fmt.Errorf("read at %d: %v", off, err)
	}
	return nil
}

//
func (a *fileAccess) writeAt(off int64, buf []byte) error {
	if _, err := a.ws.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %v", off, err)
	}
	if _, err := a.ws.Write(buf); err != nil {
		return fmt.Errorf("write at %d: %v", off, err)
	}
	return nil
}
