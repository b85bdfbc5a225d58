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

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// SectorOrder is the convention mapping a logical sector number to its
// physical position within a track.
type SectorOrder int

//
const (
	OrderPhysical SectorOrder = iota
	OrderDOS
	OrderProDOS
	OrderCPM
)

//
func (o SectorOrder) String() string {
	switch o {
	case OrderDOS:
		return "DOS"
	case OrderProDOS:
		return "ProDOS"
	case OrderCPM:
		return "CP/M"
	}
	return "physical"
}

// logical sector -> physical sector skew tables for 16-sector tracks;
// 13-sector tracks are always addressed physically
var (
	skewDOS = [16]uint32{
		0x0, 0xD, 0xB, 0x9, 0x7, 0x5, 0x3, 0x1,
		0xE, 0xC, 0xA, 0x8, 0x6, 0x4, 0x2, 0xF,
	}
	skewProDOS = [16]uint32{
		0x0, 0x2, 0x4, 0x6, 0x8, 0xA, 0xC, 0xE,
		0x1, 0x3, 0x5, 0x7, 0x9, 0xB, 0xD, 0xF,
	}
	skewCPM = [16]uint32{
		0x0, 0x3, 0x6, 0x9, 0xC, 0xF, 0x2, 0x5,
		0x8, 0xB, 0xE, 0x1, 0x4, 0x7, 0xA, 0xD,
	}
)

//
func skewTable(o SectorOrder) *[16]uint32 {
	switch o {
	case OrderDOS:
		return &skewDOS
	case OrderProDOS:
		return &skewProDOS
	case OrderCPM:
		return &skewCPM
	}
	return nil
}

// ToPhysical maps a logical sector number under the given order to the
// physical sector position on a track with the given sector count.
func ToPhysical(o SectorOrder, sector, sectorsPerTrack uint32) uint32 {
	if sectorsPerTrack != 16 {
		return sector
	}
	if t := skewTable(o); t != nil {
		return t[sector]
	}
	return sector
}

// FromPhysical is the inverse of ToPhysical.
func FromPhysical(o SectorOrder, physical, sectorsPerTrack uint32) uint32 {
	if sectorsPerTrack != 16 {
		return physical
	}
	if t := skewTable(o); t != nil {
		for l, p := range t {
			if p == physical {
				return uint32(l)
			}
		}
	}
	return physical
}

/*
	Access is an addressable view onto a disk's storage units, independent of
	the container file format holding them. A disk may be sector addressable,
	block addressable, or both; callers must check the capability flags
	before using the corresponding operations.
*/
type Access interface {

	//
	HasSectors() bool

	//
	HasBlocks() bool

	//
	IsReadOnly() bool

	NumTracks() uint32

	NumSectorsPerTrack() uint32

	NumBlocks() uint32

	// FormattedLength is the total addressable payload size in bytes.
	FormattedLength() int64

	// ReadSector reads the 256-byte sector at (track, sector), with the
	// sector number interpreted under the given order. buf must hold
	// SectorSize bytes.
	ReadSector(track, sector uint32, order SectorOrder, buf []byte) error

	//
	WriteSector(track, sector uint32, order SectorOrder, buf []byte) error

	// ReadBlock reads the 512-byte block with the given number. buf must
	// hold BlockSize bytes.
	ReadBlock(block uint32, buf []byte) error

	//
	WriteBlock(block uint32, buf []byte) error

	// Flush pushes any buffered state through to the backing store.
	Flush() error
}

//
func checkSector(a Access, track, sector uint32, buf []byte, write bool) error {
	if !a.HasSectors() {
		return fmt.Errorf("not sector addressable")
	}
	if write && a.IsReadOnly() {
		return fmt.Errorf("read-only")
	}
	if track >= a.NumTracks() || sector >= a.NumSectorsPerTrack() {
		return fmt.Errorf("sector out of range: T%d S%d", track, sector)
	}
	if len(buf) != geometry.SectorSize {
		return fmt.Errorf("sector buffer must be %d bytes, got %d",
			geometry.SectorSize, len(buf))
	}
	return nil
}

//
func checkBlock(a Access, block uint32, buf []byte, write bool) error {
	if !a.HasBlocks() {
		return fmt.Errorf("not block addressable")
	}
	if write && a.IsReadOnly() {
		return fmt.Errorf("read-only")
	}
	if block >= a.NumBlocks() {
		return fmt.Errorf("block out of range: %d", block)
	}
	if len(buf) != geometry.BlockSize {
		return fmt.Errorf("block buffer must be %d bytes, got %d",
			geometry.BlockSize, len(buf))
	}
	return nil
}
