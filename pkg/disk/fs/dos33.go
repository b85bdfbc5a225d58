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
	"fmt"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// DOS 3.3 places its volume table of contents on track 17, with the
// catalog chained backwards through the rest of that track.
const (
	dosCatalogTrack = 17
	dosVTOCSector   = 0
)

//
func formatDOS33(a chunk.Access, volumeNumber int) error {

	if !a.HasSectors() {
		return fmt.Errorf("%w: DOS 3.3 needs a sector addressable volume",
			ErrFormatFailed)
	}

	tracks := a.NumTracks()
	spt := a.NumSectorsPerTrack()

	if tracks <= dosCatalogTrack || spt > 32 {
		return fmt.Errorf("%w: DOS 3.3 cannot span %d tracks x %d sectors",
			ErrFormatFailed, tracks, spt)
	}

	firstCatalog := uint32(15)
	if spt <= 13 {
		firstCatalog = spt - 1
	}

	vtoc := make([]byte, geometry.SectorSize)
	vtoc[0x01] = dosCatalogTrack
	vtoc[0x02] = byte(firstCatalog)
	vtoc[0x03] = 3 // DOS version
	vtoc[0x06] = byte(volumeNumber)
	vtoc[0x27] = 122 // track/sector pairs per list sector
	vtoc[0x30] = dosCatalogTrack + 1
	vtoc[0x31] = 1 // allocation direction
	vtoc[0x34] = byte(tracks)
	vtoc[0x35] = byte(spt)
	vtoc[0x36] = 0x00 // bytes per sector, little-endian
	vtoc[0x37] = 0x01

	for t := uint32(0); t < tracks; t++ {
		// track 0 and the catalog track stay reserved
		var word uint32
		if t != 0 && t != dosCatalogTrack {
			for s := uint32(0); s < spt; s++ {
				word |= 1 << (32 - spt + s)
			}
		}
		off := 0x38 + t*4
		vtoc[off] = byte(word >> 24)
		vtoc[off+1] = byte(word >> 16)
		vtoc[off+2] = byte(word >> 8)
		vtoc[off+3] = byte(word)
	}

	if err := a.WriteSector(dosCatalogTrack, dosVTOCSector, chunk.OrderDOS,
		vtoc); err != nil {
		return fmt.Errorf("%w: writing VTOC: %v", ErrFormatFailed, err)
	}

	cat := make([]byte, geometry.SectorSize)
	for s := firstCatalog; s >= 1; s-- {
		for ix := range cat {
			cat[ix] = 0
		}
		if s > 1 {
			cat[0x01] = dosCatalogTrack
			cat[0x02] = byte(s - 1)
		}
		if err := a.WriteSector(dosCatalogTrack, s, chunk.OrderDOS,
			cat); err != nil {
			return fmt.Errorf("%w: writing catalog sector %d: %v",
				ErrFormatFailed, s, err)
		}
	}

	return nil
}
