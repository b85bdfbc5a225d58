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

package image

import (
	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/codec"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

/*
	The nibble containers (WOZ, NIB, Trackstar) don't address sectors in
	place: their chunk space is a decoded in-memory sector store, and the
	whole container is re-encoded from it on flush. Opening existing nibble
	images for reading is not supported at this layer.
*/

// newSectorStore creates the memory-backed sector space for a 5.25" nibble
// container, in physical sector order.
func newSectorStore(geom geometry.DiskGeometry) (chunk.Access, *chunk.MemBuffer) {
	mem := chunk.NewMemBuffer(geom.SizeBytes)
	return chunk.NewSectorAccess(mem, 0, geom.Tracks, geom.SectorsPerTrack,
		chunk.OrderPhysical, false), mem
}

// newBlockStore creates the memory-backed block space for a 3.5" nibble
// container.
func newBlockStore(geom geometry.DiskGeometry) (chunk.Access, *chunk.MemBuffer) {
	mem := chunk.NewMemBuffer(geom.SizeBytes)
	return chunk.NewBlockAccess(mem, 0, geom.TotalBlocks, false), mem
}

// encodeStoredTrack encodes one track of a 5.25" sector store.
func encodeStoredTrack(c codec.Codec, mem *chunk.MemBuffer, track uint32,
	volume byte, spt uint32) ([]byte, error) {

	size := int64(spt) * geometry.SectorSize
	lo := int64(track) * size
	return c.EncodeTrack(track, volume, mem.Bytes()[lo:lo+size])
}

// trimSync drops trailing sync padding down to the given maximum length.
// The encoded content itself is never touched.
func trimSync(track []byte, max int) []byte {
	for len(track) > max && track[len(track)-1] == 0xff {
		track = track[:len(track)-1]
	}
	return track
}
