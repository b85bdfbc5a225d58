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
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// ErrNotImplemented flags a copy across the sector/block addressing boundary,
// which is not supported.
var ErrNotImplemented = errors.New("not implemented")

// CopyResult reports the outcome of a whole-disk copy. ErrorCount is the
// number of source units that could not be read and were written to the
// destination zero-filled.
type CopyResult struct {
	ErrorCount int
}

/*
	CopyDisk copies all storage units from src to dst. Both sides must share
	an addressing scheme: when both are sector addressable, all (track,
	sector) pairs of the source geometry are copied in ascending order as
	256-byte units; otherwise, when both are block addressable, all source
	blocks are copied in ascending order as 512-byte units. A source read
	failure zero-fills the unit and counts it; a destination write failure
	aborts the copy. Cancellation via ctx is checked between units.

	The destination must be writable and at least as large as the source.
	A violation indicates a bug in the calling builder, not a user error.
*/
func CopyDisk(ctx context.Context, src, dst Access) (CopyResult, error) {

	res := CopyResult{}

	if dst.IsReadOnly() {
		return res, fmt.Errorf("internal: copy destination is read-only")
	}
	if src.FormattedLength() > dst.FormattedLength() {
		return res, fmt.Errorf(
			"internal: source larger than destination (%d > %d bytes)",
			src.FormattedLength(), dst.FormattedLength())
	}

	switch {
	case src.HasSectors() && dst.HasSectors():
		return copySectors(ctx, src, dst)
	case src.HasBlocks() && dst.HasBlocks():
		return copyBlocks(ctx, src, dst)
	}

	return res, fmt.Errorf(
		"%w: copy between sector-only and block-only disks", ErrNotImplemented)
}

//
func copySectors(ctx context.Context, src, dst Access) (CopyResult, error) {

	res := CopyResult{}
	buf := make([]byte, geometry.SectorSize)

	for t := uint32(0); t < src.NumTracks(); t++ {
		for s := uint32(0); s < src.NumSectorsPerTrack(); s++ {

			if err := ctx.Err(); err != nil {
				return res, err
			}

			if err := src.ReadSector(t, s, OrderPhysical, buf); err != nil {
				log.WithFields(log.Fields{"track": t, "sector": s}).Warnf(
					"unreadable source sector, zero-filling: %v", err)
				zero(buf)
				res.ErrorCount++
			}

			if err := dst.WriteSector(t, s, OrderPhysical, buf); err != nil {
				return res, fmt.Errorf(
					"writing destination sector T%d S%d: %v", t, s, err)
			}
		}
	}

	log.Debugf("copied %d sectors, %d unreadable",
		src.NumTracks()*src.NumSectorsPerTrack(), res.ErrorCount)

	return res, nil
}

//
func copyBlocks(ctx context.Context, src, dst Access) (CopyResult, error) {

	res := CopyResult{}
	buf := make([]byte, geometry.BlockSize)

	for b := uint32(0); b < src.NumBlocks(); b++ {

		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := src.ReadBlock(b, buf); err != nil {
			log.WithFields(log.Fields{"block": b}).Warnf(
				"unreadable source block, zero-filling: %v", err)
			zero(buf)
			res.ErrorCount++
		}

		if err := dst.WriteBlock(b, buf); err != nil {
			return res, fmt.Errorf("writing destination block %d: %v", b, err)
		}
	}

	log.Debugf("copied %d blocks, %d unreadable", src.NumBlocks(),
		res.ErrorCount)

	return res, nil
}

//
func zero(buf []byte) {
	for ix := range buf {
		buf[ix] = 0
	}
}
