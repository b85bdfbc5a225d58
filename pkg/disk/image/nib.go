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
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/codec"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// nibWriter creates raw nibble stream images (.nib): 35 tracks of $1A00
// encoded bytes, no header. The volume number ends up in every sector's
// address field.
type nibWriter struct{}

//
func (w *nibWriter) Format() Format {
	return FormatNib
}

//
func (w *nibWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if !geom.HasSectors() {
		return false, "size is not track/sector addressable"
	}
	if geom.SectorsPerTrack != 13 && geom.SectorsPerTrack != 16 {
		return false, fmt.Sprintf(
			"NIB needs 13 or 16 sectors per track, not %d", geom.SectorsPerTrack)
	}
	if geom.Tracks != 35 {
		return false, fmt.Sprintf("NIB holds exactly 35 tracks, not %d",
			geom.Tracks)
	}
	return true, ""
}

//
func (w *nibWriter) Create(ws io.ReadWriteSeeker, geom geometry.DiskGeometry,
	p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	c, err := codec.New(geometry.GCR525, geom.SectorsPerTrack)
	if err != nil {
		return nil, err
	}

	access, mem := newSectorStore(geom)

	img := &DiskImage{
		Format:       FormatNib,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		access:       access,
	}

	img.flush = func() error {

		if _, err := ws.Seek(0, io.SeekStart); err != nil {
			return err
		}

		for t := uint32(0); t < geom.Tracks; t++ {
			enc, err := encodeStoredTrack(c, mem, t, byte(p.VolumeNumber),
				geom.SectorsPerTrack)
			if err != nil {
				return err
			}
			if _, err := ws.Write(enc); err != nil {
				return fmt.Errorf("writing track %d: %v", t, err)
			}
		}
		return nil
	}

	// lay the formatted tracks down right away, so the file is complete
	// even without further writes
	if err := img.flush(); err != nil {
		return nil, err
	}

	log.Debugf("created NIB image, %s", geom)

	return img, nil
}
