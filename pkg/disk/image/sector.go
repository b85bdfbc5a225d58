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

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// writeZeros extends the stream with a zeroed data area of the given size.
func writeZeros(ws io.Writer, size int64) error {

	buf := make([]byte, 4096)
	for size > 0 {
		n := int64(len(buf))
		if n > size {
			n = size
		}
		if _, err := ws.Write(buf[:n]); err != nil {
			return fmt.Errorf("writing data area: %v", err)
		}
		size -= n
	}
	return nil
}

// dosSectorWriter creates plain sector images in DOS order (.do, .d13).
// There is no header; the file is exactly the sector data.
type dosSectorWriter struct{}

//
func (w *dosSectorWriter) Format() Format {
	return FormatDOSSector
}

//
func (w *dosSectorWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if !geom.HasSectors() {
		return false, "size is not track/sector addressable"
	}
	if geom.SectorsPerTrack != 13 && geom.SectorsPerTrack != 16 {
		return false, fmt.Sprintf(
			"DOS sector images need 13 or 16 sectors per track, not %d",
			geom.SectorsPerTrack)
	}
	if geom.Tracks != 35 && geom.Tracks != 40 {
		return false, fmt.Sprintf(
			"DOS sector images need 35 or 40 tracks, not %d", geom.Tracks)
	}
	return true, ""
}

//
func (w *dosSectorWriter) Create(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	if err := writeZeros(ws, geom.SizeBytes); err != nil {
		return nil, err
	}

	log.Debugf("created DOS sector image, %s", geom)

	return &DiskImage{
		Format:       FormatDOSSector,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		access: chunk.NewSectorAccess(ws, 0, geom.Tracks,
			geom.SectorsPerTrack, chunk.OrderDOS, false),
	}, nil
}

// blockImageWriter creates plain ProDOS block images (.po): linear 512-byte
// blocks, equivalently 16 ProDOS-ordered sectors per track on floppy sizes.
type blockImageWriter struct{}

//
func (w *blockImageWriter) Format() Format {
	return FormatBlockImage
}

//
func (w *blockImageWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if geom.HasBlocks() {
		return true, ""
	}
	if geom.HasSectors() && geom.SectorsPerTrack == 16 {
		return true, ""
	}
	return false, "size is neither block addressable nor 16-sector"
}

//
func (w *blockImageWriter) Create(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	if err := writeZeros(ws, geom.SizeBytes); err != nil {
		return nil, err
	}

	var access chunk.Access
	if geom.HasBlocks() {
		access = chunk.NewBlockAccess(ws, 0, geom.TotalBlocks, false)
	} else {
		access = chunk.NewSectorAccess(ws, 0, geom.Tracks,
			geom.SectorsPerTrack, chunk.OrderProDOS, false)
	}

	log.Debugf("created ProDOS block image, %s", geom)

	return &DiskImage{
		Format:       FormatBlockImage,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		access:       access,
	}, nil
}
