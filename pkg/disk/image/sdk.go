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

	"github.com/cidermill/diskwright/pkg/disk/geometry"
	"github.com/cidermill/diskwright/pkg/disk/nufx"
)

// sdkRecordName is used when the volume name's legality is not known for
// the chosen filesystem.
const sdkRecordName = "DISK"

/*
	nufxWriter creates .SDK images: the raw ProDOS block image is staged in
	a memory buffer and wrapped into a single-record NuFX archive when the
	image is flushed. Only the two classic floppy sizes are transportable
	this way.
*/
type nufxWriter struct{}

//
func (w *nufxWriter) Format() Format {
	return FormatNuFX
}

//
func (w *nufxWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if !geom.HasBlocks() {
		return false, "size is not block addressable"
	}
	if geom.TotalBlocks != 280 && geom.TotalBlocks != 1600 {
		return false, fmt.Sprintf(
			".SDK holds only 140KB or 800KB floppies, not %d blocks",
			geom.TotalBlocks)
	}
	return true, ""
}

//
func (w *nufxWriter) Create(ws io.ReadWriteSeeker, geom geometry.DiskGeometry,
	p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	access, mem := newBlockStore(geom)

	name := sdkRecordName
	if p.VolumeNameIsProDOS && p.VolumeName != "" {
		name = p.VolumeName
	}

	img := &DiskImage{
		Format:       FormatNuFX,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		VolumeName:   p.VolumeName,
		access:       access,
	}

	img.flush = func() error {
		if _, err := ws.Seek(0, io.SeekStart); err != nil {
			return err
		}
		return nufx.Wrap(mem.Bytes(), name, ws)
	}

	if err := img.flush(); err != nil {
		return nil, err
	}

	log.Debugf("created NuFX-wrapped image %q, %s", name, geom)

	return img, nil
}
