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
	"encoding/binary"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// 2IMG header layout
const (
	twoIMGHeaderSize = 64

	twoIMGFormatDOS    = 0
	twoIMGFormatProDOS = 1

	// flags word: low byte carries the volume number when bit 8 is set
	twoIMGFlagVolumeValid = 0x0100
)

var twoIMGMagic = []byte("2IMG")
var twoIMGCreator = []byte("DWRT")

// twoIMGWriter creates 2IMG containers, either the ProDOS block variant or
// the DOS sector-order variant.
type twoIMGWriter struct{}

//
func (w *twoIMGWriter) Format() Format {
	return FormatTwoIMG
}

//
func (w *twoIMGWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if geom.HasBlocks() {
		return true, ""
	}
	if geom.HasSectors() && geom.SectorsPerTrack == 16 {
		return true, ""
	}
	return false, "size fits neither 2IMG variant (blocks or 16-sector tracks)"
}

//
func (w *twoIMGWriter) Create(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	hdr := make([]byte, twoIMGHeaderSize)
	copy(hdr[0x00:], twoIMGMagic)
	copy(hdr[0x04:], twoIMGCreator)
	binary.LittleEndian.PutUint16(hdr[0x08:], twoIMGHeaderSize)
	binary.LittleEndian.PutUint16(hdr[0x0a:], 1) // version

	variant := uint32(twoIMGFormatProDOS)
	if !geom.HasBlocks() {
		variant = twoIMGFormatDOS
	}
	binary.LittleEndian.PutUint32(hdr[0x0c:], variant)

	// the volume number override only applies to the DOS variant
	if variant == twoIMGFormatDOS && p.VolumeNumber != DefaultVolumeNumber {
		binary.LittleEndian.PutUint32(hdr[0x10:],
			twoIMGFlagVolumeValid|uint32(p.VolumeNumber&0xff))
	}

	if geom.HasBlocks() {
		binary.LittleEndian.PutUint32(hdr[0x14:], geom.TotalBlocks)
	}
	binary.LittleEndian.PutUint32(hdr[0x18:], twoIMGHeaderSize)
	binary.LittleEndian.PutUint32(hdr[0x1c:], uint32(geom.SizeBytes))

	if _, err := ws.Write(hdr); err != nil {
		return nil, fmt.Errorf("writing 2IMG header: %v", err)
	}
	if err := writeZeros(ws, geom.SizeBytes); err != nil {
		return nil, err
	}

	var access chunk.Access
	if variant == twoIMGFormatProDOS {
		access = chunk.NewBlockAccess(ws, twoIMGHeaderSize, geom.TotalBlocks,
			false)
	} else {
		access = chunk.NewSectorAccess(ws, twoIMGHeaderSize, geom.Tracks,
			geom.SectorsPerTrack, chunk.OrderDOS, false)
	}

	log.Debugf("created 2IMG image, variant %d, %s", variant, geom)

	return &DiskImage{
		Format:       FormatTwoIMG,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		access:       access,
	}, nil
}
