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

// DiskCopy 4.2 header layout (big-endian)
const (
	dc42HeaderSize   = 0x54
	dc42NameOffset   = 0x00 // 64-byte pascal string
	dc42DataSize     = 0x40
	dc42TagSize      = 0x44
	dc42DataChecksum = 0x48
	dc42TagChecksum  = 0x4c
	dc42DiskFormat   = 0x50
	dc42FormatByte   = 0x51
	dc42Magic        = 0x52 // 0x01 0x00
)

// dc42DefaultName is used when no volume name is supplied; DiskCopy itself
// tags non-Macintosh disks this way.
const dc42DefaultName = "-not a Macintosh disk"

// diskCopyWriter creates DiskCopy 4.2 containers for the 3.5" media kinds.
type diskCopyWriter struct{}

//
func (w *diskCopyWriter) Format() Format {
	return FormatDiskCopy42
}

//
func (w *diskCopyWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if !geom.HasBlocks() {
		return false, "size is not block addressable"
	}
	if _, _, ok := dc42MediaBytes(geom.Media); !ok {
		return false, fmt.Sprintf(
			"DiskCopy 4.2 cannot hold %s media", geom.Media)
	}
	return true, ""
}

// dc42MediaBytes maps a media kind to the header's disk format and format
// bytes.
func dc42MediaBytes(m geometry.MediaKind) (byte, byte, bool) {
	switch m {
	case geometry.GCRSSDD35:
		return 0x00, 0x12, true
	case geometry.GCRDSDD35:
		return 0x01, 0x24, true
	case geometry.MFMDSHD35:
		return 0x03, 0x22, true
	}
	return 0, 0, false
}

//
func (w *diskCopyWriter) Create(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	diskFormat, formatByte, _ := dc42MediaBytes(geom.Media)

	name := p.VolumeName
	if name == "" {
		name = dc42DefaultName
	}
	if len(name) > 63 {
		name = name[:63]
	}

	hdr := make([]byte, dc42HeaderSize)
	hdr[dc42NameOffset] = byte(len(name))
	copy(hdr[dc42NameOffset+1:], name)
	binary.BigEndian.PutUint32(hdr[dc42DataSize:], uint32(geom.SizeBytes))
	// tag data is not carried; checksum gets patched in on flush
	hdr[dc42DiskFormat] = diskFormat
	hdr[dc42FormatByte] = formatByte
	hdr[dc42Magic] = 0x01
	hdr[dc42Magic+1] = 0x00

	if _, err := ws.Write(hdr); err != nil {
		return nil, fmt.Errorf("writing DiskCopy header: %v", err)
	}
	if err := writeZeros(ws, geom.SizeBytes); err != nil {
		return nil, err
	}

	log.Debugf("created DiskCopy 4.2 image, %s", geom)

	img := &DiskImage{
		Format:       FormatDiskCopy42,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		VolumeName:   p.VolumeName,
		access: chunk.NewBlockAccess(ws, dc42HeaderSize, geom.TotalBlocks,
			false),
	}
	img.flush = func() error {
		return dc42PatchChecksum(ws, geom.SizeBytes)
	}

	return img, nil
}

// dc42PatchChecksum recomputes the data checksum and writes it into the
// header.
func dc42PatchChecksum(ws io.ReadWriteSeeker, size int64) error {

	if _, err := ws.Seek(dc42HeaderSize, io.SeekStart); err != nil {
		return err
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(ws, data); err != nil {
		return fmt.Errorf("reading back data area: %v", err)
	}

	sum := dc42Checksum(data)

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], sum)
	if _, err := ws.Seek(dc42DataChecksum, io.SeekStart); err != nil {
		return err
	}
	if _, err := ws.Write(buf[:]); err != nil {
		return fmt.Errorf("patching checksum: %v", err)
	}

	return nil
}

// dc42Checksum sums big-endian 16-bit words, rotating the accumulator right
// by one after each addition.
func dc42Checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i+1 < len(data); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i:]))
		sum = sum>>1 | sum<<31
	}
	return sum
}
