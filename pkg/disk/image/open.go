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
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

/*
	Open opens an existing byte-oriented disk image read-only, giving it
	addressable chunk access. The nibble containers and .SDK archives are
	construction-only at this layer and cannot be opened.
*/
func Open(path string) (*DiskImage, error) {

	format, err := ForExtension(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatWoz, FormatNib, FormatTrackstar, FormatNuFX:
		return nil, fmt.Errorf("opening %s images is not supported", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	img, err := openOn(f, fi.Size(), format)
	if err != nil {
		f.Close()
		return nil, err
	}

	img.path = path
	img.closer = f

	log.Debugf("opened %s: %s, %s", path, img.Format, img.Geometry)

	return img, nil
}

//
func openOn(ws io.ReadWriteSeeker, size int64, format Format) (*DiskImage,
	error) {

	switch format {

	case FormatDOSSector:
		return openSectorImage(ws, size, 16)

	case FormatBlockImage:
		blocks, err := geometry.Blocks(size)
		if err != nil {
			return nil, fmt.Errorf("bad block image size %d: %v", size, err)
		}
		return &DiskImage{
			Format: FormatBlockImage,
			Geometry: geometry.DiskGeometry{
				Addressing:  geometry.AddressBlocks,
				TotalBlocks: blocks,
				SizeBytes:   size,
			},
			VolumeNumber: DefaultVolumeNumber,
			access:       chunk.NewBlockAccess(ws, 0, blocks, true),
		}, nil

	case FormatTwoIMG:
		return openTwoIMG(ws, size)

	case FormatDiskCopy42:
		return openDiskCopy(ws, size)
	}

	return nil, fmt.Errorf("opening %s images is not supported", format)
}

//
func openSectorImage(ws io.ReadWriteSeeker, size int64,
	spt uint32) (*DiskImage, error) {

	// 13-sector images are recognized by their exact size
	if size == 35*13*geometry.SectorSize {
		spt = 13
	}

	trackBytes := int64(spt) * geometry.SectorSize
	if size <= 0 || size%trackBytes != 0 {
		return nil, fmt.Errorf(
			"%d bytes is not a whole number of %d-sector tracks", size, spt)
	}

	geom := geometry.DiskGeometry{
		Addressing:      geometry.AddressSectors525,
		Tracks:          uint32(size / trackBytes),
		SectorsPerTrack: spt,
		SizeBytes:       size,
		Media:           geometry.GCR525,
	}

	return &DiskImage{
		Format:       FormatDOSSector,
		Geometry:     geom,
		VolumeNumber: DefaultVolumeNumber,
		access: chunk.NewSectorAccess(ws, 0, geom.Tracks, spt,
			chunk.OrderDOS, true),
	}, nil
}

//
func openTwoIMG(ws io.ReadWriteSeeker, size int64) (*DiskImage, error) {

	hdr := make([]byte, twoIMGHeaderSize)
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(ws, hdr); err != nil {
		return nil, fmt.Errorf("reading 2IMG header: %v", err)
	}

	if string(hdr[0:4]) != string(twoIMGMagic) {
		return nil, fmt.Errorf("not a 2IMG file")
	}

	variant := binary.LittleEndian.Uint32(hdr[0x0c:])
	dataOff := int64(binary.LittleEndian.Uint32(hdr[0x18:]))
	dataLen := int64(binary.LittleEndian.Uint32(hdr[0x1c:]))

	if dataOff+dataLen > size {
		return nil, fmt.Errorf("2IMG data area exceeds file size")
	}

	img := &DiskImage{
		Format:       FormatTwoIMG,
		VolumeNumber: DefaultVolumeNumber,
	}

	if flags := binary.LittleEndian.Uint32(hdr[0x10:]); flags&twoIMGFlagVolumeValid != 0 {
		img.VolumeNumber = int(flags & 0xff)
	}

	switch variant {

	case twoIMGFormatProDOS:
		blocks := binary.LittleEndian.Uint32(hdr[0x14:])
		if blocks == 0 {
			blocks = uint32(dataLen / geometry.BlockSize)
		}
		img.Geometry = geometry.DiskGeometry{
			Addressing:  geometry.AddressBlocks,
			TotalBlocks: blocks,
			SizeBytes:   dataLen,
		}
		img.access = chunk.NewBlockAccess(ws, dataOff, blocks, true)

	case twoIMGFormatDOS:
		trackBytes := int64(16) * geometry.SectorSize
		if dataLen%trackBytes != 0 {
			return nil, fmt.Errorf("2IMG DOS data area of %d bytes is not "+
				"a whole number of tracks", dataLen)
		}
		img.Geometry = geometry.DiskGeometry{
			Addressing:      geometry.AddressSectors525,
			Tracks:          uint32(dataLen / trackBytes),
			SectorsPerTrack: 16,
			SizeBytes:       dataLen,
			Media:           geometry.GCR525,
		}
		img.access = chunk.NewSectorAccess(ws, dataOff, img.Geometry.Tracks,
			16, chunk.OrderDOS, true)

	default:
		return nil, fmt.Errorf("unsupported 2IMG variant: %d", variant)
	}

	return img, nil
}

//
func openDiskCopy(ws io.ReadWriteSeeker, size int64) (*DiskImage, error) {

	hdr := make([]byte, dc42HeaderSize)
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(ws, hdr); err != nil {
		return nil, fmt.Errorf("reading DiskCopy header: %v", err)
	}

	if hdr[dc42Magic] != 0x01 || hdr[dc42Magic+1] != 0x00 {
		return nil, fmt.Errorf("not a DiskCopy 4.2 file")
	}

	dataLen := int64(binary.BigEndian.Uint32(hdr[dc42DataSize:]))
	if dc42HeaderSize+dataLen > size {
		return nil, fmt.Errorf("DiskCopy data area exceeds file size")
	}

	blocks, err := geometry.Blocks(dataLen)
	if err != nil {
		return nil, fmt.Errorf("bad DiskCopy data size %d: %v", dataLen, err)
	}

	return &DiskImage{
		Format: FormatDiskCopy42,
		Geometry: geometry.DiskGeometry{
			Addressing:  geometry.AddressBlocks,
			TotalBlocks: blocks,
			SizeBytes:   dataLen,
		},
		VolumeNumber: DefaultVolumeNumber,
		access:       chunk.NewBlockAccess(ws, dc42HeaderSize, blocks, true),
	}, nil
}
