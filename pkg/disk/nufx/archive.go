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

// Package nufx writes the minimal NuFX (ShrinkIt) archive needed for .SDK
// disk images: one record whose data thread is the raw disk image.
package nufx

import (
	"encoding/binary"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// magic strings carry the ASCII with alternating high bits set
var (
	masterMagic = []byte{0x4e, 0xf5, 0x46, 0xe9, 0x6c, 0xe5} // "NuFile"
	recordMagic = []byte{0x4e, 0xf5, 0x46, 0xd8}             // "NuFX"
)

const (
	masterHeaderSize = 48
	masterVersion    = 2
	recordVersion    = 3

	threadHeaderSize = 16

	threadClassData     = 2
	threadClassFilename = 3
	threadKindDiskImage = 1
	threadFormatNone    = 0 // threads are stored uncompressed at this layer

	fileSysProDOS  = 1
	accessUnlocked = 0xe3
)

// CRC16 is the XMODEM variant (poly 0x1021) NuFX uses for its header and
// thread checksums.
func CRC16(seed uint16, data []byte) uint16 {
	crc := seed
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

/*
	Wrap writes a single-record NuFX archive holding raw as a disk-image
	thread. The record carries the given name, which callers set to the
	volume name when its legality is known (the ProDOS case) and to a fixed
	literal otherwise.
*/
func Wrap(raw []byte, name string, out io.Writer) error {

	if name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if len(raw)%geometry.BlockSize != 0 {
		return fmt.Errorf(
			"disk image of %d bytes is not a whole number of blocks", len(raw))
	}
	blocks := uint32(len(raw) / geometry.BlockSize)

	record := buildRecord(raw, name, blocks)

	master := make([]byte, masterHeaderSize)
	copy(master, masterMagic)
	binary.LittleEndian.PutUint32(master[8:], 1) // total records
	binary.LittleEndian.PutUint16(master[28:], masterVersion)
	binary.LittleEndian.PutUint32(master[38:],
		uint32(masterHeaderSize+len(record))) // master EOF
	binary.LittleEndian.PutUint16(master[6:], CRC16(0, master[8:]))

	if _, err := out.Write(master); err != nil {
		return fmt.Errorf("writing master header: %v", err)
	}
	if _, err := out.Write(record); err != nil {
		return fmt.Errorf("writing record: %v", err)
	}

	log.Debugf("wrapped %d-block disk image into NuFX record %q", blocks, name)

	return nil
}

/*
	buildRecord assembles the record header, the filename and data thread
	headers, and the thread contents. The attribute section runs from the
	record magic through the filename length word; the header CRC covers
	everything from the attribute count on, including the thread headers.
*/
func buildRecord(raw []byte, name string, blocks uint32) []byte {

	const attribCount = 60 // fixed attribute section, filename in a thread

	hdr := make([]byte, attribCount)
	copy(hdr, recordMagic)
	binary.LittleEndian.PutUint16(hdr[6:], attribCount)
	binary.LittleEndian.PutUint16(hdr[8:], recordVersion)
	binary.LittleEndian.PutUint32(hdr[10:], 2) // total threads
	binary.LittleEndian.PutUint16(hdr[14:], fileSysProDOS)
	binary.LittleEndian.PutUint16(hdr[16:], '/') // path separator
	binary.LittleEndian.PutUint32(hdr[18:], accessUnlocked)
	// file type stays 0 for disk images; extra type carries the block count
	binary.LittleEndian.PutUint32(hdr[26:], blocks)
	binary.LittleEndian.PutUint16(hdr[30:], geometry.BlockSize) // storage type
	// the three when fields stay zero ("no date"); option size and the
	// filename length word stay zero as well

	fnThread := threadHeader(threadClassFilename, threadFormatNone, 0,
		[]byte(name))
	dataThread := threadHeader(threadClassData, threadFormatNone,
		threadKindDiskImage, raw)

	record := hdr
	record = append(record, fnThread...)
	record = append(record, dataThread...)

	crc := CRC16(0, record[6:])
	binary.LittleEndian.PutUint16(record[4:], crc)

	record = append(record, name...)
	record = append(record, raw...)

	return record
}

//
func threadHeader(class, format, kind uint16, data []byte) []byte {
	hdr := make([]byte, threadHeaderSize)
	binary.LittleEndian.PutUint16(hdr[0:], class)
	binary.LittleEndian.PutUint16(hdr[2:], format)
	binary.LittleEndian.PutUint16(hdr[4:], kind)
	binary.LittleEndian.PutUint16(hdr[6:], CRC16(0xffff, data))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(data)))  // thread EOF
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(data))) // compressed EOF
	return hdr
}
