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
	"hash/crc32"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/codec"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// WOZ2 container constants
const (
	wozInfoSize     = 60
	wozTmapEntries  = 160
	wozTrksEntries  = 160
	wozCreator      = "DiskWright"
	wozDiskType525  = 1
	wozDiskType35   = 2
	wozBitTiming525 = 32
	wozBitTiming35  = 16
)

// wozWriter creates WOZ2 containers, with separate construction paths for
// 5.25" and 3.5" media.
type wozWriter struct{}

//
func (w *wozWriter) Format() Format {
	return FormatWoz
}

//
func (w *wozWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {

	switch geom.Media {

	case geometry.GCR525:
		if !geom.HasSectors() {
			return false, "size is not track/sector addressable"
		}
		if geom.SectorsPerTrack != 13 && geom.SectorsPerTrack != 16 {
			return false, fmt.Sprintf(
				"WOZ 5.25\" needs 13 or 16 sectors per track, not %d",
				geom.SectorsPerTrack)
		}
		if geom.Tracks != 35 && geom.Tracks != 40 {
			return false, fmt.Sprintf(
				"WOZ 5.25\" holds 35 or 40 tracks, not %d", geom.Tracks)
		}
		return true, ""

	case geometry.GCRSSDD35, geometry.GCRDSDD35:
		return true, ""

	case geometry.MFMDSHD35:
		return false, "WOZ writer has no MFM codec"
	}

	return false, "size has no media kind"
}

//
func (w *wozWriter) Create(ws io.ReadWriteSeeker, geom geometry.DiskGeometry,
	p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	if geom.Media == geometry.GCR525 {
		return w.create525(ws, geom, p)
	}
	return w.create35(ws, geom, p)
}

//
func (w *wozWriter) create525(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	c, err := codec.New(geometry.GCR525, geom.SectorsPerTrack)
	if err != nil {
		return nil, err
	}

	access, mem := newSectorStore(geom)

	img := &DiskImage{
		Format:       FormatWoz,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		VolumeName:   p.VolumeName,
		access:       access,
	}

	img.flush = func() error {

		tracks := make([][]byte, geom.Tracks)
		for t := uint32(0); t < geom.Tracks; t++ {
			enc, err := encodeStoredTrack(c, mem, t, byte(p.VolumeNumber),
				geom.SectorsPerTrack)
			if err != nil {
				return err
			}
			tracks[t] = enc
		}

		tmap := quarterTrackMap(geom.Tracks)

		boot := byte(1)
		if geom.SectorsPerTrack == 13 {
			boot = 2
		}

		return writeWozFile(ws, wozDiskType525, 1, boot, wozBitTiming525,
			tmap, tracks, p.VolumeName)
	}

	if err := img.flush(); err != nil {
		return nil, err
	}

	log.Debugf("created WOZ 5.25\" image, %s", geom)

	return img, nil
}

//
func (w *wozWriter) create35(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	c, err := codec.New(geom.Media, 0)
	if err != nil {
		return nil, err
	}

	sides := uint32(1)
	if geom.Media == geometry.GCRDSDD35 {
		sides = 2
	}

	access, mem := newBlockStore(geom)

	img := &DiskImage{
		Format:       FormatWoz,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		VolumeName:   p.VolumeName,
		access:       access,
	}

	img.flush = func() error {

		trackCount := 80 * sides
		tracks := make([][]byte, trackCount)
		data := mem.Bytes()
		off := 0

		for t := uint32(0); t < trackCount; t++ {
			size := int(c.SectorsForTrack(t)) * c.SectorSize()
			enc, err := c.EncodeTrack(t, byte(p.VolumeNumber),
				data[off:off+size])
			if err != nil {
				return err
			}
			tracks[t] = enc
			off += size
		}

		// one map entry per cylinder/side pair
		tmap := make([]byte, wozTmapEntries)
		for ix := range tmap {
			tmap[ix] = 0xff
		}
		for cyl := uint32(0); cyl < 80; cyl++ {
			for side := uint32(0); side < sides; side++ {
				tmap[cyl*2+side] = byte(cyl*sides + side)
			}
		}

		return writeWozFile(ws, wozDiskType35, byte(sides), 0,
			wozBitTiming35, tmap, tracks, p.VolumeName)
	}

	if err := img.flush(); err != nil {
		return nil, err
	}

	log.Debugf("created WOZ 3.5\" image, %s", geom)

	return img, nil
}

// quarterTrackMap fills the 5.25" TMAP: each whole track claims its own
// quarter-track slot plus the adjacent ones.
func quarterTrackMap(tracks uint32) []byte {

	tmap := make([]byte, wozTmapEntries)
	for ix := range tmap {
		tmap[ix] = 0xff
	}

	for t := uint32(0); t < tracks; t++ {
		base := t * 4
		if base > 0 {
			tmap[base-1] = byte(t)
		}
		tmap[base] = byte(t)
		if base+1 < wozTmapEntries {
			tmap[base+1] = byte(t)
		}
	}

	return tmap
}

/*
	writeWozFile assembles the complete WOZ2 container in memory and writes
	it out: header with CRC, INFO, TMAP and TRKS chunks, and the default
	META chunk appended last.
*/
func writeWozFile(ws io.ReadWriteSeeker, diskType, sides, bootFormat,
	bitTiming byte, tmap []byte, tracks [][]byte, title string) error {

	// TRKS: 160 eight-byte entries, then the bit streams in 512-byte units
	trks := make([]byte, wozTrksEntries*8)
	var bits []byte

	startBlock := uint16(3) // header + INFO + TMAP + TRKS entries = 1536
	largest := uint16(0)

	for t, enc := range tracks {
		blocks := uint16((len(enc) + 511) / 512)
		if blocks > largest {
			largest = blocks
		}

		e := trks[t*8:]
		binary.LittleEndian.PutUint16(e[0:], startBlock)
		binary.LittleEndian.PutUint16(e[2:], blocks)
		binary.LittleEndian.PutUint32(e[4:], uint32(len(enc)*8))

		padded := make([]byte, int(blocks)*512)
		copy(padded, enc)
		bits = append(bits, padded...)
		startBlock += blocks
	}

	info := make([]byte, wozInfoSize)
	info[0] = 2 // INFO version
	info[1] = diskType
	info[4] = 1 // cleaned
	copy(info[5:37], pad(wozCreator, 32))
	info[37] = sides
	info[38] = bootFormat
	info[39] = bitTiming
	binary.LittleEndian.PutUint16(info[44:], largest)

	if title == "" {
		title = "disk image"
	}
	meta := []byte("title\t" + title + "\ncreator\t" + wozCreator + "\n")

	body := appendChunk(nil, "INFO", info)
	body = appendChunk(body, "TMAP", tmap)
	body = appendChunk(body, "TRKS", append(trks, bits...))
	body = appendChunk(body, "META", meta)

	hdr := make([]byte, 12)
	copy(hdr, "WOZ2")
	hdr[4] = 0xff
	hdr[5], hdr[6], hdr[7] = 0x0a, 0x0d, 0x0a
	binary.LittleEndian.PutUint32(hdr[8:], crc32.ChecksumIEEE(body))

	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := ws.Write(hdr); err != nil {
		return fmt.Errorf("writing WOZ header: %v", err)
	}
	if _, err := ws.Write(body); err != nil {
		return fmt.Errorf("writing WOZ chunks: %v", err)
	}

	return nil
}

//
func appendChunk(body []byte, id string, payload []byte) []byte {
	body = append(body, id...)
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
	body = append(body, size[:]...)
	return append(body, payload...)
}

//
func pad(s string, n int) []byte {
	buf := make([]byte, n)
	for ix := range buf {
		buf[ix] = ' '
	}
	copy(buf, s)
	return buf
}
