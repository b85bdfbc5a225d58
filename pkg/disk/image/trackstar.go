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

// Trackstar .app layout: 40 fixed-size track regions, each carrying an
// ASCII description, the nibble data stored byte-reversed, and a trailing
// length word.
const (
	trackstarRegionSize  = 0x1a00
	trackstarDescSize    = 0x2e
	trackstarDataOffset  = 0x81
	trackstarLenOffset   = trackstarRegionSize - 2
	trackstarMaxData     = trackstarLenOffset - trackstarDataOffset
	trackstarTrackCount  = 40
	trackstarDescription = "DiskWright image"
)

// trackstarWriter creates Trackstar .app images.
type trackstarWriter struct{}

//
func (w *trackstarWriter) Format() Format {
	return FormatTrackstar
}

//
func (w *trackstarWriter) CanConstruct(geom geometry.DiskGeometry) (bool, string) {
	if !geom.HasSectors() {
		return false, "size is not track/sector addressable"
	}
	if geom.SectorsPerTrack != 13 && geom.SectorsPerTrack != 16 {
		return false, fmt.Sprintf(
			"Trackstar needs 13 or 16 sectors per track, not %d",
			geom.SectorsPerTrack)
	}
	if geom.Tracks != 35 && geom.Tracks != 40 {
		return false, fmt.Sprintf(
			"Trackstar holds 35 or 40 tracks, not %d", geom.Tracks)
	}
	return true, ""
}

//
func (w *trackstarWriter) Create(ws io.ReadWriteSeeker,
	geom geometry.DiskGeometry, p Params) (*DiskImage, error) {

	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s", reason)
	}

	c, err := codec.New(geometry.GCR525, geom.SectorsPerTrack)
	if err != nil {
		return nil, err
	}

	access, mem := newSectorStore(geom)

	img := &DiskImage{
		Format:       FormatTrackstar,
		Geometry:     geom,
		VolumeNumber: p.VolumeNumber,
		access:       access,
	}

	img.flush = func() error {

		if _, err := ws.Seek(0, io.SeekStart); err != nil {
			return err
		}

		region := make([]byte, trackstarRegionSize)

		// the file always carries 40 regions; unused ones stay empty
		for t := uint32(0); t < trackstarTrackCount; t++ {

			for ix := range region {
				region[ix] = 0
			}
			copy(region, trackstarDescription)

			if t < geom.Tracks {
				enc, err := encodeStoredTrack(c, mem, t,
					byte(p.VolumeNumber), geom.SectorsPerTrack)
				if err != nil {
					return err
				}
				enc = trimSync(enc, trackstarMaxData)
				if len(enc) > trackstarMaxData {
					return fmt.Errorf(
						"track %d: %d encoded bytes exceed region capacity %d",
						t, len(enc), trackstarMaxData)
				}

				// track data is stored in reverse byte order
				for i, b := range enc {
					region[trackstarDataOffset+len(enc)-1-i] = b
				}
				region[trackstarLenOffset] = byte(len(enc))
				region[trackstarLenOffset+1] = byte(len(enc) >> 8)
			}

			if _, err := ws.Write(region); err != nil {
				return fmt.Errorf("writing track region %d: %v", t, err)
			}
		}
		return nil
	}

	if err := img.flush(); err != nil {
		return nil, err
	}

	log.Debugf("created Trackstar image, %s", geom)

	return img, nil
}
