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

package codec

import (
	"fmt"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

/*
	Codec turns decoded sector contents into the low-level byte stream of a
	nibble-encoded track. Sector data is passed concatenated in physical
	sector order; the codec applies the encoding family's own interleave
	when laying the sectors onto the track.
*/
type Codec interface {

	// SectorSize is the decoded payload size per sector.
	SectorSize() int

	// SectorsForTrack returns the sector count of the given track. It is
	// constant for 5.25" media and zoned for 3.5" media.
	SectorsForTrack(track uint32) uint32

	// TrackLength returns the encoded track length in bytes.
	TrackLength(track uint32) int

	// EncodeTrack encodes a whole track. data must hold
	// SectorsForTrack(track) * SectorSize() bytes.
	EncodeTrack(track uint32, volume byte, data []byte) ([]byte, error)
}

// New returns the standard codec for a media kind. The sectors argument
// selects between the 13- and 16-sector 5.25" encodings and is ignored for
// 3.5" media.
func New(media geometry.MediaKind, sectors uint32) (Codec, error) {

	switch media {

	case geometry.GCR525:
		switch sectors {
		case 13:
			return &gcr525{sectors: 13}, nil
		case 16:
			return &gcr525{sectors: 16}, nil
		}
		return nil, fmt.Errorf("no 5.25\" codec for %d sectors", sectors)

	case geometry.GCRSSDD35:
		return &gcr35{sides: 1}, nil

	case geometry.GCRDSDD35:
		return &gcr35{sides: 2}, nil
	}

	return nil, fmt.Errorf("no codec for media kind %s", media)
}

// diskBytes62 is the 6&2 translation table shared by the 16-sector 5.25"
// and the 3.5" encodings.
var diskBytes62 = [64]byte{
	0x96, 0x97, 0x9a, 0x9b, 0x9d, 0x9e, 0x9f, 0xa6,
	0xa7, 0xab, 0xac, 0xad, 0xae, 0xaf, 0xb2, 0xb3,
	0xb4, 0xb5, 0xb6, 0xb7, 0xb9, 0xba, 0xbb, 0xbc,
	0xbd, 0xbe, 0xbf, 0xcb, 0xcd, 0xce, 0xcf, 0xd3,
	0xd6, 0xd7, 0xd9, 0xda, 0xdb, 0xdc, 0xdd, 0xde,
	0xdf, 0xe5, 0xe6, 0xe7, 0xe9, 0xea, 0xeb, 0xec,
	0xed, 0xee, 0xef, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6,
	0xf7, 0xf9, 0xfa, 0xfb, 0xfc, 0xfd, 0xfe, 0xff,
}

// diskBytes53 is the 5&3 translation table of the 13-sector encoding.
var diskBytes53 = [32]byte{
	0xab, 0xad, 0xae, 0xaf, 0xb5, 0xb6, 0xb7, 0xba,
	0xbb, 0xbd, 0xbe, 0xbf, 0xd6, 0xd7, 0xda, 0xdb,
	0xdd, 0xde, 0xdf, 0xea, 0xeb, 0xed, 0xee, 0xef,
	0xf5, 0xf6, 0xf7, 0xfa, 0xfb, 0xfd, 0xfe, 0xff,
}

// oddEven 4&4-encodes a byte into two bytes.
func oddEven(v byte) (byte, byte) {
	return (v >> 1) | 0xaa, v | 0xaa
}
