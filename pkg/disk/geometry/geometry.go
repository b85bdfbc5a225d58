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

package geometry

import (
	"errors"
	"fmt"
)

//
const (
	SectorSize = 256
	BlockSize  = 512

	// SectorsPerBlock relates the two unit sizes on media that can be
	// addressed both ways.
	SectorsPerBlock = BlockSize / SectorSize

	// MaxCustomSize is the upper bound for user supplied sizes (4 GiB).
	MaxCustomSize = int64(4) * 1024 * 1024 * 1024
)

//
var (
	ErrInvalidCustomSize = errors.New("invalid custom size")
	ErrSizeOutOfLimit    = errors.New("size out of limit")
	ErrUnrepresentable   = errors.New("unrepresentable")
)

// Selection is a logical disk size choice, as offered to the user.
type Selection int

//
const (
	SelectionNone Selection = iota
	Flop525_113             // 5.25", 35 tracks, 13 sectors
	Flop525_140             // 5.25", 35 tracks, 16 sectors
	Flop525_160             // 5.25", 40 tracks, 16 sectors
	Flop35_400              // 3.5", single-sided double-density
	Flop35_800              // 3.5", double-sided double-density
	Flop35_1440             // 3.5", high-density MFM
	Hard32MB                // 32 MB hard drive volume
	Custom                  // user supplied size
)

//
func (s Selection) String() string {
	switch s {
	case Flop525_113:
		return "5.25\" 113.75KB"
	case Flop525_140:
		return "5.25\" 140KB"
	case Flop525_160:
		return "5.25\" 160KB"
	case Flop35_400:
		return "3.5\" 400KB"
	case Flop35_800:
		return "3.5\" 800KB"
	case Flop35_1440:
		return "3.5\" 1440KB"
	case Hard32MB:
		return "32MB"
	case Custom:
		return "custom"
	}
	return "none"
}

// ParseSelection maps the CLI/API spelling of a size selection.
func ParseSelection(s string) (Selection, error) {
	switch s {
	case "113k", "113.75k", "525-13":
		return Flop525_113, nil
	case "140k", "525-16":
		return Flop525_140, nil
	case "160k", "525-40":
		return Flop525_160, nil
	case "400k":
		return Flop35_400, nil
	case "800k":
		return Flop35_800, nil
	case "1440k", "1.4m":
		return Flop35_1440, nil
	case "32m":
		return Hard32MB, nil
	case "custom":
		return Custom, nil
	}
	return SelectionNone, fmt.Errorf("unknown size selection: %s", s)
}

// MediaKind is the physical encoding family of the media, as needed by the
// nibble-level container formats.
type MediaKind int

//
const (
	MediaUnknown MediaKind = iota
	GCR525                 // 5.25" GCR
	GCRSSDD35              // 3.5" GCR single-sided
	GCRDSDD35              // 3.5" GCR double-sided
	MFMDSHD35              // 3.5" MFM high-density
)

//
func (m MediaKind) String() string {
	switch m {
	case GCR525:
		return "5.25\" GCR"
	case GCRSSDD35:
		return "3.5\" GCR SS/DD"
	case GCRDSDD35:
		return "3.5\" GCR DS/DD"
	case MFMDSHD35:
		return "3.5\" MFM DS/HD"
	}
	return "unknown"
}

// Is525 reports whether the media is a 5.25" floppy.
func (m MediaKind) Is525() bool {
	return m == GCR525
}

// Is35 reports whether the media is a 3.5" floppy.
func (m MediaKind) Is35() bool {
	return m == GCRSSDD35 || m == GCRDSDD35 || m == MFMDSHD35
}

// AddressKind tags which addressing scheme a geometry primarily uses.
type AddressKind int

//
const (
	AddressOther AddressKind = iota
	AddressSectors525
	AddressBlocks
)

/*
	DiskGeometry is the fully resolved shape of a disk to be created. It is
	computed once from a size selection and stays immutable afterwards.
	Tracks/SectorsPerTrack are zero when the size is not sector addressable,
	TotalBlocks is zero when it is not block addressable.
*/
type DiskGeometry struct {
	Addressing      AddressKind
	Tracks          uint32
	SectorsPerTrack uint32
	TotalBlocks     uint32
	Media           MediaKind
	SizeBytes       int64
}

// HasSectors reports whether the geometry is track/sector addressable.
func (g DiskGeometry) HasSectors() bool {
	return g.Tracks > 0 && g.SectorsPerTrack > 0
}

// HasBlocks reports whether the geometry is block addressable.
func (g DiskGeometry) HasBlocks() bool {
	return g.TotalBlocks > 0
}

//
func (g DiskGeometry) String() string {
	if g.HasSectors() {
		return fmt.Sprintf("%d tracks x %d sectors (%d bytes)",
			g.Tracks, g.SectorsPerTrack, g.SizeBytes)
	}
	if g.HasBlocks() {
		return fmt.Sprintf("%d blocks (%d bytes)", g.TotalBlocks, g.SizeBytes)
	}
	return fmt.Sprintf("%d bytes", g.SizeBytes)
}

// Resolve turns a size selection into a byte count. For Custom, the size
// string is parsed with ParseCustomSize.
func Resolve(sel Selection, custom string) (int64, error) {

	switch sel {
	case Flop525_113:
		return 35 * 13 * SectorSize, nil
	case Flop525_140:
		return 35 * 16 * SectorSize, nil
	case Flop525_160:
		return 40 * 16 * SectorSize, nil
	case Flop35_400:
		return 400 * 1024, nil
	case Flop35_800:
		return 800 * 1024, nil
	case Flop35_1440:
		return 1440 * 1024, nil
	case Hard32MB:
		return 32 * 1024 * 1024, nil
	case Custom:
		return ParseCustomSize(custom)
	}

	return 0, fmt.Errorf("%w: no size for selection %d", ErrUnrepresentable, sel)
}

/*
	ParseCustomSize parses a user supplied size string. A bare number is a
	byte count; the suffixes B, KB, MB, GB (or K, M, G) scale by powers of
	1024. Syntax problems yield ErrInvalidCustomSize; a syntactically fine
	size of 0 or above 4 GiB yields ErrSizeOutOfLimit, so callers can give
	distinct feedback for the two cases.
*/
func ParseCustomSize(s string) (int64, error) {

	num, mult, err := splitSizeString(s)
	if err != nil {
		return 0, err
	}

	var size int64
	for _, c := range num {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCustomSize, s)
		}
		size = size*10 + int64(c-'0')
		if size > MaxCustomSize { // cut off before overflow
			return 0, fmt.Errorf("%w: %q", ErrSizeOutOfLimit, s)
		}
	}

	size *= mult
	if size <= 0 || size > MaxCustomSize {
		return 0, fmt.Errorf("%w: %q", ErrSizeOutOfLimit, s)
	}

	return size, nil
}

//
func splitSizeString(s string) (string, int64, error) {

	if s == "" {
		return "", 0, fmt.Errorf("%w: empty", ErrInvalidCustomSize)
	}

	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c >= '0' && c <= '9' {
			break
		}
		end--
	}

	num := s[:end]
	if num == "" {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCustomSize, s)
	}

	switch suffix := s[end:]; suffix {
	case "", "B", "b":
		return num, 1, nil
	case "K", "k", "KB", "kb", "kB":
		return num, 1024, nil
	case "M", "m", "MB", "mb", "mB":
		return num, 1024 * 1024, nil
	case "G", "g", "GB", "gb", "gB":
		return num, 1024 * 1024 * 1024, nil
	default:
		return "", 0, fmt.Errorf("%w: bad unit %q", ErrInvalidCustomSize, suffix)
	}
}

// Blocks derives the 512-byte block count for a byte size. Sizes that are
// not an exact block multiple, or whose block count does not fit 32 bits,
// are unrepresentable.
func Blocks(size int64) (uint32, error) {
	if size <= 0 || size%BlockSize != 0 {
		return 0, fmt.Errorf("%w as blocks: %d bytes", ErrUnrepresentable, size)
	}
	blocks := size / BlockSize
	if blocks > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w as blocks: %d bytes", ErrUnrepresentable, size)
	}
	return uint32(blocks), nil
}

/*
	TracksSectors derives a track/sector pair for a byte size. Only the fixed
	5.25" sizes and one special case produce a pair: exactly 400KB maps to
	50 tracks of 32 sectors, the historical layout for embedded DOS volumes.
	The pair depends on the resolved size alone, never on the selection;
	Derive withholds it on 3.5" media, where the fixed 400KB selection is
	block addressed.
*/
func TracksSectors(sel Selection, size int64) (uint32, uint32, error) {

	switch size {
	case 35 * 13 * SectorSize:
		return 35, 13, nil
	case 35 * 16 * SectorSize:
		return 35, 16, nil
	case 40 * 16 * SectorSize:
		return 40, 16, nil
	case 400 * 1024:
		return 50, 32, nil
	}

	return 0, 0, fmt.Errorf(
		"%w as tracks/sectors: %d bytes (%s)", ErrUnrepresentable, size, sel)
}

// Media classifies the physical encoding family for a selection. Custom and
// hard drive sizes have no media kind.
func Media(sel Selection) (MediaKind, error) {

	switch sel {
	case Flop525_113, Flop525_140, Flop525_160:
		return GCR525, nil
	case Flop35_400:
		return GCRSSDD35, nil
	case Flop35_800:
		return GCRDSDD35, nil
	case Flop35_1440:
		return MFMDSHD35, nil
	}

	return MediaUnknown, fmt.Errorf(
		"%w as media kind: %s", ErrUnrepresentable, sel)
}

/*
	Derive resolves a selection into a complete DiskGeometry. Sector and
	block figures are filled in independently, each only where derivable;
	the addressing tag records which scheme the selection is primarily
	meant for.
*/
func Derive(sel Selection, custom string) (DiskGeometry, error) {

	size, err := Resolve(sel, custom)
	if err != nil {
		return DiskGeometry{}, err
	}

	geom := DiskGeometry{SizeBytes: size, Addressing: AddressOther}

	if m, err := Media(sel); err == nil {
		geom.Media = m
	}
	// 3.5" media is block addressed; the 409600-byte sector layout only
	// applies off that media
	if !geom.Media.Is35() {
		if t, s, err := TracksSectors(sel, size); err == nil {
			geom.Tracks, geom.SectorsPerTrack = t, s
		}
	}
	if b, err := Blocks(size); err == nil {
		geom.TotalBlocks = b
	}

	switch {
	case geom.Media == GCR525:
		geom.Addressing = AddressSectors525
	case geom.HasBlocks():
		geom.Addressing = AddressBlocks
	}

	if !geom.HasSectors() && !geom.HasBlocks() {
		return DiskGeometry{}, fmt.Errorf(
			"%w: %d bytes is neither sector nor block addressable",
			ErrUnrepresentable, size)
	}

	return geom, nil
}

/*
	DiskCreationDefaults carries the defaults a frontend applies when opening
	a creation dialog. Persisting these between sessions is the caller's
	concern; the core only consumes the struct.
*/
type DiskCreationDefaults struct {
	Size         Selection
	CustomSize   string
	Format       string
	FileSystem   string
	VolumeName   string
	VolumeNumber int
	Bootable     bool
}
