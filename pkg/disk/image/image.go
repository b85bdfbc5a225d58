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
	"path/filepath"
	"strings"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// Format identifies a disk image container format.
type Format int

//
const (
	FormatUnknown Format = iota
	FormatBlockImage      // .po, ProDOS block order
	FormatDOSSector       // .do/.d13, DOS sector order
	FormatWoz             // .woz
	FormatTwoIMG          // .2mg
	FormatNuFX            // .sdk, NuFX-wrapped block image
	FormatDiskCopy42      // .image
	FormatNib             // .nib
	FormatTrackstar       // .app
)

//
func (f Format) String() string {
	switch f {
	case FormatBlockImage:
		return "ProDOS block image"
	case FormatDOSSector:
		return "DOS sector image"
	case FormatWoz:
		return "WOZ"
	case FormatTwoIMG:
		return "2IMG"
	case FormatNuFX:
		return "NuFX (.SDK)"
	case FormatDiskCopy42:
		return "DiskCopy 4.2"
	case FormatNib:
		return "NIB"
	case FormatTrackstar:
		return "Trackstar"
	}
	return "unknown"
}

// volume numbers are a single byte, with 255 reserved
const (
	DefaultVolumeNumber = 254
	MaxVolumeNumber     = 254
)

// ValidVolumeNumber checks a disk volume number.
func ValidVolumeNumber(n int) bool {
	return 0 <= n && n <= MaxVolumeNumber
}

// Params carries the format-independent construction parameters.
type Params struct {
	VolumeNumber int
	VolumeName   string

	// VolumeNameIsProDOS is set when the name was validated against the
	// ProDOS rules, allowing containers to use it where legality matters.
	VolumeNameIsProDOS bool
}

/*
	Writer constructs one container format. Each writer self-reports whether
	a geometry is constructible in its format, so capability checks, UI
	gating and fallback selection all consult the same predicate.
*/
type Writer interface {

	//
	Format() Format

	// CanConstruct reports whether the geometry is constructible in this
	// format, with a human-readable reason on refusal.
	CanConstruct(geom geometry.DiskGeometry) (bool, string)

	// Create lays out a fresh image on ws and returns it with addressable
	// chunk access. ws is positioned at the start of the container.
	Create(ws io.ReadWriteSeeker, geom geometry.DiskGeometry,
		p Params) (*DiskImage, error)
}

// writers in fallback priority order
var writers = []Writer{
	&blockImageWriter{},
	&dosSectorWriter{},
	&wozWriter{},
	&twoIMGWriter{},
	&nufxWriter{},
	&diskCopyWriter{},
	&nibWriter{},
	&trackstarWriter{},
}

// ForFormat returns the writer for a container format.
func ForFormat(f Format) (Writer, error) {
	for _, w := range writers {
		if w.Format() == f {
			return w, nil
		}
	}
	return nil, fmt.Errorf("unsupported container format: %s", f)
}

// ForExtension maps a file name extension to its container format.
func ForExtension(path string) (Format, error) {

	switch strings.ToLower(filepath.Ext(path)) {
	case ".do", ".d13":
		return FormatDOSSector, nil
	case ".po":
		return FormatBlockImage, nil
	case ".2mg", ".2img":
		return FormatTwoIMG, nil
	case ".sdk":
		return FormatNuFX, nil
	case ".image":
		return FormatDiskCopy42, nil
	case ".woz":
		return FormatWoz, nil
	case ".nib":
		return FormatNib, nil
	case ".app":
		return FormatTrackstar, nil
	}

	return FormatUnknown, fmt.Errorf(
		"no container format for extension of %q", filepath.Base(path))
}

// Extension returns the canonical file extension for a format, given the
// geometry (the DOS sector image of 13-sector media uses .d13).
func Extension(f Format, geom geometry.DiskGeometry) string {
	switch f {
	case FormatDOSSector:
		if geom.SectorsPerTrack == 13 {
			return ".d13"
		}
		return ".do"
	case FormatBlockImage:
		return ".po"
	case FormatTwoIMG:
		return ".2mg"
	case FormatNuFX:
		return ".sdk"
	case FormatDiskCopy42:
		return ".image"
	case FormatWoz:
		return ".woz"
	case FormatNib:
		return ".nib"
	case FormatTrackstar:
		return ".app"
	}
	return ""
}

/*
	PickFallback selects a replacement format when the current one is no
	longer constructible for a geometry, in fixed priority order. When
	nothing qualifies, the current format is returned unchanged.
*/
func PickFallback(geom geometry.DiskGeometry, current Format) Format {

	if w, err := ForFormat(current); err == nil {
		if ok, _ := w.CanConstruct(geom); ok {
			return current
		}
	}

	for _, w := range writers {
		if ok, _ := w.CanConstruct(geom); ok {
			return w.Format()
		}
	}

	return current
}

// Capability is one row of the capability matrix for a geometry.
type Capability struct {
	Format Format
	OK     bool
	Reason string
}

// Capabilities evaluates every container format against a geometry.
func Capabilities(geom geometry.DiskGeometry) []Capability {
	ret := make([]Capability, 0, len(writers))
	for _, w := range writers {
		ok, reason := w.CanConstruct(geom)
		ret = append(ret, Capability{Format: w.Format(), OK: ok, Reason: reason})
	}
	return ret
}

/*
	DiskImage owns a backing byte stream and exactly one chunk access
	object. Containers with deferred layout work (checksums, nibble
	re-encode, archive wrapping) register it as the flush hook; Flush runs
	it after pushing the chunk access through.
*/
type DiskImage struct {
	Format       Format
	Geometry     geometry.DiskGeometry
	VolumeNumber int
	VolumeName   string

	access chunk.Access
	flush  func() error
	closer io.Closer
	path   string
}

// Chunks returns the image's addressable chunk space.
func (d *DiskImage) Chunks() chunk.Access {
	return d.access
}

//
func (d *DiskImage) Path() string {
	return d.path
}

// Flush finalizes the container layout on the backing stream.
func (d *DiskImage) Flush() error {
	if d.access != nil {
		if err := d.access.Flush(); err != nil {
			return err
		}
	}
	if d.flush != nil {
		return d.flush()
	}
	return nil
}

// Close flushes and releases the backing stream.
func (d *DiskImage) Close() error {
	if err := d.Flush(); err != nil {
		return err
	}
	if d.closer != nil {
		err := d.closer.Close()
		d.closer = nil
		return err
	}
	return nil
}
