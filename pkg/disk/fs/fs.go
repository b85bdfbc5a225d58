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

// Package fs is the narrow gateway to filesystem formatting: size and
// volume-name predicates used to gate choices, and the per-filesystem
// "format this chunk space" operation.
package fs

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

// ErrFormatFailed wraps any refusal of the filesystem driver.
var ErrFormatFailed = errors.New("format failed")

// Kind identifies a filesystem.
type Kind int

//
const (
	None Kind = iota
	DOS33
	ProDOS
	HFS
	Pascal
	CPM
)

// fallbackOrder is the substitution priority when a filesystem choice gets
// invalidated by a geometry change.
var fallbackOrder = []Kind{DOS33, ProDOS, HFS, Pascal, CPM, None}

//
func (k Kind) String() string {
	switch k {
	case DOS33:
		return "DOS 3.3"
	case ProDOS:
		return "ProDOS"
	case HFS:
		return "HFS"
	case Pascal:
		return "Pascal"
	case CPM:
		return "CP/M"
	}
	return "none"
}

// ParseKind maps the CLI/API spelling of a filesystem choice.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "dos", "dos33", "dos3.3":
		return DOS33, nil
	case "prodos":
		return ProDOS, nil
	case "hfs":
		return HFS, nil
	case "pascal":
		return Pascal, nil
	case "cpm", "cp/m":
		return CPM, nil
	}
	return None, fmt.Errorf("unknown filesystem: %s", s)
}

// IsSizeAllowed reports whether the filesystem can live on a volume of the
// given byte size.
func IsSizeAllowed(k Kind, size int64) bool {

	blocks := size / geometry.BlockSize
	blockMultiple := size > 0 && size%geometry.BlockSize == 0

	switch k {

	case None:
		return true

	case DOS33:
		// the fixed 5.25" sizes plus the 50x32 embedded-volume layout
		switch size {
		case 35 * 13 * geometry.SectorSize,
			35 * 16 * geometry.SectorSize,
			40 * 16 * geometry.SectorSize,
			400 * 1024:
			return true
		}
		return false

	case ProDOS, Pascal:
		return blockMultiple && blocks >= 16 && blocks <= 65535

	case HFS:
		return blockMultiple && size >= 800*1024 &&
			size <= geometry.MaxCustomSize

	case CPM:
		return size == 35*16*geometry.SectorSize || size == 800*1024
	}

	return false
}

/*
	Allowed combines the size predicate with the geometry-level rule that
	the legacy sector filesystem never goes onto 3.5" media.
*/
func Allowed(k Kind, geom geometry.DiskGeometry) bool {
	if k == DOS33 && geom.Media.Is35() {
		return false
	}
	return IsSizeAllowed(k, geom.SizeBytes)
}

// PickFallback substitutes a filesystem choice that became disallowed, in
// fixed priority order. None always qualifies.
func PickFallback(geom geometry.DiskGeometry, current Kind) Kind {

	if Allowed(current, geom) {
		return current
	}

	for _, k := range fallbackOrder {
		if Allowed(k, geom) {
			return k
		}
	}

	return None
}

// IsValidVolumeName checks a volume name against the filesystem's own
// syntax rules. Filesystems without volume names accept anything.
func IsValidVolumeName(k Kind, name string) bool {

	switch k {

	case ProDOS:
		if len(name) < 1 || len(name) > 15 {
			return false
		}
		if !isLetter(name[0]) {
			return false
		}
		for i := 1; i < len(name); i++ {
			if !isLetter(name[i]) && !isDigit(name[i]) && name[i] != '.' {
				return false
			}
		}
		return true

	case HFS:
		if len(name) < 1 || len(name) > 27 {
			return false
		}
		return !strings.ContainsRune(name, ':')

	case Pascal:
		if len(name) < 1 || len(name) > 7 {
			return false
		}
		return !strings.ContainsAny(name, " $=?,[#:")
	}

	return true
}

//
func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

//
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

/*
	Format lays the requested filesystem out onto the chunk space. The
	volume name must already satisfy IsValidVolumeName; it is re-checked
	here because the driver is the authority. Bootable volumes are not
	produced at this layer, since no boot image ships with the core.
*/
func Format(a chunk.Access, k Kind, volName string, volNum int,
	bootable bool) error {

	if k == None {
		return nil
	}

	if !IsValidVolumeName(k, volName) {
		return fmt.Errorf("%w: invalid %s volume name %q",
			ErrFormatFailed, k, volName)
	}
	if bootable {
		return fmt.Errorf("%w: no %s boot image available", ErrFormatFailed, k)
	}

	log.Debugf("formatting volume %q (#%d) as %s", volName, volNum, k)

	switch k {
	case DOS33:
		return formatDOS33(a, volNum)
	case ProDOS:
		return formatProDOS(a, volName)
	}

	return fmt.Errorf("%w: no formatter for %s", ErrFormatFailed, k)
}
