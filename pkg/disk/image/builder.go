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
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/cidermill/diskwright/pkg/disk/fs"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

/*
	CreateFile creates a fresh disk image at path and returns it open for
	further writes. If anything fails after the file came into being, the
	partial file is deleted before the error is returned; no partial state
	is left on disk.
*/
func CreateFile(path string, geom geometry.DiskGeometry, format Format,
	p Params) (*DiskImage, error) {

	w, err := ForFormat(format)
	if err != nil {
		return nil, err
	}

	// capability was supposed to be checked upstream; reaching this point
	// with a bad combination is a bug, not a user error
	if ok, reason := w.CanConstruct(geom); !ok {
		return nil, fmt.Errorf("internal: %s cannot hold %s: %s",
			format, geom, reason)
	}

	if !ValidVolumeNumber(p.VolumeNumber) {
		return nil, fmt.Errorf("invalid volume number: %d (0-%d allowed)",
			p.VolumeNumber, MaxVolumeNumber)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot create %s: %v", path, err)
	}

	img, err := w.Create(f, geom, p)
	if err != nil {
		discard(f, path)
		return nil, err
	}

	img.path = path
	img.closer = f

	return img, nil
}

/*
	Build runs the full construction pipeline: create the container, lay
	out the requested filesystem, flush and close. Validation problems
	(volume name, filesystem/size mismatch) are reported before any file is
	touched; later failures delete the partial output.
*/
func Build(path string, geom geometry.DiskGeometry, format Format, p Params,
	fsKind fs.Kind, bootable bool) error {

	if fsKind != fs.None {
		if !fs.Allowed(fsKind, geom) {
			return fmt.Errorf("%s does not fit on %s", fsKind, geom)
		}
		if !fs.IsValidVolumeName(fsKind, p.VolumeName) {
			return fmt.Errorf("invalid %s volume name: %q", fsKind,
				p.VolumeName)
		}
		p.VolumeNameIsProDOS = fsKind == fs.ProDOS
	}

	img, err := CreateFile(path, geom, format, p)
	if err != nil {
		return err
	}

	if err := fs.Format(img.Chunks(), fsKind, p.VolumeName, p.VolumeNumber,
		bootable); err != nil {
		img.Abandon()
		return err
	}

	if err := img.Close(); err != nil {
		img.Abandon()
		return err
	}

	log.Infof("created %s, %s, filesystem %s", path, geom, fsKind)

	return nil
}

// Abandon closes the image without flushing and removes its file.
func (d *DiskImage) Abandon() {
	if d.closer != nil {
		if err := d.closer.Close(); err != nil {
			log.Warnf("closing abandoned image: %v", err)
		}
		d.closer = nil
	}
	remove(d.path)
}

//
func discard(f *os.File, path string) {
	if err := f.Close(); err != nil {
		log.Warnf("closing discarded file: %v", err)
	}
	remove(path)
}

//
func remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warnf("removing partial image %s: %v", path, err)
	} else {
		log.Debugf("removed partial image %s", path)
	}
}
