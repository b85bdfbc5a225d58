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

package run

import (
	"fmt"

	"github.com/cidermill/diskwright/pkg/disk/fs"
	"github.com/cidermill/diskwright/pkg/disk/image"
)

//
func NewCreate() *Create {

	c := &Create{}
	c.Runner = *NewRunner(
		`create -o|--output {file} [-s|--size {selection}] [--custom-size {size}]
       [-f|--format {format}] [--filesystem {fs}] [-n|--name {volume name}]
       [-v|--volume {volume number}] [-b|--bootable]`,
		"create a new disk image",
		`
Use the create command to construct a new disk image file. The container
format is derived from the output file's extension, unless set explicitly
with --format. Optionally, the disk can be formatted with a filesystem.`,
		"", `- Supported extensions: .po, .do, .d13, .woz, .2mg, .sdk, .image,
  .nib, .app

- Filesystems: dos, prodos, hfs, pascal, cpm, none

`+runnerHelpEpilogue, c.Run)

	c.AddSizeSettings()
	c.AddSetting(&c.Output, "output", "o", "", nil,
		"disk image output file", true)
	c.AddSetting(&c.Format, "format", "f", "", nil,
		"container format, by canonical extension (e.g. 'po', 'woz')", false)
	c.AddSetting(&c.FileSystem, "filesystem", "", "", nil,
		"filesystem to format the disk with", false)
	c.AddSetting(&c.VolumeName, "name", "n", "", nil,
		"volume name, for filesystems that carry one", false)
	c.AddSetting(&c.VolumeNumber, "volume", "v", "",
		image.DefaultVolumeNumber, "disk volume number (0-254)", false)
	c.AddSetting(&c.Bootable, "bootable", "b", "", false,
		"make the disk bootable", false)

	return c
}

//
type Create struct {
	//
	Runner
	//
	Output       string
	Format       string
	FileSystem   string
	VolumeName   string
	VolumeNumber int
	Bootable     bool
}

//
func (c *Create) Run() error {

	c.ParseSettings()

	geom, err := c.geometry()
	if err != nil {
		return err
	}

	format, err := imageFormat(c.Output, c.Format)
	if err != nil {
		return err
	}

	if w, err := image.ForFormat(format); err != nil {
		return err
	} else if ok, reason := w.CanConstruct(geom); !ok {
		return fmt.Errorf("%s cannot hold %s: %s", format, geom, reason)
	}

	fsKind, err := fs.ParseKind(c.FileSystem)
	if err != nil {
		return err
	}

	if err := image.Build(c.Output, geom, format, image.Params{
		VolumeNumber: c.VolumeNumber,
		VolumeName:   c.VolumeName,
	}, fsKind, c.Bootable); err != nil {
		return err
	}

	fmt.Printf("created %s\n", c.Output)
	return nil
}
