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
	"context"
	"fmt"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/image"
)

//
func NewCopy() *Copy {

	c := &Copy{}
	c.Runner = *NewRunner(
		"copy -i|--input {file} -o|--output {file} [-f|--format {format}]",
		"copy a disk image into a new container",
		`
Use the copy command to transfer the contents of an existing disk image
into a freshly created one, possibly of a different container format. The
destination format is derived from the output file's extension, unless set
explicitly with --format.`,
		"", `- Unreadable source sectors or blocks do not abort the copy. They are
  zero-filled in the destination and reported at the end.

`+runnerHelpEpilogue, c.Run)

	c.AddSetting(&c.Input, "input", "i", "", nil,
		"disk image to copy from", true)
	c.AddSetting(&c.Output, "output", "o", "", nil,
		"disk image output file", true)
	c.AddSetting(&c.Format, "format", "f", "", nil,
		"destination container format, by canonical extension", false)

	return c
}

//
type Copy struct {
	//
	Runner
	//
	Input  string
	Output string
	Format string
}

//
func (c *Copy) Run() error {

	c.ParseSettings()

	src, err := image.Open(c.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	format, err := imageFormat(c.Output, c.Format)
	if err != nil {
		return err
	}

	if w, err := image.ForFormat(format); err != nil {
		return err
	} else if ok, reason := w.CanConstruct(src.Geometry); !ok {
		return fmt.Errorf("%s cannot hold %s: %s",
			format, src.Geometry, reason)
	}

	dst, err := image.CreateFile(c.Output, src.Geometry, format,
		image.Params{VolumeNumber: src.VolumeNumber})
	if err != nil {
		return err
	}

	res, err := chunk.CopyDisk(context.Background(), src.Chunks(), dst.Chunks())
	if err == nil {
		err = dst.Close()
	}
	if err != nil {
		dst.Abandon()
		return err
	}

	if res.ErrorCount > 0 {
		fmt.Printf("copied %s to %s, %d unreadable units were zero-filled\n",
			c.Input, c.Output, res.ErrorCount)
	} else {
		fmt.Printf("copied %s to %s\n", c.Input, c.Output)
	}

	return nil
}
