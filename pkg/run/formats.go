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

	"github.com/cidermill/diskwright/pkg/control"
	"github.com/cidermill/diskwright/pkg/disk/image"
)

//
func NewFormats() *Formats {

	f := &Formats{}
	f.Runner = *NewRunner(
		"formats [-s|--size {selection}] [--custom-size {size}]",
		"list container format capabilities for a disk size",
		`
Use the formats command to see which container formats can hold a disk of
the given size, and why the others cannot.`,
		"", runnerHelpEpilogue, f.Run)

	f.AddSizeSettings()

	return f
}

//
type Formats struct {
	Runner
}

//
func (f *Formats) Run() error {

	f.ParseSettings()

	geom, err := f.geometry()
	if err != nil {
		return err
	}

	list := &control.CapabilityList{}
	list.Geometry.Fill(geom)
	for _, c := range image.Capabilities(geom) {
		list.Formats = append(list.Formats, control.Capability{
			Format: c.Format.String(),
			OK:     c.OK,
			Reason: c.Reason,
		})
	}

	fmt.Println(list)
	return nil
}
