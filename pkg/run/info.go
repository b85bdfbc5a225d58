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
func NewInfo() *Info {

	i := &Info{}
	i.Runner = *NewRunner(
		"info -i|--input {file}",
		"inspect a disk image",
		`
Use the info command to show container format, geometry and volume number
of an existing disk image.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddSetting(&i.Input, "input", "i", "", nil,
		"disk image to inspect", true)

	return i
}

//
type Info struct {
	//
	Runner
	//
	Input string
}

//
func (i *Info) Run() error {

	i.ParseSettings()

	img, err := image.Open(i.Input)
	if err != nil {
		return err
	}
	defer img.Close()

	info := &control.ImageInfo{}
	info.Fill(img)
	fmt.Println(info)

	return nil
}
