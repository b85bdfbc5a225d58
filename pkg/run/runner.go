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
	"strings"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
	"github.com/cidermill/diskwright/pkg/disk/image"
)

//
const runnerHelpPrologue = ""
const runnerHelpEpilogue = `- When a flag can be set via environment variable, the variable name is given
  in parenthesis at the end of the flag explanation. Note however that a flag,
  when specified overrides an environment variable.

- Size selections: 113k, 140k, 160k (5.25"), 400k, 800k, 1440k (3.5"),
  32m (hard drive volume), custom (requires --custom-size).
`

/*
	NewRunner creates a base runner for commands to use. The parameters are
	passed to the base command wrapped by this runner.
*/
func NewRunner(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Runner {
	return &Runner{
		Command: *NewCommand(
			use, short, long, helpPrologue, helpEpilogue, exec),
	}
}

//
type Runner struct {
	//
	Command
	//
	Size       string
	CustomSize string
}

//
func (r *Runner) AddSizeSettings() {
	// Implementation Note: This cannot be included in NewRunner, but rather has
	// to be called from the top level command type. Otherwise, we will confuse
	// Cobra/Viper and the settings will not be filled with their values.
	r.AddSetting(&r.Size, "size", "s", "DISKWRIGHT_SIZE", "140k",
		"disk size selection", false)
	r.AddSetting(&r.CustomSize, "custom-size", "", "", nil,
		`byte size for the 'custom' selection; a bare number counts
bytes, the suffixes KB, MB, GB scale by powers of 1024`, false)
}

// geometry resolves the size settings into a disk geometry.
func (r *Runner) geometry() (geometry.DiskGeometry, error) {
	sel, err := geometry.ParseSelection(r.Size)
	if err != nil {
		return geometry.DiskGeometry{}, err
	}
	return geometry.Derive(sel, r.CustomSize)
}

// imageFormat determines the container format for an output file, either
// from an explicit format name or from the file's extension.
func imageFormat(file, explicit string) (image.Format, error) {
	if explicit != "" {
		return image.ForExtension("x." + strings.TrimPrefix(explicit, "."))
	}
	return image.ForExtension(file)
}
