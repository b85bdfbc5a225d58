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

package main

import (
	"fmt"
	"os"

	"github.com/cidermill/diskwright/pkg/run"
)

//
var DiskWrightVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: diskwright {create|copy|info|formats|serve|version} ...

run 'diskwright {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nDiskWright %s\n\n", DiskWrightVersion)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "create":
		run.DieOnError(run.NewCreate().Execute(args))

	case "copy":
		run.DieOnError(run.NewCopy().Execute(args))

	case "info":
		run.DieOnError(run.NewInfo().Execute(args))

	case "formats":
		run.DieOnError(run.NewFormats().Execute(args))

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
