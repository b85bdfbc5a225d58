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

package control

import (
	"fmt"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
	"github.com/cidermill/diskwright/pkg/disk/image"
)

//
type Geometry struct {
	SizeBytes       int64  `json:"sizeBytes"`
	Tracks          uint32 `json:"tracks,omitempty"`
	SectorsPerTrack uint32 `json:"sectorsPerTrack,omitempty"`
	TotalBlocks     uint32 `json:"totalBlocks,omitempty"`
	Media           string `json:"media,omitempty"`
}

//
func (g *Geometry) Fill(geom geometry.DiskGeometry) {
	g.SizeBytes = geom.SizeBytes
	g.Tracks = geom.Tracks
	g.SectorsPerTrack = geom.SectorsPerTrack
	g.TotalBlocks = geom.TotalBlocks
	if geom.Media != geometry.MediaUnknown {
		g.Media = geom.Media.String()
	}
}

//
type Capability struct {
	Format string `json:"format"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

//
type CapabilityList struct {
	Geometry Geometry     `json:"geometry"`
	Formats  []Capability `json:"formats"`
}

//
func (c *CapabilityList) String() string {
	ret := fmt.Sprintf("\ngeometry: %d bytes\n", c.Geometry.SizeBytes)
	for _, f := range c.Formats {
		mark := " "
		if f.OK {
			mark = "x"
		}
		ret += fmt.Sprintf("  [%s] %-20s %s\n", mark, f.Format, f.Reason)
	}
	return ret
}

//
type CreateRequest struct {
	Path         string `json:"path"`
	Size         string `json:"size"`
	CustomSize   string `json:"customSize,omitempty"`
	Format       string `json:"format"`
	FileSystem   string `json:"fileSystem,omitempty"`
	VolumeName   string `json:"volumeName,omitempty"`
	// nil means "not set"; an explicit 0 is a valid volume number
	VolumeNumber *int `json:"volumeNumber,omitempty"`
	Bootable     bool `json:"bootable,omitempty"`
}

//
type ImageInfo struct {
	Path         string   `json:"path"`
	Format       string   `json:"format"`
	Geometry     Geometry `json:"geometry"`
	VolumeNumber int      `json:"volumeNumber"`
}

//
func (i *ImageInfo) Fill(img *image.DiskImage) {
	i.Path = img.Path()
	i.Format = img.Format.String()
	i.VolumeNumber = img.VolumeNumber
	i.Geometry.Fill(img.Geometry)
}

//
func (i *ImageInfo) String() string {
	return fmt.Sprintf("\n%s\n  format: %s\n  size:   %d bytes\n"+
		"  tracks: %d x %d sectors\n  blocks: %d\n  volume: %d\n",
		i.Path, i.Format, i.Geometry.SizeBytes, i.Geometry.Tracks,
		i.Geometry.SectorsPerTrack, i.Geometry.TotalBlocks, i.VolumeNumber)
}
