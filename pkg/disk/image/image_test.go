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
	"testing"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

//
func mustDerive(t *testing.T, sel geometry.Selection,
	custom string) geometry.DiskGeometry {
	t.Helper()
	geom, err := geometry.Derive(sel, custom)
	if err != nil {
		t.Fatal(err)
	}
	return geom
}

//
func capabilityMap(geom geometry.DiskGeometry) map[Format]bool {
	ret := map[Format]bool{}
	for _, c := range Capabilities(geom) {
		ret[c.Format] = c.OK
	}
	return ret
}

//
func TestForExtension(t *testing.T) {

	for path, want := range map[string]Format{
		"disk.po":     FormatBlockImage,
		"disk.do":     FormatDOSSector,
		"disk.d13":    FormatDOSSector,
		"disk.2mg":    FormatTwoIMG,
		"DISK.2IMG":   FormatTwoIMG,
		"disk.sdk":    FormatNuFX,
		"disk.image":  FormatDiskCopy42,
		"disk.woz":    FormatWoz,
		"disk.nib":    FormatNib,
		"disk.app":    FormatTrackstar,
		"a/b/disk.PO": FormatBlockImage,
	} {
		f, err := ForExtension(path)
		if err != nil {
			t.Fatalf("%q: %v", path, err)
		}
		if f != want {
			t.Errorf("%q: got %s, want %s", path, f, want)
		}
	}

	if _, err := ForExtension("disk.dsk"); err == nil {
		t.Error("unknown extension must be rejected")
	}
}

// 13-sector media uses the .d13 extension
func TestExtension(t *testing.T) {

	if e := Extension(FormatDOSSector,
		mustDerive(t, geometry.Flop525_113, "")); e != ".d13" {
		t.Errorf("got %q, want .d13", e)
	}
	if e := Extension(FormatDOSSector,
		mustDerive(t, geometry.Flop525_140, "")); e != ".do" {
		t.Errorf("got %q, want .do", e)
	}
	if e := Extension(FormatNuFX,
		mustDerive(t, geometry.Flop35_800, "")); e != ".sdk" {
		t.Errorf("got %q, want .sdk", e)
	}
}

//
func TestCapabilities140KB(t *testing.T) {

	caps := capabilityMap(mustDerive(t, geometry.Flop525_140, ""))

	want := map[Format]bool{
		FormatBlockImage: true,
		FormatDOSSector:  true,
		FormatWoz:        true,
		FormatTwoIMG:     true,
		FormatNuFX:       true,
		FormatDiskCopy42: false, // 5.25" GCR has no DiskCopy media byte
		FormatNib:        true,
		FormatTrackstar:  true,
	}

	for f, ok := range want {
		if caps[f] != ok {
			t.Errorf("%s: got %v, want %v", f, caps[f], ok)
		}
	}
}

//
func TestCapabilities113KB(t *testing.T) {

	caps := capabilityMap(mustDerive(t, geometry.Flop525_113, ""))

	want := map[Format]bool{
		FormatBlockImage: false,
		FormatDOSSector:  true,
		FormatWoz:        true,
		FormatTwoIMG:     false,
		FormatNuFX:       false,
		FormatDiskCopy42: false,
		FormatNib:        true,
		FormatTrackstar:  true,
	}

	for f, ok := range want {
		if caps[f] != ok {
			t.Errorf("%s: got %v, want %v", f, caps[f], ok)
		}
	}
}

//
func TestCapabilities800KB(t *testing.T) {

	caps := capabilityMap(mustDerive(t, geometry.Flop35_800, ""))

	want := map[Format]bool{
		FormatBlockImage: true,
		FormatDOSSector:  false,
		FormatWoz:        true,
		FormatTwoIMG:     true,
		FormatNuFX:       true,
		FormatDiskCopy42: true,
		FormatNib:        false,
		FormatTrackstar:  false,
	}

	for f, ok := range want {
		if caps[f] != ok {
			t.Errorf("%s: got %v, want %v", f, caps[f], ok)
		}
	}
}

// high-density 3.5" media has no GCR codec and exceeds the .SDK sizes
func TestCapabilities1440KB(t *testing.T) {

	caps := capabilityMap(mustDerive(t, geometry.Flop35_1440, ""))

	want := map[Format]bool{
		FormatBlockImage: true,
		FormatWoz:        false,
		FormatTwoIMG:     true,
		FormatNuFX:       false,
		FormatDiskCopy42: true,
		FormatNib:        false,
	}

	for f, ok := range want {
		if caps[f] != ok {
			t.Errorf("%s: got %v, want %v", f, caps[f], ok)
		}
	}
}

//
func TestCapabilitiesCustom(t *testing.T) {

	caps := capabilityMap(mustDerive(t, geometry.Custom, "1MB"))

	want := map[Format]bool{
		FormatBlockImage: true,
		FormatDOSSector:  false,
		FormatWoz:        false,
		FormatTwoIMG:     true,
		FormatNuFX:       false,
		FormatDiskCopy42: false,
		FormatNib:        false,
		FormatTrackstar:  false,
	}

	for f, ok := range want {
		if caps[f] != ok {
			t.Errorf("%s: got %v, want %v", f, caps[f], ok)
		}
	}
}

//
func TestPickFallback(t *testing.T) {

	flop525 := mustDerive(t, geometry.Flop525_140, "")
	flop35 := mustDerive(t, geometry.Flop35_800, "")
	custom := mustDerive(t, geometry.Custom, "1MB")

	// a still-valid choice is kept
	if f := PickFallback(flop525, FormatNib); f != FormatNib {
		t.Errorf("got %s, want NIB kept", f)
	}

	// otherwise the first qualifying format in priority order wins
	if f := PickFallback(flop35, FormatDOSSector); f != FormatBlockImage {
		t.Errorf("got %s, want ProDOS block image", f)
	}
	if f := PickFallback(custom, FormatNib); f != FormatBlockImage {
		t.Errorf("got %s, want ProDOS block image", f)
	}
}

//
func TestValidVolumeNumber(t *testing.T) {

	for _, n := range []int{0, 1, 254} {
		if !ValidVolumeNumber(n) {
			t.Errorf("%d must be a valid volume number", n)
		}
	}
	for _, n := range []int{-1, 255, 1000} {
		if ValidVolumeNumber(n) {
			t.Errorf("%d must not be a valid volume number", n)
		}
	}
}
