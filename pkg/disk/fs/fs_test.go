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

package fs

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cidermill/diskwright/pkg/disk/chunk"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

//
func TestIsSizeAllowed(t *testing.T) {

	cases := []struct {
		kind Kind
		size int64
		want bool
	}{
		{DOS33, 116480, true},
		{DOS33, 143360, true},
		{DOS33, 163840, true},
		{DOS33, 409600, true},
		{DOS33, 819200, false},
		{ProDOS, 143360, true},
		{ProDOS, 819200, true},
		{ProDOS, 65535 * 512, true},
		{ProDOS, 65536 * 512, false},
		{ProDOS, 15 * 512, false},
		{ProDOS, 143361, false},
		{HFS, 819200, true},
		{HFS, 409600, false},
		{HFS, geometry.MaxCustomSize, true},
		{Pascal, 143360, true},
		{CPM, 143360, true},
		{CPM, 819200, true},
		{CPM, 409600, false},
		{None, 12345, true},
	}

	for _, c := range cases {
		if got := IsSizeAllowed(c.kind, c.size); got != c.want {
			t.Errorf("%s on %d bytes: got %v, want %v",
				c.kind, c.size, got, c.want)
		}
	}
}

// the legacy sector filesystem never goes onto 3.5" media, even at a size
// it could otherwise occupy
func TestAllowedDOSOn35(t *testing.T) {

	fixed, err := geometry.Derive(geometry.Flop35_400, "")
	if err != nil {
		t.Fatal(err)
	}
	if Allowed(DOS33, fixed) {
		t.Error("DOS 3.3 allowed on 3.5\" media")
	}

	custom, err := geometry.Derive(geometry.Custom, "400KB")
	if err != nil {
		t.Fatal(err)
	}
	if !Allowed(DOS33, custom) {
		t.Error("DOS 3.3 rejected on a custom 400KB volume")
	}
}

//
func TestPickFallback(t *testing.T) {

	flop525, err := geometry.Derive(geometry.Flop525_140, "")
	if err != nil {
		t.Fatal(err)
	}
	flop35, err := geometry.Derive(geometry.Flop35_800, "")
	if err != nil {
		t.Fatal(err)
	}

	if got := PickFallback(flop525, CPM); got != CPM {
		t.Errorf("valid choice replaced by %s", got)
	}
	if got := PickFallback(flop525, HFS); got != DOS33 {
		t.Errorf("got %s, want DOS 3.3", got)
	}
	if got := PickFallback(flop35, DOS33); got != ProDOS {
		t.Errorf("got %s, want ProDOS", got)
	}
}

//
func TestIsValidVolumeName(t *testing.T) {

	cases := []struct {
		kind Kind
		name string
		want bool
	}{
		{ProDOS, "NEWDISK", true},
		{ProDOS, "A1.B2", true},
		{ProDOS, "", false},
		{ProDOS, "1ABC", false},
		{ProDOS, "BAD-NAME", false},
		{ProDOS, "ABCDEFGHIJKLMNOP", false}, // 16 characters
		{HFS, "My Disk", true},
		{HFS, "a:b", false},
		{HFS, "", false},
		{Pascal, "DISK", true},
		{Pascal, "TOOLONG8", false},
		{Pascal, "A B", false},
		{DOS33, "", true}, // no volume name
		{None, "anything", true},
	}

	for _, c := range cases {
		if got := IsValidVolumeName(c.kind, c.name); got != c.want {
			t.Errorf("%s name %q: got %v, want %v", c.kind, c.name, got, c.want)
		}
	}
}

//
func TestParseKind(t *testing.T) {

	for in, want := range map[string]Kind{
		"":       None,
		"none":   None,
		"dos":    DOS33,
		"DOS3.3": DOS33,
		"prodos": ProDOS,
		"hfs":    HFS,
		"pascal": Pascal,
		"cpm":    CPM,
	} {
		kind, err := ParseKind(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if kind != want {
			t.Errorf("%q: got %s, want %s", in, kind, want)
		}
	}

	if _, err := ParseKind("fat32"); err == nil {
		t.Error("unknown filesystem must be rejected")
	}
}

//
func TestFormatDOS33(t *testing.T) {

	mem := chunk.NewMemBuffer(143360)
	a := chunk.NewSectorAccess(mem, 0, 35, 16, chunk.OrderDOS, false)

	if err := Format(a, DOS33, "", 254, false); err != nil {
		t.Fatal(err)
	}

	vtoc := make([]byte, geometry.SectorSize)
	if err := a.ReadSector(17, 0, chunk.OrderDOS, vtoc); err != nil {
		t.Fatal(err)
	}

	if vtoc[0x01] != 17 || vtoc[0x02] != 15 {
		t.Errorf("catalog pointer: T%d S%d", vtoc[0x01], vtoc[0x02])
	}
	if vtoc[0x03] != 3 {
		t.Errorf("DOS version: %d", vtoc[0x03])
	}
	if vtoc[0x06] != 254 {
		t.Errorf("volume number: %d", vtoc[0x06])
	}
	if vtoc[0x27] != 122 {
		t.Errorf("pairs per list sector: %d", vtoc[0x27])
	}
	if vtoc[0x34] != 35 || vtoc[0x35] != 16 {
		t.Errorf("geometry: %dx%d", vtoc[0x34], vtoc[0x35])
	}
	if vtoc[0x36] != 0x00 || vtoc[0x37] != 0x01 {
		t.Errorf("sector size: %#x %#x", vtoc[0x36], vtoc[0x37])
	}

	// track 0 and the catalog track are reserved, everything else is free
	if w := binary.BigEndian.Uint32(vtoc[0x38:]); w != 0 {
		t.Errorf("track 0 bitmap: %#x", w)
	}
	if w := binary.BigEndian.Uint32(vtoc[0x38+4:]); w != 0xffff0000 {
		t.Errorf("track 1 bitmap: %#x", w)
	}
	if w := binary.BigEndian.Uint32(vtoc[0x38+17*4:]); w != 0 {
		t.Errorf("catalog track bitmap: %#x", w)
	}

	// the catalog chains backwards through track 17
	cat := make([]byte, geometry.SectorSize)
	if err := a.ReadSector(17, 15, chunk.OrderDOS, cat); err != nil {
		t.Fatal(err)
	}
	if cat[0x01] != 17 || cat[0x02] != 14 {
		t.Errorf("catalog link: T%d S%d", cat[0x01], cat[0x02])
	}
	if err := a.ReadSector(17, 1, chunk.OrderDOS, cat); err != nil {
		t.Fatal(err)
	}
	if cat[0x01] != 0 || cat[0x02] != 0 {
		t.Error("last catalog sector must not link further")
	}
}

//
func TestFormatProDOS(t *testing.T) {

	mem := chunk.NewMemBuffer(143360)
	a := chunk.NewBlockAccess(mem, 0, 280, false)

	if err := Format(a, ProDOS, "NEWDISK", 254, false); err != nil {
		t.Fatal(err)
	}

	key := make([]byte, geometry.BlockSize)
	if err := a.ReadBlock(2, key); err != nil {
		t.Fatal(err)
	}

	if key[0x04] != 0xf0|7 {
		t.Errorf("storage/name length: %#x", key[0x04])
	}
	if string(key[0x05:0x0c]) != "NEWDISK" {
		t.Errorf("volume name: %q", key[0x05:0x0c])
	}
	if key[0x23] != 0x27 || key[0x24] != 0x0d {
		t.Errorf("entry layout: %#x %#x", key[0x23], key[0x24])
	}
	if p := binary.LittleEndian.Uint16(key[0x27:]); p != 6 {
		t.Errorf("bitmap pointer: %d", p)
	}
	if b := binary.LittleEndian.Uint16(key[0x29:]); b != 280 {
		t.Errorf("total blocks: %d", b)
	}
	if n := binary.LittleEndian.Uint16(key[0x02:]); n != 3 {
		t.Errorf("next directory block: %d", n)
	}

	// last directory block links back but not forward
	dir := make([]byte, geometry.BlockSize)
	if err := a.ReadBlock(5, dir); err != nil {
		t.Fatal(err)
	}
	if p := binary.LittleEndian.Uint16(dir[0x00:]); p != 4 {
		t.Errorf("previous directory block: %d", p)
	}
	if n := binary.LittleEndian.Uint16(dir[0x02:]); n != 0 {
		t.Errorf("directory must end at block 5, links to %d", n)
	}

	// bitmap: blocks 0-6 in use, the rest free
	bm := make([]byte, geometry.BlockSize)
	if err := a.ReadBlock(6, bm); err != nil {
		t.Fatal(err)
	}
	if bm[0] != 0x01 {
		t.Errorf("first bitmap byte: %#x, want 0x01", bm[0])
	}
	if bm[1] != 0xff {
		t.Errorf("second bitmap byte: %#x, want 0xff", bm[1])
	}
	if bm[34] != 0xff || bm[35] != 0x00 {
		t.Errorf("bitmap tail: %#x %#x", bm[34], bm[35])
	}
}

//
func TestFormatRejects(t *testing.T) {

	mem := chunk.NewMemBuffer(143360)
	a := chunk.NewBlockAccess(mem, 0, 280, false)

	if err := Format(a, ProDOS, "1BAD", 254, false); !errors.Is(err,
		ErrFormatFailed) {
		t.Errorf("bad name: got %v", err)
	}
	if err := Format(a, ProDOS, "NEWDISK", 254, true); !errors.Is(err,
		ErrFormatFailed) {
		t.Errorf("bootable: got %v", err)
	}
	if err := Format(a, HFS, "Untitled", 254, false); !errors.Is(err,
		ErrFormatFailed) {
		t.Errorf("missing formatter: got %v", err)
	}
	if err := Format(a, None, "", 0, false); err != nil {
		t.Errorf("no filesystem: got %v", err)
	}
}
