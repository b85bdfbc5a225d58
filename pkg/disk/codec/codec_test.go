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

package codec

import (
	"bytes"
	"testing"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

//
func TestNew(t *testing.T) {

	if _, err := New(geometry.GCR525, 16); err != nil {
		t.Error(err)
	}
	if _, err := New(geometry.GCR525, 13); err != nil {
		t.Error(err)
	}
	if _, err := New(geometry.GCR525, 15); err == nil {
		t.Error("15-sector 5.25\" codec must not exist")
	}
	if _, err := New(geometry.MFMDSHD35, 0); err == nil {
		t.Error("MFM codec must not exist")
	}
}

//
func TestEncodeTrack62(t *testing.T) {

	c, err := New(geometry.GCR525, 16)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]byte, 16*geometry.SectorSize)
	enc, err := c.EncodeTrack(0, 254, data)
	if err != nil {
		t.Fatal(err)
	}

	if len(enc) != Track525Length {
		t.Fatalf("got %d track bytes, want %d", len(enc), Track525Length)
	}

	// gap 1 is sync, then the first address field
	for i := 0; i < gap1Length; i++ {
		if enc[i] != 0xff {
			t.Fatalf("gap 1 byte %d is %#x", i, enc[i])
		}
	}

	addr := enc[gap1Length:]
	if !bytes.Equal(addr[:3], []byte{0xd5, 0xaa, 0x96}) {
		t.Fatalf("address prologue: % x", addr[:3])
	}

	// 4&4 encoded volume 254, track 0, sector 0, checksum 254
	want := []byte{0xff, 0xfe, 0xaa, 0xaa, 0xaa, 0xaa, 0xff, 0xfe}
	if !bytes.Equal(addr[3:11], want) {
		t.Errorf("address field: % x, want % x", addr[3:11], want)
	}
	if !bytes.Equal(addr[11:14], []byte{0xde, 0xaa, 0xeb}) {
		t.Errorf("address epilogue: % x", addr[11:14])
	}

	// data field: prologue, 342 disk bytes + checksum, epilogue
	dataField := addr[14+gap2Length:]
	if !bytes.Equal(dataField[:3], []byte{0xd5, 0xaa, 0xad}) {
		t.Fatalf("data prologue: % x", dataField[:3])
	}
	for i := 3; i < 3+343; i++ {
		if dataField[i] < 0x96 {
			t.Fatalf("invalid disk byte %#x at %d", dataField[i], i)
		}
	}
	if !bytes.Equal(dataField[3+343:3+343+3], []byte{0xde, 0xaa, 0xeb}) {
		t.Errorf("data epilogue: % x", dataField[3+343:3+343+3])
	}
}

//
func TestEncodeTrack53(t *testing.T) {

	c, err := New(geometry.GCR525, 13)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]byte, 13*geometry.SectorSize)
	enc, err := c.EncodeTrack(17, 1, data)
	if err != nil {
		t.Fatal(err)
	}

	if len(enc) != Track525Length {
		t.Fatalf("got %d track bytes, want %d", len(enc), Track525Length)
	}

	addr := enc[gap1Length:]
	if !bytes.Equal(addr[:3], []byte{0xd5, 0xaa, 0xb5}) {
		t.Fatalf("13-sector address prologue: % x", addr[:3])
	}
}

//
func TestEncodeTrackBadSize(t *testing.T) {

	c, _ := New(geometry.GCR525, 16)
	if _, err := c.EncodeTrack(0, 254, make([]byte, 100)); err == nil {
		t.Error("short track data must be rejected")
	}
}

//
func TestGCR35Zoning(t *testing.T) {

	c, err := New(geometry.GCRDSDD35, 0)
	if err != nil {
		t.Fatal(err)
	}

	// 12 sectors on the outer cylinders down to 8 on the inner ones,
	// 1600 blocks in total across both sides
	total := uint32(0)
	for track := uint32(0); track < 160; track++ {
		total += c.SectorsForTrack(track)
	}
	if total != 1600 {
		t.Errorf("got %d sectors in total, want 1600", total)
	}

	if got := c.SectorsForTrack(0); got != 12 {
		t.Errorf("cylinder 0: got %d sectors, want 12", got)
	}
	if got := c.SectorsForTrack(2 * 16); got != 11 {
		t.Errorf("cylinder 16: got %d sectors, want 11", got)
	}
	if got := c.SectorsForTrack(2 * 79); got != 8 {
		t.Errorf("cylinder 79: got %d sectors, want 8", got)
	}
}

//
func TestGCR35EncodeTrack(t *testing.T) {

	c, err := New(geometry.GCRSSDD35, 0)
	if err != nil {
		t.Fatal(err)
	}

	sectors := c.SectorsForTrack(0)
	if sectors != 12 {
		t.Fatalf("got %d sectors, want 12", sectors)
	}

	enc, err := c.EncodeTrack(0, 0, make([]byte, int(sectors)*c.SectorSize()))
	if err != nil {
		t.Fatal(err)
	}

	// every sector contributes one address and one data prologue
	if n := bytes.Count(enc, []byte{0xd5, 0xaa, 0x96}); n != int(sectors) {
		t.Errorf("got %d address prologues, want %d", n, sectors)
	}
	if n := bytes.Count(enc, []byte{0xd5, 0xaa, 0xad}); n != int(sectors) {
		t.Errorf("got %d data prologues, want %d", n, sectors)
	}

	if _, err := c.EncodeTrack(0, 0, make([]byte, 100)); err == nil {
		t.Error("short track data must be rejected")
	}
}

//
func TestOddEven(t *testing.T) {

	for _, v := range []byte{0x00, 0x01, 0xfe, 0xff, 0x5a} {
		a, b := oddEven(v)
		if a&0xaa != 0xaa || b&0xaa != 0xaa {
			t.Errorf("%#x: encoded bytes miss the marker bits", v)
		}
		if dec := (a<<1 | 0x01) & b; dec != v {
			t.Errorf("%#x: decoded to %#x", v, dec)
		}
	}
}
