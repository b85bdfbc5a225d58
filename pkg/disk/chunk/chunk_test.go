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

package chunk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cidermill/diskwright/pkg/disk/geometry"
)

//
func TestSkewRoundTrip(t *testing.T) {

	for _, o := range []SectorOrder{
		OrderPhysical, OrderDOS, OrderProDOS, OrderCPM} {
		for s := uint32(0); s < 16; s++ {
			p := ToPhysical(o, s, 16)
			if got := FromPhysical(o, p, 16); got != s {
				t.Errorf("%s: sector %d -> physical %d -> %d", o, s, p, got)
			}
		}
	}
}

// 13-sector tracks are always addressed physically
func TestSkew13Identity(t *testing.T) {
	for s := uint32(0); s < 13; s++ {
		if ToPhysical(OrderDOS, s, 13) != s {
			t.Errorf("sector %d skewed on 13-sector track", s)
		}
	}
}

//
func TestSkewSpotValues(t *testing.T) {

	if got := ToPhysical(OrderDOS, 1, 16); got != 0xd {
		t.Errorf("DOS sector 1: got physical %#x, want 0xd", got)
	}
	if got := ToPhysical(OrderProDOS, 8, 16); got != 0x1 {
		t.Errorf("ProDOS sector 8: got physical %#x, want 0x1", got)
	}
	if got := ToPhysical(OrderCPM, 2, 16); got != 0x6 {
		t.Errorf("CP/M sector 2: got physical %#x, want 0x6", got)
	}
}

// in a DOS-order file, a sector requested under DOS order lands in the file
// slot of the same number; a ProDOS request crosses the skew tables
func TestSectorAccessOrders(t *testing.T) {

	mem := NewMemBuffer(35 * 16 * geometry.SectorSize)
	a := NewSectorAccess(mem, 0, 35, 16, OrderDOS, false)

	buf := make([]byte, geometry.SectorSize)
	for s := uint32(0); s < 16; s++ {
		for ix := range buf {
			buf[ix] = byte(s)
		}
		if err := a.WriteSector(0, s, OrderDOS, buf); err != nil {
			t.Fatal(err)
		}
	}

	for s := uint32(0); s < 16; s++ {
		if got := mem.Bytes()[int(s)*geometry.SectorSize]; got != byte(s) {
			t.Errorf("file slot %d holds %d", s, got)
		}
	}

	// ProDOS sector 2 is physical 4, which DOS stores in slot 13
	if err := a.ReadSector(0, 2, OrderProDOS, buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 13 {
		t.Errorf("ProDOS sector 2: got %d, want 13", buf[0])
	}
}

// a 16-sector disk exposes blocks through ProDOS logical sector pairs
func TestSectorAccessBlocks(t *testing.T) {

	mem := NewMemBuffer(35 * 16 * geometry.SectorSize)
	a := NewSectorAccess(mem, 0, 35, 16, OrderProDOS, false)

	if !a.HasBlocks() || a.NumBlocks() != 280 {
		t.Fatalf("got %d blocks, want 280", a.NumBlocks())
	}

	blk := make([]byte, geometry.BlockSize)
	for ix := range blk {
		blk[ix] = 0x5a
	}
	if err := a.WriteBlock(3, blk); err != nil {
		t.Fatal(err)
	}

	sec := make([]byte, geometry.SectorSize)
	if err := a.ReadSector(0, 6, OrderProDOS, sec); err != nil {
		t.Fatal(err)
	}
	if sec[0] != 0x5a {
		t.Errorf("block 3 not visible as ProDOS sector 6")
	}
}

//
func TestBlockAccessSectorView(t *testing.T) {

	mem := NewMemBuffer(143360)
	a := NewBlockAccess(mem, 0, 280, false)

	if !a.HasSectors() || a.NumTracks() != 35 || a.NumSectorsPerTrack() != 16 {
		t.Fatalf("got %dx%d sector view", a.NumTracks(), a.NumSectorsPerTrack())
	}

	blk := make([]byte, geometry.BlockSize)
	blk[0] = 0x11
	blk[geometry.SectorSize] = 0x22
	if err := a.WriteBlock(0, blk); err != nil {
		t.Fatal(err)
	}

	sec := make([]byte, geometry.SectorSize)
	if err := a.ReadSector(0, 1, OrderProDOS, sec); err != nil {
		t.Fatal(err)
	}
	if sec[0] != 0x22 {
		t.Error("second half of block 0 not visible as ProDOS sector 1")
	}
}

// odd block counts have no sector view
func TestBlockAccessNoSectorView(t *testing.T) {
	a := NewBlockAccess(NewMemBuffer(100*geometry.BlockSize), 0, 100, false)
	if a.HasSectors() {
		t.Error("100 blocks must not expose a sector view")
	}
}

//
func TestAccessBounds(t *testing.T) {

	mem := NewMemBuffer(35 * 16 * geometry.SectorSize)
	a := NewSectorAccess(mem, 0, 35, 16, OrderDOS, false)

	buf := make([]byte, geometry.SectorSize)
	if err := a.ReadSector(35, 0, OrderDOS, buf); err == nil {
		t.Error("track 35 must be out of range")
	}
	if err := a.ReadSector(0, 16, OrderDOS, buf); err == nil {
		t.Error("sector 16 must be out of range")
	}
	if err := a.ReadSector(0, 0, OrderDOS, buf[:100]); err == nil {
		t.Error("short buffer must be rejected")
	}
}

//
func TestReadOnlyAccess(t *testing.T) {

	mem := NewMemBuffer(143360)
	a := NewBlockAccess(mem, 0, 280, true)

	if err := a.WriteBlock(0, make([]byte, geometry.BlockSize)); err == nil {
		t.Error("write to read-only access must fail")
	}
	if err := a.ReadBlock(0, make([]byte, geometry.BlockSize)); err != nil {
		t.Errorf("read from read-only access: %v", err)
	}
}

//
func TestMemBufferGrow(t *testing.T) {

	b := NewMemBuffer(16)
	if _, err := b.Seek(24, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Write([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 27 {
		t.Errorf("got %d bytes, want 27", b.Len())
	}
	if b.Bytes()[24] != 1 || b.Bytes()[26] != 3 {
		t.Error("grown region holds wrong data")
	}
}

// faulty wraps an access and fails reading one particular sector
type faulty struct {
	Access
	track, sector uint32
}

//
func (f *faulty) ReadSector(track, sector uint32, order SectorOrder,
	buf []byte) error {
	if track == f.track && sector == f.sector {
		return fmt.Errorf("simulated read error")
	}
	return f.Access.ReadSector(track, sector, order, buf)
}

//
func TestCopyDisk(t *testing.T) {

	srcMem := NewMemBuffer(143360)
	for ix := range srcMem.Bytes() {
		srcMem.Bytes()[ix] = 0xe7
	}
	src := &faulty{
		Access: NewSectorAccess(srcMem, 0, 35, 16, OrderDOS, true),
		track:  2, sector: 5,
	}

	dstMem := NewMemBuffer(143360)
	dst := NewSectorAccess(dstMem, 0, 35, 16, OrderDOS, false)

	res, err := CopyDisk(context.Background(), src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if res.ErrorCount != 1 {
		t.Fatalf("got %d unreadable units, want 1", res.ErrorCount)
	}

	buf := make([]byte, geometry.SectorSize)
	if err := dst.ReadSector(2, 5, OrderPhysical, buf); err != nil {
		t.Fatal(err)
	}
	for ix, b := range buf {
		if b != 0 {
			t.Fatalf("unreadable sector not zero-filled at %d", ix)
		}
	}

	if err := dst.ReadSector(2, 6, OrderPhysical, buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xe7 {
		t.Error("readable sector not copied")
	}
}

//
func TestCopyDiskPreconditions(t *testing.T) {

	small := NewSectorAccess(NewMemBuffer(116480), 0, 35, 13, OrderPhysical, false)
	large := NewSectorAccess(NewMemBuffer(143360), 0, 35, 16, OrderDOS, false)
	roDst := NewSectorAccess(NewMemBuffer(143360), 0, 35, 16, OrderDOS, true)
	blocks := NewBlockAccess(NewMemBuffer(250*geometry.BlockSize), 0, 250, false)

	ctx := context.Background()

	if _, err := CopyDisk(ctx, large, roDst); err == nil {
		t.Error("read-only destination must be rejected")
	}
	if _, err := CopyDisk(ctx, large, small); err == nil {
		t.Error("destination smaller than source must be rejected")
	}
	if _, err := CopyDisk(ctx, small, blocks); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("sector/block boundary: got %v, want ErrNotImplemented", err)
	}
}

//
func TestCopyDiskCancel(t *testing.T) {

	src := NewSectorAccess(NewMemBuffer(143360), 0, 35, 16, OrderDOS, true)
	dst := NewSectorAccess(NewMemBuffer(143360), 0, 35, 16, OrderDOS, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := CopyDisk(ctx, src, dst); err == nil {
		t.Error("canceled context must abort the copy")
	}
}
