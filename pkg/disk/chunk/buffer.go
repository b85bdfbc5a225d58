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
	"fmt"
	"io"
)

// MemBuffer is a seekable in-memory byte store, used for staging raw images
// before they get wrapped into an archive container, and as the backing for
// the nibble containers' decoded sector space.
type MemBuffer struct {
	data []byte
	pos  int64
}

//
func NewMemBuffer(size int64) *MemBuffer {
	return &MemBuffer{data: make([]byte, size)}
}

//
func (b *MemBuffer) Bytes() []byte {
	return b.data
}

//
func (b *MemBuffer) Len() int64 {
	return int64(len(b.data))
}

//
func (b *MemBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

//
func (b *MemBuffer) Write(p []byte) (int, error) {
	if need := b.pos + int64(len(p)); need > int64(len(b.data)) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	n := copy(b.data[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

//
func (b *MemBuffer) Seek(offset int64, whence int) (int64, error) {

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if pos < 0 {
		return 0, fmt.Errorf("negative seek position: %d", pos)
	}

	b.pos = pos
	return pos, nil
}
