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
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

//
func TestResolve(t *testing.T) {

	a := &api{}

	req := httptest.NewRequest("GET", "/resolve?size=800k", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	a.resolve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var geom Geometry
	if err := json.NewDecoder(rec.Body).Decode(&geom); err != nil {
		t.Fatal(err)
	}
	if geom.SizeBytes != 819200 || geom.TotalBlocks != 1600 {
		t.Errorf("got %d bytes, %d blocks", geom.SizeBytes, geom.TotalBlocks)
	}
}

//
func TestResolvePlainText(t *testing.T) {

	a := &api{}

	req := httptest.NewRequest("GET", "/resolve?size=140k", nil)
	rec := httptest.NewRecorder()

	a.resolve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "35 tracks x 16 sectors") {
		t.Errorf("body: %q", rec.Body.String())
	}
}

//
func TestResolveRejects(t *testing.T) {

	a := &api{}

	for _, q := range []string{
		"size=700k",
		"size=custom&custom=5G",
		"size=custom&custom=abc",
	} {
		req := httptest.NewRequest("GET", "/resolve?"+q, nil)
		rec := httptest.NewRecorder()
		a.resolve(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%q: status %d", q, rec.Code)
		}
	}
}

//
func TestFormats(t *testing.T) {

	a := &api{}

	req := httptest.NewRequest("GET", "/formats?size=140k", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	a.formats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var list CapabilityList
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}

	if list.Geometry.SizeBytes != 143360 {
		t.Errorf("geometry: %d bytes", list.Geometry.SizeBytes)
	}
	if len(list.Formats) != 8 {
		t.Fatalf("got %d formats, want 8", len(list.Formats))
	}

	byName := map[string]Capability{}
	for _, c := range list.Formats {
		byName[c.Format] = c
	}
	if !byName["ProDOS block image"].OK {
		t.Error("block image must hold 140KB")
	}
	if dc := byName["DiskCopy 4.2"]; dc.OK || dc.Reason == "" {
		t.Error("DiskCopy must refuse 5.25\" media, with a reason")
	}
}

//
func TestCreateAndInfo(t *testing.T) {

	a := &api{}
	path := filepath.Join(t.TempDir(), "api.po")

	body, err := json.Marshal(CreateRequest{
		Path:       path,
		Size:       "140k",
		FileSystem: "prodos",
		VolumeName: "APIDISK",
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("PUT", "/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	a.create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("image file not created")
	}

	req = httptest.NewRequest("GET", "/info?path="+path, nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()

	a.info(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var info ImageInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Format != "ProDOS block image" {
		t.Errorf("format: %q", info.Format)
	}
	if info.Geometry.TotalBlocks != 280 {
		t.Errorf("blocks: %d", info.Geometry.TotalBlocks)
	}
}

// an explicit volume number 0 must reach the formatter, not be swapped for
// the default
func TestCreateVolumeNumberZero(t *testing.T) {

	a := &api{}
	path := filepath.Join(t.TempDir(), "vol0.do")
	zero := 0

	body, err := json.Marshal(CreateRequest{
		Path:         path,
		Size:         "140k",
		FileSystem:   "dos",
		VolumeNumber: &zero,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("PUT", "/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	a.create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if vol := data[17*16*256+0x06]; vol != 0 {
		t.Errorf("VTOC volume number: got %d, want 0", vol)
	}

	// omitting the field still yields the default
	path = filepath.Join(t.TempDir(), "voldef.do")
	body, err = json.Marshal(CreateRequest{
		Path:       path,
		Size:       "140k",
		FileSystem: "dos",
	})
	if err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest("PUT", "/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()

	a.create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	data, err = ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if vol := data[17*16*256+0x06]; vol != 254 {
		t.Errorf("VTOC volume number: got %d, want 254", vol)
	}
}

//
func TestCreateRejects(t *testing.T) {

	a := &api{}
	dir := t.TempDir()

	cases := []struct {
		req  CreateRequest
		code int
	}{
		{CreateRequest{Size: "140k"}, http.StatusBadRequest}, // no path
		{CreateRequest{Path: filepath.Join(dir, "x.po"), Size: "700k"},
			http.StatusUnprocessableEntity},
		{CreateRequest{Path: filepath.Join(dir, "x.po"), Size: "140k",
			FileSystem: "fat32"}, http.StatusUnprocessableEntity},
		{CreateRequest{Path: filepath.Join(dir, "x.dsk"), Size: "140k"},
			http.StatusUnprocessableEntity},
	}

	for _, c := range cases {
		body, err := json.Marshal(c.req)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest("PUT", "/create", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		a.create(rec, req)

		if rec.Code != c.code {
			t.Errorf("%+v: status %d, want %d", c.req, rec.Code, c.code)
		}
		if c.req.Path != "" {
			if _, err := os.Stat(c.req.Path); !os.IsNotExist(err) {
				t.Errorf("%+v: rejected request left a file", c.req)
			}
		}
	}
}

//
func TestInfoRejects(t *testing.T) {

	a := &api{}

	req := httptest.NewRequest("GET", "/info", nil)
	rec := httptest.NewRecorder()
	a.info(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing path: status %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/info?path=nosuch.woz", nil)
	rec = httptest.NewRecorder()
	a.info(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unsupported format: status %d", rec.Code)
	}
}
