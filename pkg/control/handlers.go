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
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cidermill/diskwright/pkg/disk/fs"
	"github.com/cidermill/diskwright/pkg/disk/geometry"
	"github.com/cidermill/diskwright/pkg/disk/image"
)

// geometryFromRequest resolves the size/customSize query arguments.
func geometryFromRequest(req *http.Request) (geometry.DiskGeometry, error) {

	sizeArg, err := getArg(req, "size")
	if err != nil {
		return geometry.DiskGeometry{}, err
	}
	customArg, err := getArg(req, "custom")
	if err != nil {
		return geometry.DiskGeometry{}, err
	}

	sel, err := geometry.ParseSelection(sizeArg)
	if err != nil {
		return geometry.DiskGeometry{}, err
	}

	return geometry.Derive(sel, customArg)
}

//
func (a *api) resolve(w http.ResponseWriter, req *http.Request) {

	geom, err := geometryFromRequest(req)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	ret := &Geometry{}
	ret.Fill(geom)

	if wantsJSON(req) {
		sendJSONReply(ret, http.StatusOK, w)
	} else {
		sendReply([]byte(geom.String()), http.StatusOK, w)
	}
}

//
func (a *api) formats(w http.ResponseWriter, req *http.Request) {

	geom, err := geometryFromRequest(req)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	ret := &CapabilityList{}
	ret.Geometry.Fill(geom)
	for _, c := range image.Capabilities(geom) {
		ret.Formats = append(ret.Formats, Capability{
			Format: c.Format.String(),
			OK:     c.OK,
			Reason: c.Reason,
		})
	}

	if wantsJSON(req) {
		sendJSONReply(ret, http.StatusOK, w)
	} else {
		sendReply([]byte(ret.String()), http.StatusOK, w)
	}
}

//
func (a *api) create(w http.ResponseWriter, req *http.Request) {

	var cr CreateRequest
	if handleError(json.NewDecoder(req.Body).Decode(&cr),
		http.StatusBadRequest, w) {
		return
	}

	if cr.Path == "" {
		handleError(fmt.Errorf("missing path"), http.StatusBadRequest, w)
		return
	}

	sel, err := geometry.ParseSelection(cr.Size)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	geom, err := geometry.Derive(sel, cr.CustomSize)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	var format image.Format
	if cr.Format != "" {
		format, err = image.ForExtension("x." + cr.Format)
	} else {
		format, err = image.ForExtension(cr.Path)
	}
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	fsKind, err := fs.ParseKind(cr.FileSystem)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	volNum := image.DefaultVolumeNumber
	if cr.VolumeNumber != nil {
		volNum = *cr.VolumeNumber
	}

	err = image.Build(cr.Path, geom, format, image.Params{
		VolumeNumber: volNum,
		VolumeName:   cr.VolumeName,
	}, fsKind, cr.Bootable)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	sendReply([]byte(fmt.Sprintf("created %s", cr.Path)), http.StatusOK, w)
}

//
func (a *api) info(w http.ResponseWriter, req *http.Request) {

	path, err := getArg(req, "path")
	if handleError(err, http.StatusBadRequest, w) {
		return
	}
	if path == "" {
		handleError(fmt.Errorf("missing path"), http.StatusBadRequest, w)
		return
	}

	img, err := image.Open(path)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	defer img.Close()

	ret := &ImageInfo{}
	ret.Fill(img)

	if wantsJSON(req) {
		sendJSONReply(ret, http.StatusOK, w)
	} else {
		sendReply([]byte(ret.String()), http.StatusOK, w)
	}
}
