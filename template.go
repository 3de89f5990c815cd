/*
Copyright © 2024 the gridtools authors.
This file is part of gridtools.

gridtools is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtools is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtools.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridtools

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"
	"github.com/spf13/cast"
)

// Template describes the attribute fields of exported shapefiles and,
// optionally, their projection as WKT.
type Template struct {
	Fields []goshp.Field
	Proj   string
}

// DefaultTemplate returns the attribute schema used when no template
// shapefile is given.
func DefaultTemplate() *Template {
	return &Template{
		Fields: []goshp.Field{
			goshp.NumberField("id", 10),
			goshp.StringField("river", 50),
			goshp.NumberField("reach", 10),
			goshp.NumberField("ii", 10),
			goshp.NumberField("jj", 10),
			goshp.FloatField("elev", 14, 6),
			goshp.StringField("ii_jj", 20),
		},
	}
}

// ReadTemplate reads the attribute fields of the shapefile at path and
// the projection in its .prj file, if there is one. The projection must
// parse.
func ReadTemplate(path string) (*Template, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, valueErrorf("template", "reading %s: %v", path, err)
	}
	defer d.Close()
	t := &Template{Fields: append([]goshp.Field(nil), d.Fields()...)}

	prj := strings.TrimSuffix(path, ".shp") + ".prj"
	b, err := ioutil.ReadFile(prj)
	switch {
	case os.IsNotExist(err):
		return t, nil
	case err != nil:
		return nil, valueErrorf("template", "reading %s: %v", prj, err)
	}
	if _, err := proj.Parse(string(b)); err != nil {
		return nil, valueErrorf("template", "parsing projection in %s: %v", prj, err)
	}
	t.Proj = string(b)
	return t, nil
}

// LoadTemplate reads a template shapefile, or returns DefaultTemplate
// when path is empty.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	return ReadTemplate(path)
}

// FieldNames returns the lower-case names of the template fields.
func (t *Template) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = fieldName(f)
	}
	return names
}

// values orders the properties of a record by the template fields,
// converting each to the field type. Missing properties become zero
// values.
func (t *Template) values(props map[string]interface{}) ([]interface{}, error) {
	vals := make([]interface{}, len(t.Fields))
	for i, f := range t.Fields {
		name := fieldName(f)
		v, ok := props[name]
		var err error
		switch {
		case f.Fieldtype == 'N' && f.Precision == 0:
			if !ok {
				v = 0
			}
			vals[i], err = cast.ToIntE(v)
		case f.Fieldtype == 'N' || f.Fieldtype == 'F':
			if !ok {
				v = 0.
			}
			vals[i], err = cast.ToFloat64E(v)
		default:
			if !ok {
				v = ""
			}
			vals[i], err = cast.ToStringE(v)
		}
		if err != nil {
			return nil, fmt.Errorf("gridtools: field %s: %w", name, err)
		}
	}
	return vals, nil
}

// parseValue converts a raw attribute string into the Go type of field f.
func parseValue(f goshp.Field, raw string) (interface{}, error) {
	raw = strings.TrimSpace(strings.Trim(raw, "\x00"))
	switch {
	case f.Fieldtype == 'N' && f.Precision == 0:
		if raw == "" {
			return 0, nil
		}
		return cast.ToIntE(raw)
	case f.Fieldtype == 'N' || f.Fieldtype == 'F':
		if raw == "" {
			return 0., nil
		}
		return cast.ToFloat64E(raw)
	default:
		return raw, nil
	}
}

// fieldName converts a fixed-width shapefile field name to a lower-case
// string.
func fieldName(f goshp.Field) string {
	b := f.Name[:]
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return strings.ToLower(strings.TrimSpace(string(b)))
}
