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
	"errors"
	"fmt"
)

// ErrNotImplemented is returned when a requested feature exists in the
// GEFDC vocabulary but is not supported here, such as triangular cells.
// It is never returned wrapped in a *ValueError.
var ErrNotImplemented = errors.New("gridtools: not implemented")

// ValueError reports an invalid argument: a shape mismatch, a malformed
// polygon, an unknown geometry kind or write mode, or an unreadable
// input file. Arg names the offending argument.
type ValueError struct {
	Arg string
	Msg string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("gridtools: invalid %s: %s", e.Arg, e.Msg)
}

func valueErrorf(arg, format string, a ...interface{}) error {
	return &ValueError{Arg: arg, Msg: fmt.Sprintf(format, a...)}
}

// IsValueError reports whether err is, or wraps, a *ValueError.
func IsValueError(err error) bool {
	var ve *ValueError
	return errors.As(err, &ve)
}
