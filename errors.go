/*
 * errors.go, part of goElFF.
 *
 * Copyright 2026 The goElFF Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package elff

import (
	"errors"
	"fmt"
	"strings"
)

//Error kinds. All errors in goElFF are fatal: the inputs are deterministic
//files, so nothing is retried. Use errors.Is to check for them.
var (
	//ErrShapeMismatch is returned when two grids that should share a geometry do not.
	ErrShapeMismatch = errors.New("shape mismatch")
	//ErrMissingValenceData is returned when an element has no entry in the valence table.
	ErrMissingValenceData = errors.New("missing valence data")
	//ErrMissingReferenceVoltage is returned when a KPFM branch needs a reference bias that was not given.
	ErrMissingReferenceVoltage = errors.New("missing reference voltage")
	//ErrInvalidDensityRequest is returned when a density operation is requested without a tip density.
	ErrInvalidDensityRequest = errors.New("invalid density request")
	//ErrUnknownProbe is returned when no analytic KPFM tip model exists for a probe type.
	ErrUnknownProbe = errors.New("unknown probe type")
	//ErrUnknownMoment is returned for multipole names that are not implemented.
	ErrUnknownMoment = errors.New("unknown multipole moment")
	//ErrFormat is returned for unsupported or malformed grid files.
	ErrFormat = errors.New("bad grid format")
)

//Error is the error type for all packages in goElFF. Besides the message, it keeps
//the kind of error (one of the Err* variables) and a "decoration" slice with
//the functions that the error went through on its way up.
type Error struct {
	message  string
	kind     error
	deco     []string
	critical bool
}

//NewError returns a critical *Error of the given kind, created by the function caller.
func NewError(kind error, caller string, format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...), kind: kind, deco: []string{caller}, critical: true}
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	ret := err.message
	if err.kind != nil {
		ret = fmt.Sprintf("%s: %s", err.kind.Error(), err.message)
	}
	if len(err.deco) > 0 {
		ret = fmt.Sprintf("%s (%s)", ret, strings.Join(err.deco, " <- "))
	}
	return ret
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. An empty dec just returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns whether the error is critical or it can be ignored.
func (err *Error) Critical() bool { return err.critical }

//Unwrap returns the kind of the error.
func (err *Error) Unwrap() error { return err.kind }

//Decorate adds caller to the decorations of err if err is a goElFF error, and
//returns err. Other errors are wrapped with the caller name. A nil err gives nil.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}
