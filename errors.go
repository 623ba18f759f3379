// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"errors"
	"log/slog"
)

const prefix = "sglib: "

func newErr(reason string) error { return errors.New(prefix + reason) }

var (
	// ErrCycle means that a link would make a node its
	// own descendant.
	ErrCycle = newErr("link would form a cycle")

	// ErrClipExists is returned by Articulated.AddAnimation
	// when the name is taken.
	ErrClipExists = newErr("animation already exists")

	// ErrEmptyCurve is returned by Articulated.AddAnimation
	// when a clip has no keys in one of its curves.
	ErrEmptyCurve = newErr("animation curve has no keys")
)

// AnimNotFound is returned by the SetAnimation functions
// when no node has a clip with the given name.
const AnimNotFound float32 = -1

// check logs a failed device call.
// Builds with the debug tag panic instead.
func check(err error, op string, args ...any) {
	if err == nil {
		return
	}
	if debug {
		panic(prefix + op + ": " + err.Error())
	}
	Logger().Error(prefix+op, append(args, slog.Any("err", err))...)
}
