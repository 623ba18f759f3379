// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"os"
	"sync/atomic"

	"github.com/gviegas/sglib/asset"
)

var assetsPtr atomic.Pointer[asset.Loader]

func init() {
	assetsPtr.Store(asset.New(os.DirFS(".")))
}

// SetAssets sets the loader that nodes use to load the
// files they are created with.
// Passing nil restores the default, which reads from
// the working directory.
func SetAssets(l *asset.Loader) {
	if l == nil {
		l = asset.New(os.DirFS("."))
	}
	assetsPtr.Store(l)
}

// Assets returns the current loader.
func Assets() *asset.Loader { return assetsPtr.Load() }
