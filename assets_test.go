// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sglib/asset"
	"github.com/gviegas/sglib/gfx/record"
)

// useTestdata makes nodes load their files from the
// testdata directory for the duration of the test.
func useTestdata(t *testing.T) {
	t.Helper()
	SetAssets(asset.New(os.DirFS("testdata")))
	t.Cleanup(func() { SetAssets(nil) })
}

// begin creates a device with a scene in progress, so
// draw calls are accepted.
func begin(t *testing.T) *record.Device {
	t.Helper()
	dev := record.New()
	require.NoError(t, dev.BeginScene())
	return dev
}

func TestSetAssets(t *testing.T) {
	require.NotNil(t, Assets())
	l := asset.New(os.DirFS("testdata"))
	SetAssets(l)
	assert.Same(t, l, Assets())
	SetAssets(nil)
	assert.NotSame(t, l, Assets())
	assert.NotNil(t, Assets())
}
