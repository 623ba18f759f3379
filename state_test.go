// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/gfx/record"
	"github.com/gviegas/sglib/linear"
)

func TestState(t *testing.T) {
	dev := record.New()
	c := NewContext(dev)
	s := NewState(dev)
	// Lighting is already on, so it must not be set.
	s.AddRenderState(gfx.Lighting, gfx.True)
	s.AddRenderState(gfx.CullMode, gfx.CullCW)
	light := gfx.Directional(linear.V3{0, -1, 0})
	s.AddLight(2, light)
	assert.Len(t, s.RenderStates(), 2)
	assert.Equal(t, 1, s.Lights())

	s.Render(c)
	calls := dev.Filter(record.OpSetRenderState)
	require.Len(t, calls, 1)
	if calls[0].Key != gfx.CullMode || calls[0].Value != gfx.CullCW {
		t.Fatalf("State.Render\nhave %v\nwant SetRenderState CullMode=%d", calls[0], gfx.CullCW)
	}
	assert.True(t, dev.LightEnabled(2))
	assert.Equal(t, light, dev.Light(2))

	dev.Forget()
	s.PostRender(c)
	assert.Equal(t, gfx.CullCCW, dev.RenderState(gfx.CullMode))
	assert.Equal(t, gfx.True, dev.RenderState(gfx.Lighting))
	assert.Len(t, dev.Filter(record.OpSetRenderState), 1)
	assert.False(t, dev.LightEnabled(2))
	assert.Empty(t, dev.EnabledLights())

	// Nothing is left to restore.
	dev.Forget()
	s.PostRender(c)
	assert.Empty(t, dev.Filter(record.OpSetRenderState))
}

func TestStateRepeatedKey(t *testing.T) {
	dev := record.New()
	c := NewContext(dev)
	s := NewState(dev)
	s.AddRenderState(gfx.FillMode, gfx.FillWireframe)
	s.AddRenderState(gfx.FillMode, gfx.FillPoint)
	s.Render(c)
	assert.Equal(t, gfx.FillPoint, dev.RenderState(gfx.FillMode))
	s.PostRender(c)
	assert.Equal(t, gfx.FillSolid, dev.RenderState(gfx.FillMode))
}

func TestNestedStates(t *testing.T) {
	dev := record.New()
	c := NewContext(dev)
	outer, inner := NewState(dev), NewState(dev)
	outer.AddRenderState(gfx.ZEnable, gfx.False)
	inner.AddRenderState(gfx.ZEnable, gfx.True)
	inner.AddRenderState(gfx.AlphaBlendEnable, gfx.True)

	outer.Render(c)
	inner.Render(c)
	assert.Equal(t, gfx.True, dev.RenderState(gfx.ZEnable))
	inner.PostRender(c)
	assert.Equal(t, gfx.False, dev.RenderState(gfx.ZEnable))
	assert.Equal(t, gfx.False, dev.RenderState(gfx.AlphaBlendEnable))
	outer.PostRender(c)
	assert.Equal(t, gfx.DefaultRenderStates(), func() (v [gfx.NRenderState]uint32) {
		for k := range gfx.NRenderState {
			v[k] = dev.RenderState(k)
		}
		return
	}())
}
