// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func decodeFile(t *testing.T, name string) *GLTF {
	t.Helper()
	file, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	gltf, err := Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := gltf.Check(); err != nil {
		t.Fatalf("GLTF.Check:\nhave %v\nwant nil", err)
	}
	return gltf
}

func checkQuad(t *testing.T, gltf *GLTF, bufs [][]byte) {
	t.Helper()
	pos := gltf.ReadFloats(0, bufs)
	if want := []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0}; !slices.Equal(pos, want) {
		t.Fatalf("GLTF.ReadFloats(POSITION):\nhave %v\nwant %v", pos, want)
	}
	uv := gltf.ReadFloats(2, bufs)
	if len(uv) != 8 || uv[0] != 0 || uv[1] != 1 {
		t.Fatalf("GLTF.ReadFloats(TEXCOORD_0):\nhave %v", uv)
	}
	for i, want := range map[int64][]uint32{3: {0, 1, 2}, 4: {0, 2, 3}} {
		if idx := gltf.ReadIndices(i, bufs); !slices.Equal(idx, want) {
			t.Fatalf("GLTF.ReadIndices(%d):\nhave %v\nwant %v", i, idx, want)
		}
	}
	img, ok, err := gltf.LoadImage(0, bufs)
	if err != nil || !ok {
		t.Fatalf("GLTF.LoadImage:\nhave %v, %v\nwant true, nil", ok, err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("GLTF.LoadImage: not a PNG:\nhave %q", img[:min(8, len(img))])
	}
	inst := gltf.Instances()
	if len(inst) != 1 || inst[0].Mesh != 0 {
		t.Fatalf("GLTF.Instances:\nhave %v\nwant one instance of mesh 0", inst)
	}
	if w := inst[0].World; w != mgl32.Translate3D(0, 0, 5) {
		t.Fatalf("GLTF.Instances: World:\nhave %v\nwant %v", w, mgl32.Translate3D(0, 0, 5))
	}
}

func TestGLTF(t *testing.T) {
	gltf := decodeFile(t, "testdata/quad.gltf")
	if n := len(gltf.Meshes[0].Primitives); n != 2 {
		t.Fatalf("len(Mesh.Primitives):\nhave %d\nwant 2", n)
	}
	bufs, err := gltf.LoadBuffers(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	checkQuad(t, gltf, bufs)

	var buf bytes.Buffer
	if err := Encode(&buf, gltf); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if again.Buffers[0].URI != gltf.Buffers[0].URI {
		t.Fatal("Encode/Decode: buffer URI changed")
	}
}

func TestGLB(t *testing.T) {
	file, err := os.Open("testdata/quad.glb")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if !IsGLB(file) {
		t.Fatal("IsGLB(file):\nhave false\nwant true")
	}
	r := bytes.NewReader([]byte(`{"asset":{"version":"2.0"}}`))
	if IsGLB(r) {
		t.Fatal("IsGLB(r):\nhave true\nwant false")
	}
	file.Seek(0, 0)
	gltf, bin, err := ReadGLB(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := gltf.Check(); err != nil {
		t.Fatal(err)
	}
	if len(bin) < 144 {
		t.Fatalf("ReadGLB: BIN chunk:\nhave %d bytes\nwant at least 144", len(bin))
	}
	bufs, err := gltf.LoadBuffers(bin, nil)
	if err != nil {
		t.Fatal(err)
	}
	checkQuad(t, gltf, bufs)

	var out bytes.Buffer
	if err := WriteGLB(&out, gltf, bin); err != nil {
		t.Fatal(err)
	}
	if out.Len()%4 != 0 {
		t.Fatalf("WriteGLB: length not aligned:\nhave %d", out.Len())
	}
	g2, bin2, err := ReadGLB(&out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bin, bin2) || len(g2.Accessors) != len(gltf.Accessors) {
		t.Fatal("WriteGLB/ReadGLB: content changed")
	}
}

func TestCheck(t *testing.T) {
	one := int64(1)
	for _, x := range []struct {
		mod  func(*GLTF)
		want string
	}{
		{func(g *GLTF) { g.Scene = &one }, "GLTF.Scene"},
		{func(g *GLTF) { g.Nodes[0].Mesh = &one }, "Node.Mesh"},
		{func(g *GLTF) { g.BufferViews[0].ByteLength = 1 << 20 }, "out of Buffer bounds"},
		{func(g *GLTF) { g.Accessors[0].Count = 5 }, "out of BufferView bounds"},
		{func(g *GLTF) { g.Accessors[1].Type = "MAT3" }, "Accessor.Type"},
		{func(g *GLTF) { g.Accessors[2].Sparse = map[string]any{} }, "sparse"},
		{func(g *GLTF) { delete(g.Meshes[0].Primitives[0].Attributes, POSITION) }, "POSITION"},
		{func(g *GLTF) { g.Meshes[0].Primitives[1].Indices = new(int64) }, "SCALAR"},
		{func(g *GLTF) { g.Textures[0].Source = &one }, "Texture.Source"},
		{func(g *GLTF) { g.ExtensionsRequired = []string{"KHR_draco_mesh_compression"} }, "extension"},
	} {
		gltf := decodeFile(t, "testdata/quad.gltf")
		x.mod(gltf)
		err := gltf.Check()
		if err == nil || !strings.Contains(err.Error(), x.want) {
			t.Fatalf("GLTF.Check:\nhave %v\nwant error containing %q", err, x.want)
		}
	}
}

func TestReadFloatsNormalized(t *testing.T) {
	view := int64(0)
	gltf := &GLTF{
		Buffers:     []Buffer{{ByteLength: 4}},
		BufferViews: []BufferView{{Buffer: 0, ByteLength: 4}},
		Accessors: []Accessor{
			{BufferView: &view, ComponentType: UNSIGNED_BYTE, Normalized: true, Count: 1, Type: VEC4},
			{BufferView: &view, ComponentType: BYTE, Normalized: true, Count: 1, Type: VEC4},
			{ComponentType: FLOAT, Count: 2, Type: VEC2},
		},
	}
	bufs := [][]byte{{0, 255, 128, 0x81}}
	if have := gltf.ReadFloats(0, bufs); have[0] != 0 || have[1] != 1 {
		t.Fatalf("ReadFloats(UNSIGNED_BYTE):\nhave %v", have)
	}
	if have := gltf.ReadFloats(1, bufs); have[1] != -1.0/127 || have[3] != -1 {
		t.Fatalf("ReadFloats(BYTE):\nhave %v", have)
	}
	if have := gltf.ReadFloats(2, bufs); !slices.Equal(have, []float32{0, 0, 0, 0}) {
		t.Fatalf("ReadFloats(no buffer view):\nhave %v\nwant [0 0 0 0]", have)
	}
}

func TestNodeLocalMatrix(t *testing.T) {
	n := Node{
		Translation: &[3]float32{1, 2, 3},
		Scale:       &[3]float32{2, 2, 2},
	}
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	if m := n.LocalMatrix(); !m.ApproxEqual(want) {
		t.Fatalf("Node.LocalMatrix:\nhave %v\nwant %v", m, want)
	}
	n = Node{Matrix: &[16]float32{0: 1, 5: 1, 10: 1, 12: 7, 15: 1}}
	if m := n.LocalMatrix(); m.Col(3) != (mgl32.Vec4{7, 0, 0, 1}) {
		t.Fatalf("Node.LocalMatrix: explicit matrix:\nhave %v", m)
	}
}
