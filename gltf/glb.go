// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"io"
)

// GLB header: magic, version and total length.
type glbHeader [3]uint32

// GLB chunk header: length and type.
type glbChunk [2]uint32

const (
	magic    = 0x46546c67
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	return err == nil && h[0] == magic && h[1] == 2
}

// SeekJSON seeks into r until it finds the beginning
// of the JSON string.
// If successful, it returns the length of the chunk.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		return 0, newErr("not a GLB blob")
	}
	var c glbChunk
	switch err = binary.Read(r, binary.LittleEndian, c[:]); {
	case err != nil:
	case c[0] == 0 || c[1] != typeJSON:
		err = newErr("invalid GLB chunk")
	default:
		n = int(c[0])
	}
	return
}

// ReadGLB reads a GLB blob from r.
// It returns the decoded JSON chunk and the contents of
// the BIN chunk, which is nil if the blob has none.
func ReadGLB(r io.Reader) (gltf *GLTF, bin []byte, err error) {
	n, err := SeekJSON(r)
	if err != nil {
		return
	}
	js := make([]byte, n)
	if _, err = io.ReadFull(r, js); err != nil {
		return
	}
	if gltf, err = Decode(bytes.NewReader(js)); err != nil {
		return
	}
	var c glbChunk
	switch err = binary.Read(r, binary.LittleEndian, c[:]); err {
	case nil:
	case io.EOF:
		return gltf, nil, nil
	default:
		return
	}
	if c[1] != typeBIN {
		return nil, nil, newErr("invalid GLB chunk")
	}
	bin = make([]byte, c[0])
	_, err = io.ReadFull(r, bin)
	return
}

// WriteGLB writes gltf and bin to w as a GLB blob.
// The JSON chunk is padded with spaces and the BIN chunk
// with zeros, as the format requires.
func WriteGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	var js bytes.Buffer
	if err := Encode(&js, gltf); err != nil {
		return err
	}
	for js.Len()%4 != 0 {
		js.WriteByte(' ')
	}
	pad := (4 - len(bin)%4) % 4
	total := 12 + 8 + js.Len()
	if len(bin) > 0 {
		total += 8 + len(bin) + pad
	}
	le := binary.LittleEndian
	if err := binary.Write(w, le, glbHeader{magic, 2, uint32(total)}); err != nil {
		return err
	}
	if err := binary.Write(w, le, glbChunk{uint32(js.Len()), typeJSON}); err != nil {
		return err
	}
	if _, err := w.Write(js.Bytes()); err != nil {
		return err
	}
	if len(bin) == 0 {
		return nil
	}
	if err := binary.Write(w, le, glbChunk{uint32(len(bin) + pad), typeBIN}); err != nil {
		return err
	}
	if _, err := w.Write(bin); err != nil {
		return err
	}
	_, err := w.Write(make([]byte, pad))
	return err
}
