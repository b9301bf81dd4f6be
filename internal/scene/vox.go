package scene

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"fortvox.dev/internal/palette"
)

const voxVersion = 150

// fileLayerCount is fixed by the format; unused slots stay unnamed.
const fileLayerCount = 32

type chunk struct {
	id       string
	content  []byte
	children []chunk
}

func (c *chunk) size() int {
	n := 12 + len(c.content)
	for i := range c.children {
		n += c.children[i].size()
	}
	return n
}

func (c *chunk) writeTo(w io.Writer) error {
	childSize := 0
	for i := range c.children {
		childSize += c.children[i].size()
	}
	var hdr [12]byte
	copy(hdr[:4], c.id)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(c.content)))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(childSize))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.content); err != nil {
		return err
	}
	for i := range c.children {
		if err := c.children[i].writeTo(w); err != nil {
			return err
		}
	}
	return nil
}

type enc struct{ buf bytes.Buffer }

func (e *enc) i32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	e.buf.Write(b[:])
}

func (e *enc) str(s string) {
	e.i32(int32(len(s)))
	e.buf.WriteString(s)
}

// dict writes key/value pairs in the order given.
func (e *enc) dict(pairs [][2]string) {
	e.i32(int32(len(pairs)))
	for _, p := range pairs {
		e.str(p[0])
		e.str(p[1])
	}
}

func fixed(v int16, div float64) string {
	return strconv.FormatFloat(float64(v)/div, 'g', -1, 64)
}

// Write encodes the scene. Palette entry i colors file index i+1.
func (b *Builder) Write(w io.Writer, entries []palette.EffectiveMaterial) error {
	main := chunk{id: "MAIN"}

	for i := range b.models {
		m := &b.models[i]
		var size enc
		size.i32(int32(m.SizeX))
		size.i32(int32(m.SizeY))
		size.i32(int32(m.SizeZ))
		main.children = append(main.children, chunk{id: "SIZE", content: size.buf.Bytes()})

		var xyzi enc
		xyzi.i32(int32(len(m.Voxels)))
		for _, v := range m.Voxels {
			xyzi.buf.Write([]byte{v.X, v.Y, v.Z, v.I})
		}
		main.children = append(main.children, chunk{id: "XYZI", content: xyzi.buf.Bytes()})
	}

	for id, n := range b.nodes {
		main.children = append(main.children, encodeNode(int32(id), n))
	}

	for id := 0; id < fileLayerCount; id++ {
		var e enc
		e.i32(int32(id))
		var attrs [][2]string
		if id < int(layerCount) {
			l := Layer(id)
			attrs = append(attrs, [2]string{"_name", l.String()})
			if b.hiddenLayers[l] {
				attrs = append(attrs, [2]string{"_hidden", "1"})
			}
		}
		e.dict(attrs)
		e.i32(-1)
		main.children = append(main.children, chunk{id: "LAYR", content: e.buf.Bytes()})
	}

	var rgba enc
	for i := 0; i < 256; i++ {
		c := palette.RGBA{}
		if i < len(entries) {
			c = entries[i].Color
		}
		rgba.buf.Write([]byte{c.R, c.G, c.B, c.A})
	}
	main.children = append(main.children, chunk{id: "RGBA", content: rgba.buf.Bytes()})

	for id := 0; id < 256; id++ {
		var m palette.EffectiveMaterial
		if id >= 1 && id-1 < len(entries) {
			m = entries[id-1]
		}
		var e enc
		e.i32(int32(id))
		e.dict(materialAttrs(m))
		main.children = append(main.children, chunk{id: "MATL", content: e.buf.Bytes()})
	}

	var hdr enc
	hdr.buf.WriteString("VOX ")
	hdr.i32(voxVersion)
	if _, err := w.Write(hdr.buf.Bytes()); err != nil {
		return err
	}
	return main.writeTo(w)
}

func encodeNode(id int32, n node) chunk {
	var e enc
	e.i32(id)
	switch n.kind {
	case nodeTransform:
		var attrs [][2]string
		if n.name != "" {
			attrs = append(attrs, [2]string{"_name", n.name})
		}
		e.dict(attrs)
		e.i32(int32(n.child))
		e.i32(-1)
		e.i32(int32(n.layer))
		e.i32(1)
		var frame [][2]string
		if n.translate != nil {
			t := fmt.Sprintf("%d %d %d", n.translate.X, n.translate.Y, n.translate.Z)
			frame = append(frame, [2]string{"_t", t})
		}
		e.dict(frame)
		return chunk{id: "nTRN", content: e.buf.Bytes()}
	case nodeGroup:
		e.dict(nil)
		e.i32(int32(len(n.children)))
		for _, c := range n.children {
			e.i32(int32(c))
		}
		return chunk{id: "nGRP", content: e.buf.Bytes()}
	default:
		e.dict(nil)
		e.i32(1)
		e.i32(int32(n.model))
		e.dict(nil)
		return chunk{id: "nSHP", content: e.buf.Bytes()}
	}
}

// materialAttrs renders a palette entry. Attributes written in
// hundredths become fractions here; density is in thousandths and flux
// stays an integer. Unset roughness, refraction and density fall back
// to the renderer defaults.
func materialAttrs(m palette.EffectiveMaterial) [][2]string {
	attrs := [][2]string{}
	if m.Type != "" {
		attrs = append(attrs, [2]string{"_type", string(m.Type)})
	}
	rough, ior, density := "0.1", "0.3", "0.05"
	if m.Rough != palette.Unset {
		rough = fixed(m.Rough, 100)
	}
	if m.IOR != palette.Unset {
		ior = fixed(m.IOR, 100)
	}
	if m.Density != palette.Unset {
		density = fixed(m.Density, 1000)
	}
	attrs = append(attrs,
		[2]string{"_rough", rough},
		[2]string{"_ior", ior},
		[2]string{"_d", density},
	)
	if m.Metal != palette.Unset {
		attrs = append(attrs, [2]string{"_metal", fixed(m.Metal, 100)})
	}
	if m.Emit != palette.Unset {
		attrs = append(attrs, [2]string{"_emit", fixed(m.Emit, 100)})
	}
	if m.Flux != palette.Unset {
		attrs = append(attrs, [2]string{"_flux", strconv.Itoa(int(m.Flux))})
	}
	if m.Trans != palette.Unset {
		t := fixed(m.Trans, 100)
		attrs = append(attrs, [2]string{"_trans", t}, [2]string{"_alpha", t})
	}
	if m.Media != palette.Unset {
		attrs = append(attrs, [2]string{"_media", strconv.Itoa(int(m.Media))})
	}
	return attrs
}

// WriteFile writes to a temp file beside the target and renames it in
// place, so a cancelled or failed export never leaves a torn file.
func (b *Builder) WriteFile(path string, entries []palette.EffectiveMaterial) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fortvox-*.vox")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := b.Write(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("write scene: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
