package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Reader is a bounds-checked little-endian cursor over an immutable byte
// buffer. Every read advances the offset; Seek repositions it. All failures
// are reported as errors, never panics.
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Tell returns the current offset.
func (r *Reader) Tell() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Seek repositions the cursor to an absolute offset.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset > len(r.data) {
		return fmt.Errorf("%w: %d (buffer is %d bytes)", ErrInvalidOffset, offset, len(r.data))
	}
	r.offset = offset
	return nil
}

// require checks that n more bytes can be read from the current offset.
func (r *Reader) require(n int) error {
	if n < 0 || r.offset+n > len(r.data) {
		return fmt.Errorf("%w: need %d bytes at offset 0x%X (buffer is %d bytes)",
			ErrOutOfBounds, n, r.offset, len(r.data))
	}
	return nil
}

// ReadUint8 reads an unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads a little-endian IEEE 754 float32.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadBytes reads n bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.data[r.offset:r.offset+n])
	r.offset += n
	return v, nil
}

// ReadString reads an n-byte field holding a null-terminated ASCII string.
// Bytes past the first null are discarded; non-ASCII bytes are replaced.
func (r *Reader) ReadString(n int) (string, error) {
	raw, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}

	var sb strings.Builder
	for _, b := range raw {
		if b < utf8.RuneSelf {
			sb.WriteByte(b)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
	}
	return sb.String(), nil
}

// ReadVec3 reads three float32 components.
func (r *Reader) ReadVec3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := r.ReadFloat32()
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

// ReadVec2 reads two float32 components.
func (r *Reader) ReadVec2() (mgl32.Vec2, error) {
	var v mgl32.Vec2
	for i := 0; i < 2; i++ {
		f, err := r.ReadFloat32()
		if err != nil {
			return mgl32.Vec2{}, err
		}
		v[i] = f
	}
	return v, nil
}

// ReadColor reads an RGBA quadruplet.
func (r *Reader) ReadColor() (Color, error) {
	if err := r.require(4); err != nil {
		return Color{}, err
	}
	c := Color{
		R: r.data[r.offset],
		G: r.data[r.offset+1],
		B: r.data[r.offset+2],
		A: r.data[r.offset+3],
	}
	r.offset += 4
	return c, nil
}
