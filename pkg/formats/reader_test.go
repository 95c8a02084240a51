package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestReader_Primitives(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteByte(0x7F)
	binary.Write(buf, binary.LittleEndian, uint16(0xBEEF))
	binary.Write(buf, binary.LittleEndian, uint32(0xDEADBEEF))
	binary.Write(buf, binary.LittleEndian, int32(-42))
	binary.Write(buf, binary.LittleEndian, float32(1.5))
	binary.Write(buf, binary.LittleEndian, mgl32.Vec3{1, 2, 3})
	binary.Write(buf, binary.LittleEndian, mgl32.Vec2{4, 5})
	buf.Write([]byte{10, 20, 30, 255})

	r := NewReader(buf.Bytes())

	if v, err := r.ReadUint8(); err != nil || v != 0x7F {
		t.Errorf("ReadUint8: %v, %v", v, err)
	}
	if v, err := r.ReadUint16(); err != nil || v != 0xBEEF {
		t.Errorf("ReadUint16: %#x, %v", v, err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 0xDEADBEEF {
		t.Errorf("ReadUint32: %#x, %v", v, err)
	}
	if v, err := r.ReadInt32(); err != nil || v != -42 {
		t.Errorf("ReadInt32: %v, %v", v, err)
	}
	if v, err := r.ReadFloat32(); err != nil || v != 1.5 {
		t.Errorf("ReadFloat32: %v, %v", v, err)
	}
	if v, err := r.ReadVec3(); err != nil || v != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("ReadVec3: %v, %v", v, err)
	}
	if v, err := r.ReadVec2(); err != nil || v != (mgl32.Vec2{4, 5}) {
		t.Errorf("ReadVec2: %v, %v", v, err)
	}
	if v, err := r.ReadColor(); err != nil || v != (Color{10, 20, 30, 255}) {
		t.Errorf("ReadColor: %+v, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected empty reader, %d bytes left", r.Remaining())
	}
}

func TestReader_OutOfBounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})

	if _, err := r.ReadUint32(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	// A failed read must not advance the cursor.
	if r.Tell() != 0 {
		t.Errorf("cursor moved on failed read: %d", r.Tell())
	}
	if _, err := r.ReadBytes(4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := r.ReadBytes(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("negative count: expected ErrOutOfBounds, got %v", err)
	}
	if _, err := r.ReadBytes(3); err != nil {
		t.Errorf("exact-length read failed: %v", err)
	}
}

func TestReader_SeekTell(t *testing.T) {
	r := NewReader(make([]byte, 16))

	if err := r.Seek(12); err != nil {
		t.Fatalf("Seek(12): %v", err)
	}
	if r.Tell() != 12 {
		t.Errorf("Tell after seek: %d", r.Tell())
	}
	if err := r.Seek(16); err != nil {
		t.Errorf("seek to end should be legal: %v", err)
	}
	if err := r.Seek(17); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	if err := r.Seek(-1); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
}

func TestReader_ReadString(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		n    int
		want string
	}{
		{"null terminated", []byte("water01\x00junk"), 12, "water01"},
		{"full field", []byte("grass"), 5, "grass"},
		{"empty field", []byte{}, 0, ""},
		{"leading null", []byte{0, 'x', 'y'}, 3, ""},
		{"non-ascii replaced", []byte{'a', 0xC0, 'b'}, 3, "a�b"},
	}

	for _, tc := range tests {
		r := NewReader(tc.raw)
		got, err := r.ReadString(tc.n)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestReader_BytesCopy(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src)

	out, err := r.ReadBytes(4)
	if err != nil {
		t.Fatal(err)
	}
	out[0] = 99
	if src[0] != 1 {
		t.Error("ReadBytes must copy, not alias the input buffer")
	}
}
