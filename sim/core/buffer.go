// Package core defines the GPU-resident record layouts the MLS-MPM
// simulator moves between host and device (Particle, Cell, Uniforms), and
// the structured-buffer packing they share.
package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
)

// BufferLayout describes the byte layout of a fixed-size GPU record type,
// field-for-field the same way the corresponding WGSL struct lays it out.
// It gives external consumers (renderers) the field offsets they need
// without reaching into simulator internals.
type BufferLayout struct {
	Stride  uint64
	offsets map[string]uint64
	sizes   map[string]uint64
}

// Offset returns the byte offset of field within one record. Panics if
// the field does not exist.
func (l BufferLayout) Offset(field string) uint64 {
	off, ok := l.offsets[field]
	if !ok {
		panic(fmt.Sprintf("core: unknown field %q in buffer layout", field))
	}
	return off
}

// Size returns the byte size of field within one record.
func (l BufferLayout) Size(field string) uint64 {
	return l.sizes[field]
}

// BuildLayout walks every field of a record struct, unexported padding
// fields included, in declaration order and records their byte offsets. Field types must be float32,
// int32, uint32, a fixed-size array of one of those (mgl32.Vec3/Vec4 are
// plain float32 arrays, so they fall out of this for free), or a nested
// struct built from the same rules (e.g. Mat3Padded) — a GPU record's
// layout should be spelled out flat, padding fields included, the same
// way the WGSL struct it mirrors does; nesting is only for grouping
// fields that always move together (an affine matrix's three columns).
func BuildLayout[T any]() BufferLayout {
	t := reflect.TypeOf(*new(T))
	if t.Kind() != reflect.Struct {
		panic("core: BuildLayout requires a struct type")
	}

	layout := BufferLayout{offsets: map[string]uint64{}, sizes: map[string]uint64{}}
	var offset uint64
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		size := fieldByteSize(f.Type)
		layout.offsets[f.Name] = offset
		layout.sizes[f.Name] = size
		offset += size
	}
	layout.Stride = offset
	return layout
}

func fieldByteSize(t reflect.Type) uint64 {
	switch t.Kind() {
	case reflect.Float32, reflect.Int32, reflect.Uint32:
		return 4
	case reflect.Array:
		return uint64(t.Len()) * fieldByteSize(t.Elem())
	case reflect.Struct:
		var size uint64
		for i := 0; i < t.NumField(); i++ {
			size += fieldByteSize(t.Field(i).Type)
		}
		return size
	default:
		panic(fmt.Sprintf("core: unsupported GPU record field kind %v", t.Kind()))
	}
}

// Pack serializes a slice of fixed-layout records into the byte form a
// WGSL storage or uniform buffer expects: little-endian, fields in
// declaration order, nothing reordered. Mirrors gpu_operations.go's
// toBufferBytes/readUniformsBytes, generalized to whole slices of records
// via Go generics instead of reflect.Value walking driven by struct tags.
func Pack[T any](records []T) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(int(BuildLayout[T]().Stride) * len(records))
	for i := range records {
		writeRecord(reflect.ValueOf(records[i]), buf)
	}
	return buf.Bytes()
}

func writeRecord(v reflect.Value, buf *bytes.Buffer) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			writeRecord(v.Field(i), buf)
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			writeRecord(v.Index(i), buf)
		}
	// Kind-specific accessors rather than Interface(): padding fields are
	// unexported, and Interface() refuses to read those.
	case reflect.Float32:
		binary.Write(buf, binary.LittleEndian, float32(v.Float()))
	case reflect.Int32:
		binary.Write(buf, binary.LittleEndian, int32(v.Int()))
	case reflect.Uint32:
		binary.Write(buf, binary.LittleEndian, uint32(v.Uint()))
	default:
		panic(fmt.Sprintf("core: unsupported GPU record field kind %v", v.Kind()))
	}
}

// StructuredBuffer is the CPU-side mirror of a structured GPU buffer: a
// typed, fixed-capacity slice of records plus the layout needed to
// address individual fields by name. It never touches the device, which
// keeps it trivially unit-testable; sim/gpu does not use it and uploads
// record slices packed with Pack instead.
type StructuredBuffer[T any] struct {
	Label   string
	layout  BufferLayout
	records []T
}

// NewStructuredBuffer allocates a zero-valued record slice of the given
// capacity.
func NewStructuredBuffer[T any](label string, count int) *StructuredBuffer[T] {
	return &StructuredBuffer[T]{
		Label:   label,
		layout:  BuildLayout[T](),
		records: make([]T, count),
	}
}

func (b *StructuredBuffer[T]) Layout() BufferLayout { return b.layout }
func (b *StructuredBuffer[T]) Len() int             { return len(b.records) }
func (b *StructuredBuffer[T]) Records() []T         { return b.records }
func (b *StructuredBuffer[T]) Bytes() []byte        { return Pack(b.records) }

func (b *StructuredBuffer[T]) Get(index int) T { return b.records[index] }

func (b *StructuredBuffer[T]) Set(index int, record T) { b.records[index] = record }
