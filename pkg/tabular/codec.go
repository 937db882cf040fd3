package tabular

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/columnlab/tabular/pkg/compression"
	"github.com/columnlab/tabular/pkg/errors"
	"github.com/columnlab/tabular/pkg/pool"
)

// Codec serializes columns to a compact binary form and runs the result
// through a compressor. Integer and timestamp columns are delta encoded
// with zigzag varints, bools and validity bitmaps are written as packed
// words, and categorical columns ship their dictionary in code order.
//
// Encode and Decode must use the same algorithm; the payload carries no
// algorithm marker.
type Codec struct {
	compressor compression.Compressor
}

// NewCodec creates a codec for the given algorithm at the default level.
func NewCodec(algorithm compression.Algorithm) (*Codec, error) {
	compressor, err := compression.NewCompressor(&compression.Config{
		Algorithm: algorithm,
		Level:     compression.Default,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create compressor")
	}
	return &Codec{compressor: compressor}, nil
}

// Algorithm returns the codec's compression algorithm.
func (c *Codec) Algorithm() compression.Algorithm {
	return c.compressor.Algorithm()
}

// Column markers in the serialized form.
const (
	flagNullable    = 1 << 0
	flagCategorical = 1 << 1
)

// EncodeColumn serializes and compresses a single column.
func (c *Codec) EncodeColumn(col Column) ([]byte, error) {
	data, err := serializeColumn(col)
	if err != nil {
		return nil, err
	}
	compressed, err := c.compressor.Compress(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to compress column")
	}
	return compressed, nil
}

// DecodeColumn decompresses and deserializes a single column.
func (c *Codec) DecodeColumn(data []byte) (Column, error) {
	raw, err := c.compressor.Decompress(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decompress column")
	}
	return deserializeColumn(raw)
}

// EncodeTable serializes and compresses every column, framed with names,
// so DecodeTable can rebuild the full table.
func (c *Codec) EncodeTable(t *Table) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	writeUint32(buf, uint32(t.NumCols())) //nolint:gosec // G115: column counts are small
	for i, col := range t.columns {
		writeString(buf, t.names[i])
		blob, err := c.EncodeColumn(col)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode column "+t.names[i])
		}
		writeUint32(buf, uint32(len(blob))) //nolint:gosec // G115: blob sizes fit in uint32
		buf.Write(blob)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// DecodeTable rebuilds a table produced by EncodeTable.
func (c *Codec) DecodeTable(data []byte) (*Table, error) {
	r := bytes.NewReader(data)
	ncols, err := readUint32(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column count")
	}
	cols := make([]NamedColumn, 0, ncols)
	for i := uint32(0); i < ncols; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column name")
		}
		size, err := readUint32(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column size")
		}
		blob := make([]byte, size)
		if _, err := io.ReadFull(r, blob); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column data")
		}
		col, err := c.DecodeColumn(blob)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode column "+name)
		}
		cols = append(cols, Col(name, col))
	}
	return FromColumns(cols...)
}

func serializeColumn(col Column) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	buf.WriteByte(byte(col.Type()))

	var flags byte
	if col.Nullable() {
		flags |= flagNullable
	}
	if _, ok := col.(*CategoricalColumn); ok {
		flags |= flagCategorical
	}
	buf.WriteByte(flags)

	n := col.Len()
	writeUint32(buf, uint32(n)) //nolint:gosec // G115: row counts fit in uint32

	switch v := col.(type) {
	case *Int64Column:
		writeInt64sDelta(buf, v.values)
	case *NullableInt64Column:
		writeBitmap(buf, v.validity)
		writeInt64sDelta(buf, v.values)
	case *Float64Column:
		writeFloat64s(buf, v.values)
	case *NullableFloat64Column:
		writeBitmap(buf, v.validity)
		writeFloat64s(buf, v.values)
	case *StringColumn:
		for _, s := range v.values {
			writeString(buf, s)
		}
	case *NullableStringColumn:
		writeBitmap(buf, v.validity)
		for _, s := range v.values {
			writeString(buf, s)
		}
	case *BoolColumn:
		writeBitmap(buf, v.words)
	case *TimeColumn:
		writeInt64sDelta(buf, v.values)
	case *CategoricalColumn:
		if v.validity != nil {
			writeBitmap(buf, v.validity)
		}
		writeUint32(buf, uint32(v.dict.Size())) //nolint:gosec // G115: dictionaries are small
		for _, s := range v.dict.values {
			writeString(buf, s)
		}
		for _, code := range v.codes {
			writeUint32(buf, code)
		}
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unsupported column type %T", col)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func deserializeColumn(data []byte) (Column, error) {
	r := bytes.NewReader(data)

	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column kind")
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column flags")
	}
	n32, err := readUint32(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read column length")
	}
	n := int(n32)
	kind := ColumnType(kindByte)
	nullable := flags&flagNullable != 0
	categorical := flags&flagCategorical != 0

	if categorical {
		var validity []uint64
		if nullable {
			if validity, err = readBitmap(r); err != nil {
				return nil, err
			}
		}
		dictSize, err := readUint32(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read dictionary size")
		}
		distinct := make([]string, dictSize)
		for i := range distinct {
			if distinct[i], err = readString(r); err != nil {
				return nil, err
			}
		}
		codes := make([]uint32, n)
		for i := range codes {
			if codes[i], err = readUint32(r); err != nil {
				return nil, err
			}
		}
		return &CategoricalColumn{dict: NewDictionary(distinct), codes: codes, validity: validity}, nil
	}

	switch kind {
	case ColumnTypeInt:
		var validity []uint64
		if nullable {
			if validity, err = readBitmap(r); err != nil {
				return nil, err
			}
		}
		values, err := readInt64sDelta(r, n)
		if err != nil {
			return nil, err
		}
		if nullable {
			return &NullableInt64Column{values: values, validity: validity}, nil
		}
		return &Int64Column{values: values}, nil
	case ColumnTypeFloat:
		var validity []uint64
		if nullable {
			if validity, err = readBitmap(r); err != nil {
				return nil, err
			}
		}
		values, err := readFloat64s(r, n)
		if err != nil {
			return nil, err
		}
		if nullable {
			return &NullableFloat64Column{values: values, validity: validity}, nil
		}
		return &Float64Column{values: values}, nil
	case ColumnTypeString:
		var validity []uint64
		if nullable {
			if validity, err = readBitmap(r); err != nil {
				return nil, err
			}
		}
		values := make([]string, n)
		for i := range values {
			if values[i], err = readString(r); err != nil {
				return nil, err
			}
		}
		if nullable {
			return &NullableStringColumn{values: values, validity: validity}, nil
		}
		return &StringColumn{values: values}, nil
	case ColumnTypeBool:
		words, err := readBitmap(r)
		if err != nil {
			return nil, err
		}
		return &BoolColumn{words: words, count: n}, nil
	case ColumnTypeTime:
		values, err := readInt64sDelta(r, n)
		if err != nil {
			return nil, err
		}
		return &TimeColumn{values: values}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unsupported column kind %d", kindByte)
	}
}

// Wire primitives. Everything is little endian.

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeData, "short read")
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s))) //nolint:gosec // G115: cell strings fit in uint32
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	size, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, b); err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeData, "short read")
		}
	}
	return string(b), nil
}

func writeBitmap(buf *bytes.Buffer, words []uint64) {
	writeUint32(buf, uint32(len(words))) //nolint:gosec // G115: bitmap word counts fit in uint32
	var b [8]byte
	for _, w := range words {
		binary.LittleEndian.PutUint64(b[:], w)
		buf.Write(b[:])
	}
}

func readBitmap(r *bytes.Reader) ([]uint64, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	words := make([]uint64, count)
	var b [8]byte
	for i := range words {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "short read")
		}
		words[i] = binary.LittleEndian.Uint64(b[:])
	}
	return words, nil
}

func writeFloat64s(buf *bytes.Buffer, values []float64) {
	var b [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf.Write(b[:])
	}
}

func readFloat64s(r *bytes.Reader, n int) ([]float64, error) {
	values := make([]float64, n)
	var b [8]byte
	for i := range values {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "short read")
		}
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[:]))
	}
	return values, nil
}

// writeInt64sDelta writes the first value raw, then zigzag varint deltas.
// Monotonic or clustered sequences compress to a fraction of their raw size.
func writeInt64sDelta(buf *bytes.Buffer, values []int64) {
	if len(values) == 0 {
		return
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(values[0])) //nolint:gosec // intentional two's-complement reinterpretation
	buf.Write(b[:])

	prev := values[0]
	var scratch [binary.MaxVarintLen64]byte
	for _, v := range values[1:] {
		delta := v - prev
		zigzag := uint64(delta<<1) ^ uint64(delta>>63) // #nosec G115 - intentional zigzag encoding
		n := binary.PutUvarint(scratch[:], zigzag)
		buf.Write(scratch[:n])
		prev = v
	}
}

func readInt64sDelta(r *bytes.Reader, n int) ([]int64, error) {
	values := make([]int64, n)
	if n == 0 {
		return values, nil
	}
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "short read")
	}
	values[0] = int64(binary.LittleEndian.Uint64(b[:])) //nolint:gosec // intentional two's-complement reinterpretation
	prev := values[0]
	for i := 1; i < n; i++ {
		zigzag, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "bad varint")
		}
		delta := int64(zigzag>>1) ^ -int64(zigzag&1) //nolint:gosec // intentional zigzag decoding
		prev += delta
		values[i] = prev
	}
	return values, nil
}
