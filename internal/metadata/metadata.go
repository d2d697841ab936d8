// Package metadata decodes the .met records a peer-to-peer client keeps next
// to each partially downloaded file.
package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	fsutil "github.com/kk-code-lab/rclaunch/internal/fs"
)

// Version is the only record version understood by Decode.
const Version = 0xE0

// Extension is the suffix of record files.
const Extension = ".met"

const (
	dateSize = 4
	hashSize = 16
)

// Tag types.
const (
	tagHash      = 0x01
	tagString    = 0x02
	tagUint32    = 0x03
	tagFloat32   = 0x04
	tagBool      = 0x05
	tagBoolArray = 0x06
	tagBlob      = 0x07
	tagUint16    = 0x08
	tagUint8     = 0x09
	tagBSOB      = 0x0A
	tagUint64    = 0x0B

	// Short strings carry their length in the type: STR1 (0x11) to STR16 (0x20).
	tagStr1  = 0x11
	tagStr16 = 0x20
)

const (
	tagNameUnknown  = 0x00
	tagNameFileName = 0x01
)

var (
	ErrBadVersion     = errors.New("metadata: unsupported record version")
	ErrUnsupportedTag = errors.New("metadata: tag type without fixed width")
	ErrNoFileName     = errors.New("metadata: record has no filename tag")
	ErrTruncated      = errors.New("metadata: record truncated")
)

// Record holds what the listing needs from one .met file.
type Record struct {
	FileName  string
	Hash      [hashSize]byte
	PartCount int
}

// DecodeFile opens path and decodes the record it contains.
func DecodeFile(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	rec, err := Decode(f)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Decode reads one record from r. It reads only the bytes it needs: a wrong
// version is rejected after one byte, and decoding stops as soon as the
// filename tag has been read.
func Decode(r io.Reader) (Record, error) {
	d := decoder{r: r}
	var rec Record

	version, err := d.u8()
	if err != nil {
		return Record{}, err
	}
	if version != Version {
		return Record{}, fmt.Errorf("%w: 0x%02X", ErrBadVersion, version)
	}

	if err := d.skip(dateSize); err != nil {
		return Record{}, err
	}
	if err := d.read(rec.Hash[:]); err != nil {
		return Record{}, err
	}

	parts, err := d.u16()
	if err != nil {
		return Record{}, err
	}
	rec.PartCount = int(parts)
	if err := d.skip(int64(parts) * hashSize); err != nil {
		return Record{}, err
	}

	tagCount, err := d.u32()
	if err != nil {
		return Record{}, err
	}

	for i := uint32(0); i < tagCount; i++ {
		name, found, err := d.tag()
		if err != nil {
			return Record{}, fmt.Errorf("tag %d: %w", i, err)
		}
		if found {
			rec.FileName = name
			return rec, nil
		}
	}
	return Record{}, ErrNoFileName
}

type decoder struct {
	r   io.Reader
	buf [8]byte
}

// tag decodes one tag. found is true when it was the filename string.
func (d *decoder) tag() (string, bool, error) {
	typ, err := d.u8()
	if err != nil {
		return "", false, err
	}

	code := byte(tagNameUnknown)
	if typ&0x80 != 0 {
		typ &= 0x7F
		if code, err = d.u8(); err != nil {
			return "", false, err
		}
	} else {
		nameLen, err := d.u16()
		if err != nil {
			return "", false, err
		}
		if nameLen == 1 {
			if code, err = d.u8(); err != nil {
				return "", false, err
			}
		} else if err := d.skip(int64(nameLen)); err != nil {
			return "", false, err
		}
	}

	switch {
	case typ == tagString:
		n, err := d.u16()
		if err != nil {
			return "", false, err
		}
		return d.str(int(n), code)
	case typ >= tagStr1 && typ <= tagStr16:
		return d.str(int(typ-tagStr1)+1, code)
	}

	width, ok := fixedWidth(typ)
	if !ok {
		return "", false, fmt.Errorf("%w: 0x%02X", ErrUnsupportedTag, typ)
	}
	return "", false, d.skip(width)
}

func (d *decoder) str(n int, code byte) (string, bool, error) {
	if code != tagNameFileName {
		return "", false, d.skip(int64(n))
	}
	raw := make([]byte, n)
	if err := d.read(raw); err != nil {
		return "", false, err
	}
	return fsutil.DecodeName(raw), true, nil
}

func fixedWidth(typ byte) (int64, bool) {
	switch typ {
	case tagHash:
		return hashSize, true
	case tagUint32, tagFloat32:
		return 4, true
	case tagBool, tagUint8:
		return 1, true
	case tagUint16:
		return 2, true
	case tagUint64:
		return 8, true
	case tagBoolArray, tagBlob, tagBSOB:
		return 0, false
	default:
		return 0, false
	}
}

func (d *decoder) read(p []byte) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

func (d *decoder) skip(n int64) error {
	if n == 0 {
		return nil
	}
	copied, err := io.CopyN(io.Discard, d.r, n)
	if copied < n {
		if err == nil || errors.Is(err, io.EOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

func (d *decoder) u8() (byte, error) {
	if err := d.read(d.buf[:1]); err != nil {
		return 0, err
	}
	return d.buf[0], nil
}

func (d *decoder) u16() (uint16, error) {
	if err := d.read(d.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(d.buf[:2]), nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.read(d.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.buf[:4]), nil
}
