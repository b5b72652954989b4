// Copyright 2018 Mark Wardle / Eldrix Ltd
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.
//

package cache

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wardle/go-terminology/store"
)

// Type tags. These are written ahead of every scalar field for compatibility
// with the legacy format this codec must stay bit-exact with (§4.2, §6.1);
// only two tags are actually produced by this writer.
const (
	tagInt32 = 4
	tagBytes = 4 // byte-array fields reuse the int32 tag, followed by an int32 length
	tagString = 6
)

// shortStringMax is the length at or above which the long-form 4-byte
// length prefix is used instead of a single length byte (§6.1: "The
// short/long string switch happens strictly at length 255").
const shortStringMax = 255

// descriptionIndexEntrySize is the packed width of one DescriptionIndexEntry:
// 8-byte id + 4-byte offset.
const descriptionIndexEntrySize = 12

// Write serialises c to w in the order fixed by §4.2. Callers that need the
// bytes in memory (for hashing or for writing atomically via a temp file)
// should pass a *bytes.Buffer.
func Write(w io.Writer, c *Cache) error {
	bw := bufio.NewWriter(w)
	enc := &encoder{w: bw}

	enc.writeString(c.Version)
	enc.writeString(rewriteURI(c))
	enc.writeString(c.Date)

	enc.writeBytes(c.Strings.Bytes())
	enc.writeBytes(c.Refs.Bytes())
	enc.writeBytes(c.Descriptions.Bytes())
	enc.writeBytes(c.Words.Bytes())
	enc.writeBytes(c.Stems.Bytes())
	enc.writeBytes(c.Concepts.Bytes())
	enc.writeBytes(c.Relationships.Bytes())
	enc.writeBytes(c.RefsetIndex.Bytes())
	enc.writeBytes(c.RefsetMembers.Bytes())
	enc.writeBytes(encodeDescriptionIndex(c.DescriptionIndex))

	enc.writeInt32(int32(c.IsA))
	enc.writeUint64Slice(c.InactiveRoots)
	enc.writeUint64Slice(c.ActiveRoots)
	enc.writeInt32(c.DefaultLanguage)

	if enc.err != nil {
		return enc.err
	}
	return bw.Flush()
}

// Read deserialises a Cache previously written by Write. It returns an error
// if the stream is truncated or structurally inconsistent; it does not
// validate domain invariants (those are the importer's responsibility).
func Read(r io.Reader) (*Cache, error) {
	dec := &decoder{r: bufio.NewReader(r)}

	c := &Cache{}
	c.Version = dec.readString()
	c.URI = dec.readString()
	c.Date = dec.readString()

	c.Strings = store.WrapStrings(dec.readBytes())
	c.Refs = store.WrapRefs(dec.readBytes())
	c.Descriptions = store.WrapDescriptions(dec.readBytes())
	c.Words = store.WrapWords(dec.readBytes())
	c.Stems = store.WrapStems(dec.readBytes())
	c.Concepts = store.WrapConcepts(dec.readBytes())
	c.Relationships = store.WrapRelationships(dec.readBytes())
	c.RefsetIndex = store.WrapRefsetIndex(dec.readBytes())
	c.RefsetMembers = store.WrapRefsetMembers(dec.readBytes())
	c.DescriptionIndex = decodeDescriptionIndex(dec.readBytes())

	c.IsA = store.Offset(dec.readInt32())
	c.InactiveRoots = dec.readUint64Slice()
	c.ActiveRoots = dec.readUint64Slice()
	c.DefaultLanguage = dec.readInt32()

	if dec.err != nil {
		return nil, dec.err
	}
	return c, nil
}

func encodeDescriptionIndex(entries []DescriptionIndexEntry) []byte {
	buf := make([]byte, len(entries)*descriptionIndexEntrySize)
	for i, e := range entries {
		off := i * descriptionIndexEntrySize
		binary.LittleEndian.PutUint64(buf[off:], e.ID)
		binary.LittleEndian.PutUint32(buf[off+8:], uint32(e.Offset))
	}
	return buf
}

func decodeDescriptionIndex(data []byte) []DescriptionIndexEntry {
	n := len(data) / descriptionIndexEntrySize
	entries := make([]DescriptionIndexEntry, n)
	for i := range entries {
		off := i * descriptionIndexEntrySize
		entries[i] = DescriptionIndexEntry{
			ID:     binary.LittleEndian.Uint64(data[off:]),
			Offset: store.Offset(binary.LittleEndian.Uint32(data[off+8:])),
		}
	}
	return entries
}

// ---- encoder ----

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) writeInt32(v int32) {
	var buf [5]byte
	buf[0] = tagInt32
	binary.LittleEndian.PutUint32(buf[1:], uint32(v))
	e.write(buf[:])
}

func (e *encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	var head []byte
	head = append(head, tagString)
	if len(s) < shortStringMax {
		head = append(head, byte(len(s)))
	} else {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		head = append(head, shortStringMax)
		head = append(head, lenBuf[:]...)
	}
	e.write(head)
	e.write([]byte(s))
}

func (e *encoder) writeBytes(b []byte) {
	if e.err != nil {
		return
	}
	var head [5]byte
	head[0] = tagBytes
	binary.LittleEndian.PutUint32(head[1:], uint32(len(b)))
	e.write(head[:])
	e.write(b)
}

func (e *encoder) writeUint64Slice(ids []uint64) {
	buf := make([]byte, 8*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint64(buf[8*i:], id)
	}
	e.writeBytes(buf)
}

// ---- decoder ----

type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.err = fmt.Errorf("cache: truncated stream: %w", err)
		return nil
	}
	return buf
}

func (d *decoder) readTag(want byte) {
	if d.err != nil {
		return
	}
	tagBuf := d.read(1)
	if d.err != nil {
		return
	}
	if tagBuf[0] != want {
		d.err = fmt.Errorf("cache: expected tag %d, got %d", want, tagBuf[0])
	}
}

func (d *decoder) readInt32() int32 {
	d.readTag(tagInt32)
	buf := d.read(4)
	if d.err != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(buf))
}

func (d *decoder) readString() string {
	d.readTag(tagString)
	lenByte := d.read(1)
	if d.err != nil {
		return ""
	}
	n := int(lenByte[0])
	if lenByte[0] == shortStringMax {
		lenBuf := d.read(4)
		if d.err != nil {
			return ""
		}
		n = int(binary.LittleEndian.Uint32(lenBuf))
	}
	buf := d.read(n)
	if d.err != nil {
		return ""
	}
	return string(buf)
}

func (d *decoder) readBytes() []byte {
	d.readTag(tagBytes)
	lenBuf := d.read(4)
	if d.err != nil {
		return nil
	}
	n := int(binary.LittleEndian.Uint32(lenBuf))
	return d.read(n)
}

func (d *decoder) readUint64Slice() []uint64 {
	buf := d.readBytes()
	out := make([]uint64, len(buf)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	return out
}
