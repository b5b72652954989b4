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

package store

import "encoding/binary"

const wordRecordSize = 5

const (
	wfString = 0 // uint32 string-offset
	wfFlags  = 4 // uint8
)

// Word flag bits. Bit 0 is stored inverted: a set bit 0 on disk means the
// word appears only in inactive descriptions (spec §3, §4.4 phase 8).
const (
	WordFlagInactiveOnly = 1 << 0
	WordFlagFSN          = 1 << 1
)

// Words is the WORDS store: one entry per distinct lowercased word of three
// or more characters that appears in any description term.
type Words struct {
	f *fixed
}

// NewWords creates an empty, appendable word store.
func NewWords() *Words {
	return &Words{f: newFixed(wordRecordSize)}
}

// WrapWords reopens a previously-encoded word store for reading.
func WrapWords(data []byte) *Words {
	return &Words{f: wrapFixed(data, wordRecordSize)}
}

// Append reserves a new word slot.
func (w *Words) Append(str Offset, flags byte) Offset {
	off := w.f.append()
	slot := w.f.slot(off)
	binary.LittleEndian.PutUint32(slot[wfString:], uint32(str))
	slot[wfFlags] = flags
	return off
}

func (w *Words) Count() int            { return w.f.Count() }
func (w *Words) OffsetOf(n int) Offset { return w.f.OffsetOf(n) }
func (w *Words) Bytes() []byte         { return w.f.Bytes() }
func (w *Words) Len() int              { return w.f.Len() }

func (w *Words) String(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(w.f.slot(offset)[wfString:]))
}
func (w *Words) Flags(offset Offset) byte {
	return w.f.slot(offset)[wfFlags]
}
