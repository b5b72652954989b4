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
	"bytes"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Save writes c to path, replacing any existing file. It writes to a
// temporary file in the same directory and renames it into place, so a
// reader never observes a partially-written cache (§5, "write-once per
// import").
func Save(path string, c *Cache) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cache: create %s: %w", tmp, err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cache: encode: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cache: write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}

// mapping is a memory-mapped cache file. Close must be called to release
// the mapping once the cache is no longer needed.
type mapping struct {
	data []byte
}

func (m *mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// Load memory-maps path read-only and decodes the cache image it holds. The
// decoder copies each store's bytes out of the mapping into its own buffer,
// so the returned Cache does not reference the mapping. The function
// returned alongside it unmaps the file; long-running servers may simply let
// the process exit.
func Load(path string) (*Cache, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("cache: stat %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		return nil, nil, fmt.Errorf("cache: %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: mmap %s: %w", path, err)
	}
	m := &mapping{data: data}

	c, err := Read(bytes.NewReader(data))
	if err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("cache: decode %s: %w", path, err)
	}
	return c, m.Close, nil
}
