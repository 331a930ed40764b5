// Package mmap maps segment blobs read-only into memory.
//
//	m, err := mmap.Open("segments/0b1c.gdv", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile, where access hints are ignored.
//
// Bytes must not be used after Close.
package mmap
