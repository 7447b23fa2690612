// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"strconv"
	"strings"
)

// ListSeparator - delimiter between list items
const ListSeparator = "|"

// Reader - read access to raw ledger values
//
// Get returns nil for an absent key
type Reader interface {
	Get(key string) ([]byte, error)
}

// Writer - write access to raw ledger values
type Writer interface {
	Put(key string, value []byte)
}

// ReadWriter - both read and write access
type ReadWriter interface {
	Reader
	Writer
}

// ParseInt - decode a raw value, returning defaultValue for any
// value that is not a plain non-negative decimal integer
func ParseInt(raw []byte, defaultValue uint64) uint64 {
	if 0 == len(raw) {
		return defaultValue
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return defaultValue
		}
	}
	n, err := strconv.ParseUint(string(raw), 10, 64)
	if nil != err {
		return defaultValue
	}
	return n
}

// FormatInt - encode an integer
func FormatInt(n uint64) []byte {
	return []byte(strconv.FormatUint(n, 10))
}

// ReadInt - fetch and decode an integer
//
// only errors from the store are returned, a missing or invalid
// value silently becomes defaultValue
func ReadInt(r Reader, key string, defaultValue uint64) (uint64, error) {
	raw, err := r.Get(key)
	if nil != err {
		return defaultValue, err
	}
	return ParseInt(raw, defaultValue), nil
}

// WriteInt - encode and store an integer
func WriteInt(w Writer, key string, n uint64) {
	w.Put(key, FormatInt(n))
}

// ReadString - fetch a text value, defaultValue if absent or empty
func ReadString(r Reader, key string, defaultValue string) (string, error) {
	raw, err := r.Get(key)
	if nil != err {
		return defaultValue, err
	}
	if 0 == len(raw) {
		return defaultValue, nil
	}
	return string(raw), nil
}

// WriteString - store a text value
func WriteString(w Writer, key string, s string) {
	w.Put(key, []byte(s))
}

// ParseList - split a raw list value
func ParseList(raw []byte) []string {
	if 0 == len(raw) {
		return []string{}
	}
	return strings.Split(string(raw), ListSeparator)
}

// FormatList - join list items
func FormatList(items []string) []byte {
	return []byte(strings.Join(items, ListSeparator))
}

// ReadList - fetch and decode a list
func ReadList(r Reader, key string) ([]string, error) {
	raw, err := r.Get(key)
	if nil != err {
		return nil, err
	}
	return ParseList(raw), nil
}

// WriteList - encode and store a list
func WriteList(w Writer, key string, items []string) {
	w.Put(key, FormatList(items))
}

// ReadIntList - fetch a list of integers, skipping invalid items
func ReadIntList(r Reader, key string) ([]uint64, error) {
	items, err := ReadList(r, key)
	if nil != err {
		return nil, err
	}
	result := make([]uint64, 0, len(items))
	for _, item := range items {
		n, err := strconv.ParseUint(item, 10, 64)
		if nil != err {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

// WriteIntList - encode and store a list of integers
func WriteIntList(w Writer, key string, numbers []uint64) {
	items := make([]string, len(numbers))
	for i, n := range numbers {
		items[i] = strconv.FormatUint(n, 10)
	}
	WriteList(w, key, items)
}

// Contains - check for list membership
func Contains(items []string, item string) bool {
	for _, s := range items {
		if s == item {
			return true
		}
	}
	return false
}

// AppendUnique - add item to the end of the list if not present,
// the boolean is true if the list changed
func AppendUnique(items []string, item string) ([]string, bool) {
	if Contains(items, item) {
		return items, false
	}
	return append(items, item), true
}
