// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import "reflect"

// CanBeNil reports whether values of type K can be nil.
func CanBeNil[K comparable]() bool {
	return isNilableKind(reflect.TypeFor[K]().Kind())
}

// IsNilKey reports whether key is a nil pointer, channel, interface or
// unsafe pointer. Keys of other kinds are never nil.
func IsNilKey[K comparable](key K) bool {
	v := reflect.ValueOf(any(key))
	if !v.IsValid() {
		return true
	}
	return isNilableKind(v.Kind()) && v.IsNil()
}

func isNilableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
