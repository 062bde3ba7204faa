package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component struct.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Kind      reflect.Kind
	Index     int
	IsPointer bool
}

// Editable reports whether the inspector can edit the field in place.
func (f FieldInfo) Editable() bool {
	switch f.Kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool, reflect.String:
		return true
	}
	return false
}

// ReflectionCache memoizes the exported fields of component types so the
// inspector does not walk struct metadata every frame.
type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

// GetFields returns the exported fields of t. Pointer types resolve to their element;
// non-struct types have no fields.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	rc.mu.RLock()
	fields, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return fields
	}

	fields = fieldsOf(t)

	rc.mu.Lock()
	rc.fieldCache[t] = fields
	rc.mu.Unlock()
	return fields
}

func fieldsOf(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	fields := make([]FieldInfo, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		info := FieldInfo{Name: sf.Name, Type: sf.Type, Index: i}
		if sf.Type.Kind() == reflect.Pointer {
			info.Type = sf.Type.Elem()
			info.IsPointer = true
		}
		info.Kind = info.Type.Kind()
		fields = append(fields, info)
	}
	return fields
}

// Len returns the number of cached types.
func (rc *ReflectionCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.fieldCache)
}

var globalReflectionCache = NewReflectionCache()
