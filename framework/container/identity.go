package container

import (
	"reflect"
	"strings"
)

// TypeIdentity is the stable, comparable name of a constructible type.
// It is the only key used for memoization and constructor lookup.
type TypeIdentity string

// String implements fmt.Stringer.
func (id TypeIdentity) String() string { return string(id) }

// Short returns the identity without its package path, for log lines.
//
//	TypeIdentity("*github.com/acme/billing.Ledger").Short() // "*billing.Ledger"
func (id TypeIdentity) Short() string {
	s := string(id)
	ptr := ""
	for strings.HasPrefix(s, "*") {
		ptr += "*"
		s = s[1:]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return ptr + s
}

// IdentityOf returns the TypeIdentity of T.
//
//	id := container.IdentityOf[*Ledger]()      // "*github.com/acme/billing.Ledger"
//	id := container.IdentityOf[io.Writer]()    // "io.Writer"
func IdentityOf[T any]() TypeIdentity {
	return identityOfType(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeKey returns the identity of v's dynamic type. A nil v yields "".
func TypeKey(v any) TypeIdentity {
	if v == nil {
		return ""
	}
	return identityOfType(reflect.TypeOf(v))
}

func identityOfType(t reflect.Type) TypeIdentity {
	if t.Kind() == reflect.Ptr {
		return "*" + identityOfType(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return TypeIdentity(t.PkgPath() + "." + t.Name())
	}
	return TypeIdentity(t.String())
}

// isNil reports whether v is nil or a typed nil (pointer, map, slice,
// func, chan or interface).
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
