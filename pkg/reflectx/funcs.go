package reflectx

import (
	"reflect"
	"runtime"
	"strings"
)

// IsFunction reports whether fn holds a non-nil function value.
func IsFunction(fn any) bool {
	if fn == nil {
		return false
	}
	v := reflect.ValueOf(fn)
	return v.Kind() == reflect.Func && !v.IsNil()
}

// FunctionName returns the short name of the function fn refers to: the
// identifier for declared functions, the method name for method values and
// expressions, and the compiler generated name (func1, ...) for closures.
// Values of a named function type report the type name instead.
func FunctionName(fn any) string {
	if !IsFunction(fn) {
		return ""
	}

	v := reflect.ValueOf(fn)
	if name := v.Type().Name(); name != "" {
		return name
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return v.Type().String()
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
