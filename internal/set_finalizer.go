package internal

import (
	"runtime"
)

func SetFinalizer[T any](
	obj T,
	callback func(in T),
) {
	runtime.SetFinalizer(obj, callback)
}

func UnsetFinalizer[T any](obj T) {
	runtime.SetFinalizer(obj, nil)
}
