package config

import (
	"iter"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// setter stores one configuration value.
type setter func(opts *Options, value starlark.Value) (err error)

var _setters = map[string]setter{
	"MEMORY_START": func(opts *Options, value starlark.Value) (err error) {
		opts.MemoryStart, err = toUint64(value)
		return
	},
	"MEMORY_SIZE": func(opts *Options, value starlark.Value) (err error) {
		opts.MemorySize, err = toUint64(value)
		return
	},
	"PE_BASES": func(opts *Options, value starlark.Value) (err error) {
		list, ok := value.(starlark.Indexable)
		if !ok {
			err = ErrConfigType
			return
		}
		bases := make([]uint64, list.Len())
		for n := range bases {
			bases[n], err = toUint64(list.Index(n))
			if err != nil {
				return
			}
		}
		opts.PeBases = bases
		return
	},
	"PE_SIZE": func(opts *Options, value starlark.Value) (err error) {
		opts.PeSize, err = toUint64(value)
		return
	},
	"DMA_BASE": func(opts *Options, value starlark.Value) (err error) {
		opts.DmaBase, err = toUint64(value)
		return
	},
	"DMA_SIZE": func(opts *Options, value starlark.Value) (err error) {
		opts.DmaSize, err = toUint64(value)
		return
	},
	"USE_DMA": func(opts *Options, value starlark.Value) (err error) {
		opts.UseDma, err = toBool(value)
		return
	},
	"DELAY_NS": func(opts *Options, value starlark.Value) (err error) {
		ns, err := toUint64(value)
		opts.Delay = time.Duration(ns)
		return
	},
	"INPUT": func(opts *Options, value starlark.Value) (err error) {
		opts.Input, err = toString(value)
		return
	},
	"OUTPUT": func(opts *Options, value starlark.Value) (err error) {
		opts.Output, err = toString(value)
		return
	},
	"VERBOSE": func(opts *Options, value starlark.Value) (err error) {
		opts.Verbose, err = toBool(value)
		return
	},
}

func toUint64(value starlark.Value) (u uint64, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrConfigType
		return
	}
	u, ok = st_int.Uint64()
	if !ok {
		err = ErrConfigValue
	}
	return
}

func toBool(value starlark.Value) (b bool, err error) {
	st_bool, ok := value.(starlark.Bool)
	if !ok {
		err = ErrConfigType
		return
	}
	b = bool(st_bool)
	return
}

func toString(value starlark.Value) (s string, err error) {
	s, ok := starlark.AsString(value)
	if !ok {
		err = ErrConfigType
	}
	return
}

// isKey reports whether a global names a configuration key. Other
// globals are helpers of the script.
func isKey(name string) bool {
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
	}
	return len(name) > 0 && !strings.HasPrefix(name, "_")
}

// predeclare converts defines to Starlark values. Numeric defines become
// integers; the rest stay strings.
func predeclare(defines iter.Seq2[string, string]) (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	if defines == nil {
		return
	}

	for key, str := range defines {
		value, err := strconv.ParseUint(str, 0, 64)
		if err == nil {
			pred[key] = starlark.MakeUint64(value)
		} else {
			pred[key] = starlark.String(str)
		}
	}
	return
}

// Load executes a Starlark configuration script on top of the default
// options. src is as for starlark.ExecFileOptions: if nil, filename is
// read. defines are predeclared for the script.
func Load(filename string, src any, defines iter.Seq2[string, string]) (opts Options, err error) {
	opts = Default()

	thread := &starlark.Thread{Name: "config"}
	fileOpts := &syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(fileOpts, thread, filename, src, predeclare(defines))
	if err != nil {
		return
	}

	for _, name := range globals.Keys() {
		if !isKey(name) {
			continue
		}
		set, ok := _setters[name]
		if !ok {
			err = &ErrOption{Name: name, Err: ErrConfigKey}
			return
		}
		err = set(&opts, globals[name])
		if err != nil {
			err = &ErrOption{Name: name, Err: err}
			return
		}
	}

	err = opts.Validate()
	return
}
