/*
varz creates expvar variables named after the package that declares them,
so counters from icmcache and webapp can't collide.

Importing expvar registers /debug/vars on http.DefaultServeMux.  Servers
that use their own mux mount Handler instead.
*/
package varz

import (
	"expvar"
	"net/http"
	"path"
	"runtime"
	"strings"
)

// callerPackage returns the import path of the package whose var block (or
// function) called into varz.
func callerPackage() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return "varz.unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "varz.unknown"
	}

	// "github.com/ts4z/icmev/icmcache.init" -> "github.com/ts4z/icmev/icmcache"
	n := fn.Name()
	dir, file := path.Split(n)
	if dot := strings.Index(file, "."); dot != -1 {
		file = file[:dot]
	}
	return dir + file
}

func NewInt(name string) *expvar.Int {
	return expvar.NewInt(callerPackage() + "." + name)
}

func NewFloat(name string) *expvar.Float {
	return expvar.NewFloat(callerPackage() + "." + name)
}

func NewMap(name string) *expvar.Map {
	return expvar.NewMap(callerPackage() + "." + name)
}

// Handler serves every published variable as JSON.
func Handler() http.Handler {
	return expvar.Handler()
}
