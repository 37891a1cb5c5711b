// Package config reads the environment-variable configuration surface
// spec §6 documents: the dotted naftah.* property names translated to the
// upper-snake NAFTAH_* environment variables idiomatic Go CLIs read
// (grounded on the teacher's own os.Getenv("SENTRA_DEV_PATH")/
// os.Getenv("SENTRA_INSTALL_DIR") convention in cmd/sentra/main.go).
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is the resolved environment snapshot (spec §6).
type Config struct {
	Debug            bool     // naftah.debug: emit the token stream before running
	ReflectActive    bool     // naftah.reflect.active: enable host reflection
	ReflectMaxDepth  int      // naftah.reflect.max-depth: object-to-map conversion cap
	Locale           string   // naftah.locale: overrides the Arabic default bundle
	BuiltinClasses   []string // naftah.builtin.classes
	BuiltinPackages  []string // naftah.builtin.packages
}

// Load reads the environment once at process startup.
func Load() Config {
	return Config{
		Debug:           getBool("NAFTAH_DEBUG", false),
		ReflectActive:   getBool("NAFTAH_REFLECT_ACTIVE", false),
		ReflectMaxDepth: getInt("NAFTAH_REFLECT_MAX_DEPTH", 64),
		Locale:          os.Getenv("NAFTAH_LOCALE"),
		BuiltinClasses:  getList("NAFTAH_BUILTIN_CLASSES"),
		BuiltinPackages: getList("NAFTAH_BUILTIN_PACKAGES"),
	}
}

func getBool(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getList(name string) []string {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
