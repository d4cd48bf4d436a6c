// Package config loads JSON5 configuration files and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

// LocalPath returns the override file that sits next to name, so
// "harplay.json5" becomes "harplay.local.json5".
func LocalPath(name string) string {
	dir := filepath.Dir(name)
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == "" {
		return filepath.Join(dir, base+".local")
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}

// ReadConfig reads name and merges <name>.local.<ext> over it; values set in
// the local file win. It returns an error wrapping os.ErrNotExist when
// neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false

	data, err := os.ReadFile(name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return out, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		found = true
	} else if err == nil {
		found = true
	}

	local := LocalPath(name)
	data, err = os.ReadFile(local)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return out, err
	}
	if len(data) > 0 {
		var override T
		if err := json5.Unmarshal(data, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", local, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, fmt.Errorf("merge %s: %w", local, err)
		}
		found = true
	}

	if !found {
		return out, fmt.Errorf("read config %s: %w", name, os.ErrNotExist)
	}
	return out, nil
}

// MergeInto reads name like ReadConfig and merges the result over base.
// Zero values in the file leave base untouched. A missing file is not an
// error.
func MergeInto[T any](base *T, name string) error {
	loaded, err := ReadConfig[T](name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return mergo.Merge(base, loaded, mergo.WithOverride)
}

// LoadEnv loads .env style files into the process environment without
// overwriting variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
