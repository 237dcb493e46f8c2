package lut

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// The text table is ~9 MB and slow to tokenize, so parsed tables can be
// cached in a compact binary form.

const cacheVersion = 1

type cacheEnvelope struct {
	Version     int       `msgpack:"version"`
	Thetas      int       `msgpack:"thetas"`
	Ozone       int       `msgpack:"ozone"`
	Taucl       int       `msgpack:"taucl"`
	Albedo      int       `msgpack:"albedo"`
	Wavelengths int       `msgpack:"wavelengths"`
	Ed          []float64 `msgpack:"ed"`
}

// WriteCache serializes the table.
func (t *Table) WriteCache(w io.Writer) error {
	env := cacheEnvelope{
		Version:     cacheVersion,
		Thetas:      numThetas,
		Ozone:       numOzone,
		Taucl:       numTaucl,
		Albedo:      numAlbedo,
		Wavelengths: numWavelengths,
		Ed:          t.ed,
	}
	if err := msgpack.NewEncoder(w).Encode(&env); err != nil {
		return fmt.Errorf("lut: writing cache: %w", err)
	}
	return nil
}

// ReadCache deserializes a table written by WriteCache.
func ReadCache(r io.Reader) (*Table, error) {
	var env cacheEnvelope
	if err := msgpack.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("lut: reading cache: %w", err)
	}
	if env.Version != cacheVersion {
		return nil, fmt.Errorf("lut: cache version %d, want %d", env.Version, cacheVersion)
	}
	if env.Thetas != numThetas || env.Ozone != numOzone || env.Taucl != numTaucl ||
		env.Albedo != numAlbedo || env.Wavelengths != numWavelengths {
		return nil, fmt.Errorf("lut: cache grid %dx%dx%dx%dx%d does not match",
			env.Thetas, env.Ozone, env.Taucl, env.Albedo, env.Wavelengths)
	}
	want := numThetas * numOzone * numTaucl * numAlbedo * numWavelengths
	if len(env.Ed) != want {
		return nil, fmt.Errorf("lut: cache holds %d values, want %d", len(env.Ed), want)
	}
	return &Table{ed: env.Ed}, nil
}

// Load opens a table, preferring the binary cache next to the text file.
// A missing or unreadable cache falls back to the text table and the
// cache is rewritten.
func Load(textPath, cachePath string) (*Table, error) {
	if cachePath != "" {
		if f, err := os.Open(cachePath); err == nil {
			t, cerr := ReadCache(f)
			f.Close()
			if cerr == nil {
				return t, nil
			}
		}
	}

	t, err := FromFile(textPath)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if f, err := os.Create(cachePath); err == nil {
			werr := t.WriteCache(f)
			if cerr := f.Close(); werr == nil && cerr != nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(cachePath)
			}
		}
	}
	return t, nil
}
