// Package seed holds the bundled sample data.
package seed

import (
	_ "embed"
)

//go:embed sample.json
var sample []byte

//go:embed quick_import.json
var quickImport []byte

// Sample returns the collection written on first start
func Sample() []byte {
	return append([]byte(nil), sample...)
}

// QuickImport returns an example import payload
func QuickImport() []byte {
	return append([]byte(nil), quickImport...)
}
