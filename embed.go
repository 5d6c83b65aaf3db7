// Package phonebook provides embedded runtime resources: the default
// configuration file and a sample vCard.
package phonebook

import (
	"embed"
	"io/fs"
)

//go:embed templates/config.yaml templates/sample.vcf
var rawTemplates embed.FS

// Templates is the embedded templates filesystem with the "templates/" prefix stripped.
var Templates = mustSub(rawTemplates, "templates")

// DefaultConfigFile is the template file name written by "config init".
const DefaultConfigFile = "config.yaml"

// SampleVCardFile is a small vCard used for demos and tests.
const SampleVCardFile = "sample.vcf"

// ReadTemplate returns the contents of an embedded template by name.
func ReadTemplate(name string) ([]byte, error) {
	return fs.ReadFile(Templates, name)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
