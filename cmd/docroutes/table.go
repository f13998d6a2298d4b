package main

import (
	"os"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// readTable decodes a manifest file. format overrides the extension when set.
func readTable(path, format string) (*routetable.Table, error) {
	if format == "" {
		return routetable.DecodeFile(path)
	}

	f, err := routetable.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, usageError("cannot open %s: %v", path, err)
	}
	defer file.Close()

	return routetable.Decode(file, f)
}
