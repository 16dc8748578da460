package main

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/joshuapare/poolkit/pool"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// presetClasses maps a preset name to its class table.
func presetClasses(name string) ([]pool.SizeClass, error) {
	switch name {
	case "default":
		return pool.DefaultClasses, nil
	case "fine":
		return pool.ClassesFine, nil
	case "coarse":
		return pool.ClassesCoarse, nil
	}
	return nil, fmt.Errorf("unknown preset %q (want default, fine, or coarse)", name)
}

// parseClassSpec parses a BLOCKSIZE:COUNT flag value.
func parseClassSpec(spec string) (pool.SizeClass, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return pool.SizeClass{}, fmt.Errorf("class spec %q: want BLOCKSIZE:COUNT", spec)
	}
	size, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return pool.SizeClass{}, fmt.Errorf("class spec %q: bad block size: %w", spec, err)
	}
	count, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return pool.SizeClass{}, fmt.Errorf("class spec %q: bad block count: %w", spec, err)
	}
	return pool.SizeClass{BlockSize: int32(size), BlockCount: int32(count)}, nil
}

// resolveClasses picks ad-hoc --class specs when given, the preset otherwise.
func resolveClasses(preset string, specs []string) ([]pool.SizeClass, error) {
	if len(specs) == 0 {
		return presetClasses(preset)
	}
	classes := make([]pool.SizeClass, 0, len(specs))
	for _, spec := range specs {
		c, err := parseClassSpec(spec)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// maxBlockSize returns the largest class size, the upper bound for request
// sizes in churn workloads.
func maxBlockSize(classes []pool.SizeClass) int32 {
	var max int32
	for _, c := range classes {
		if c.BlockSize > max {
			max = c.BlockSize
		}
	}
	return max
}
