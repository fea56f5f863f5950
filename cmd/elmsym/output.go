// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// writeOutput renders v to w as indented JSON or YAML.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Errorf("marshaling result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Errorf("marshaling result: %w", err)
		}
		return enc.Close()
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
