// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import "strings"

func isWordByte(b byte) bool {
	return b == '_' || b == '.' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// wordAt returns the dotted identifier surrounding col on line, without
// leading or trailing dots.
func wordAt(line string, col int) string {
	col = min(max(col, 0), len(line))
	start, end := col, col
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	return strings.Trim(line[start:end], ".")
}

// tokenBefore returns the partial identifier ending at col, keeping a
// trailing dot so qualified completion still applies.
func tokenBefore(line string, col int) string {
	col = min(max(col, 0), len(line))
	start := col
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	return strings.TrimLeft(line[start:col], ".")
}
