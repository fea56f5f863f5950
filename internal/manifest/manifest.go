// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package manifest locates an Elm project root and reads the source
// directories declared in its elm.json or elm-package.json.
package manifest

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"
)

const (
	// ElmJSON is the Elm 0.19 project manifest.
	ElmJSON = "elm.json"
	// ElmPackageJSON is the Elm 0.18 project manifest.
	ElmPackageJSON = "elm-package.json"

	sourceDirsKey = "source-directories"
)

// manifestNames lists manifest files in lookup order.
var manifestNames = []string{ElmJSON, ElmPackageJSON}

var (
	ErrManifestNotFound = errors.New("elm project manifest not found")
	ErrManifestInvalid  = errors.New("elm project manifest is invalid")
)

// Manifest holds the parts of an Elm project manifest the resolver needs.
type Manifest struct {
	Root              string   // Directory containing the manifest
	Path              string   // Full manifest path
	SourceDirectories []string // Relative to Root, in declaration order
}

// FindRoot walks up from the directory of fileName until it finds a
// directory containing a manifest.
func FindRoot(fs afero.Fs, fileName string) (string, error) {
	dir := filepath.Dir(filepath.Clean(fileName))
	for {
		for _, name := range manifestNames {
			if ok, _ := afero.Exists(fs, filepath.Join(dir, name)); ok {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("%w: no %s or %s above %s", ErrManifestNotFound, ElmJSON, ElmPackageJSON, fileName)
		}
		dir = parent
	}
}

// Read parses the manifest in root. A manifest without source-directories
// falls back to the compiler default for its format.
func Read(fs afero.Fs, root string) (*Manifest, error) {
	for _, name := range manifestNames {
		path := filepath.Join(root, name)
		if ok, _ := afero.Exists(fs, path); !ok {
			continue
		}

		v := viper.New()
		v.SetFs(fs)
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("%w: %s: %v", ErrManifestInvalid, path, err)
		}

		dirs := v.GetStringSlice(sourceDirsKey)
		if !v.IsSet(sourceDirsKey) {
			dirs = defaultSourceDirs(name)
		}

		return &Manifest{Root: root, Path: path, SourceDirectories: dirs}, nil
	}
	return nil, errors.Errorf("%w: %s", ErrManifestNotFound, root)
}

// Load combines FindRoot and Read for the document fileName.
func Load(fs afero.Fs, fileName string) (*Manifest, error) {
	root, err := FindRoot(fs, fileName)
	if err != nil {
		return nil, err
	}
	return Read(fs, root)
}

func defaultSourceDirs(manifestName string) []string {
	if manifestName == ElmPackageJSON {
		return []string{"."}
	}
	return []string{"src"}
}
