// SPDX-License-Identifier: MPL-2.0

// Package resloc parses namespaced resource locations ("namespace:key") and
// maps them onto resource-pack asset paths.
package resloc

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	// DefaultNamespace is used when a location has no "namespace:" prefix.
	DefaultNamespace = "minecraft"

	// ModelsRoot is the asset folder holding model documents.
	ModelsRoot = "models"

	// ItemFolder is the models subfolder holding item models.
	ItemFolder = "item"

	// JSONExt is appended to every model path.
	JSONExt = ".json"

	separator = ":"
)

// ErrInvalidResourceLocation is the sentinel error wrapped by InvalidResourceLocationError.
var ErrInvalidResourceLocation = errors.New("invalid resource location")

type (
	// Location is a parsed resource location.
	Location struct {
		Namespace string
		Key       string
	}

	// InvalidResourceLocationError is returned when a string cannot be parsed
	// as a resource location.
	InvalidResourceLocationError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidResourceLocationError) Error() string {
	return fmt.Sprintf("invalid resource location %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidResourceLocation for errors.Is() compatibility.
func (e *InvalidResourceLocationError) Unwrap() error { return ErrInvalidResourceLocation }

// Split divides s at its first ':' into namespace and key. Without a
// separator the namespace is DefaultNamespace. Either part may be empty.
func Split(s string) Location {
	ns, key, found := strings.Cut(s, separator)
	if !found {
		return Location{Namespace: DefaultNamespace, Key: s}
	}
	return Location{Namespace: ns, Key: key}
}

// Parse is Split for names that must have both a namespace and a key, such
// as base items.
func Parse(s string) (Location, error) {
	loc := Split(s)
	switch {
	case loc.Namespace == "":
		return Location{}, &InvalidResourceLocationError{Value: s, Reason: "empty namespace"}
	case loc.Key == "":
		return Location{}, &InvalidResourceLocationError{Value: s, Reason: "empty key"}
	}
	return loc, nil
}

// String returns the fully qualified "namespace:key" form.
func (l Location) String() string {
	return l.Namespace + separator + l.Key
}

// ModelPath returns the model document path, assets/<ns>/models/<key>.json.
// The path is cleaned, so a key with ".." elements may point outside the
// models folder; callers check the result with fs.ValidPath.
func (l Location) ModelPath() string {
	return l.assetPath(ModelsRoot)
}

// ItemModelPath returns the item model document path,
// assets/<ns>/models/item/<key>.json.
func (l Location) ItemModelPath() string {
	return l.assetPath(ModelsRoot + "/" + ItemFolder)
}

func (l Location) assetPath(root string) string {
	return path.Clean("assets/" + l.Namespace + "/" + root + "/" + l.Key + JSONExt)
}
