// Package storage keeps uploaded entry images on the local disk or in an
// S3-compatible bucket.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rof/invgen/internal/core/domain"
)

var errBadName = domain.Validation("Invalid file name")

// checkName rejects names that could escape the storage root.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", errBadName, name)
	}
	return nil
}
