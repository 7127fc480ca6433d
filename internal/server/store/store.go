// Package store persists assets for the reference asset server
package store

import (
	"context"
	"errors"
	"fmt"

	"asset-inventory/internal/models"
)

var (
	// ErrNotFound is returned when no asset has the requested id
	ErrNotFound = errors.New("asset not found")
	// ErrDuplicateSerial is matched by DuplicateSerialError
	ErrDuplicateSerial = errors.New("duplicate serial number")
)

// DuplicateSerialError reports a serial number already held by another asset
type DuplicateSerialError struct {
	SerialNo string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("Asset with serialNo '%s' already exists!", e.SerialNo)
}

// Is lets errors.Is match ErrDuplicateSerial
func (e *DuplicateSerialError) Is(target error) bool {
	return target == ErrDuplicateSerial
}

// Store is the asset persistence used by the server. Serial numbers are
// unique across the store. IDs are assigned by the store on Create.
type Store interface {
	List(ctx context.Context) ([]models.Asset, error)
	// Page returns the 0-based page of the insertion ordered listing and the total count
	Page(ctx context.Context, page, size int) ([]models.Asset, int, error)
	Get(ctx context.Context, id string) (models.Asset, error)
	Create(ctx context.Context, draft models.Asset) (models.Asset, error)
	// Update replaces name, serial number and date. An empty category keeps
	// the stored one.
	Update(ctx context.Context, id string, draft models.Asset) (models.Asset, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
