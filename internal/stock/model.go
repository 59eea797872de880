// Package stock implements the peripheral stock sync service: a small
// HTTP API that lets the desktop catalog replace the hosted item list
// wholesale.
package stock

import (
	"fmt"
	"strings"
	"time"
)

// Brand identifies the catalog an item belongs to.
type Brand string

const (
	BrandRE    Brand = "RE"
	BrandAxxis Brand = "AXXIS"
)

// IsValid checks if the brand is one of the known catalogs.
func (b Brand) IsValid() bool {
	return b == BrandRE || b == BrandAxxis
}

// Item is one catalog entry.
type Item struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	MRP            float64   `json:"mrp"`
	Size           string    `json:"size,omitempty"`
	Stock          int       `json:"stock"`
	Image          string    `json:"image,omitempty"`
	OriginalDesc   string    `json:"originalDesc,omitempty"`
	OriginalPartNo string    `json:"originalPartNo,omitempty"`
	Brand          Brand     `json:"brand"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// Normalize fills defaults in place. Unknown brands fall back to RE, the
// primary catalog.
func (i *Item) Normalize() {
	i.Brand = Brand(strings.ToUpper(strings.TrimSpace(string(i.Brand))))
	if !i.Brand.IsValid() {
		i.Brand = BrandRE
	}
}

// Validate checks the fields a sync payload must carry.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if strings.TrimSpace(i.Code) == "" {
		return fmt.Errorf("item code cannot be empty")
	}
	if i.Stock < 0 {
		return fmt.Errorf("item stock cannot be negative: %d", i.Stock)
	}
	return nil
}
