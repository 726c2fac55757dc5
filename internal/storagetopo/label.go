package storagetopo

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

const labelPixels = 256

// RackLabelPayload is the string encoded into a rack's printed QR label.
// Scanners resolve the rack by id; the path suffix is for humans reading the
// raw code.
func RackLabelPayload(rack *models.Rack) string {
	parts := []string{}
	if rack.Shelf != nil {
		if rack.Shelf.Zone != nil {
			if rack.Shelf.Zone.Warehouse != nil {
				parts = append(parts, rack.Shelf.Zone.Warehouse.Code)
			}
			parts = append(parts, rack.Shelf.Zone.Code)
		}
		parts = append(parts, rack.Shelf.Code)
	}
	parts = append(parts, rack.Code)
	return fmt.Sprintf("arc:rack:%s:%s", rack.ID, strings.Join(parts, "/"))
}

// GenerateRackLabel renders the rack's QR label as a PNG.
func GenerateRackLabel(rack *models.Rack) ([]byte, error) {
	if rack == nil {
		return nil, fmt.Errorf("rack is required")
	}
	png, err := qrcode.Encode(RackLabelPayload(rack), qrcode.Medium, labelPixels)
	if err != nil {
		return nil, fmt.Errorf("encoding rack label: %w", err)
	}
	return png, nil
}
