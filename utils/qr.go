package utils

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// qrRendererBase is the external QR image renderer. Rendering is pure URL
// construction; nothing in the core depends on the image itself.
const qrRendererBase = "https://api.qrserver.com/v1/create-qr-code/"

// VendorQRPayload returns the deterministic QR target string for a vendor.
// Customers scanning this payload are routed to the check-in flow.
func VendorQRPayload(vendorID uuid.UUID) string {
	return fmt.Sprintf("loyaltyhub://vendor/%s", vendorID)
}

// QRImageURL renders a payload into a printable QR image URL.
func QRImageURL(payload string) string {
	return fmt.Sprintf("%s?size=400x400&data=%s&color=000000&bgcolor=ffffff&margin=10",
		qrRendererBase, url.QueryEscape(payload))
}

// VendorLogoURL returns a deterministic placeholder logo seeded by the vendor
// name, matching what merchants see before uploading real branding.
func VendorLogoURL(name string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200", url.PathEscape(name))
}
