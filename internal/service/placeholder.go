package service

import (
	"encoding/base64"
	"fmt"

	"github.com/spec-kit/tryon-service/internal/tryon"
)

// compositePlaceholder renders a stand-in result when the provider cannot
// produce one: the person photo with the garment overlaid in a corner card,
// returned as an SVG data URI so it stores and displays like a real result.
func compositePlaceholder(model, garment tryon.ImageUpload) string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="600" height="800" viewBox="0 0 600 800">
  <rect width="600" height="800" fill="#f4f4f5"/>
  <image x="0" y="0" width="600" height="800" preserveAspectRatio="xMidYMid slice" xlink:href="%s"/>
  <rect x="380" y="560" width="200" height="220" rx="12" fill="#ffffff" fill-opacity="0.92"/>
  <image x="390" y="570" width="180" height="180" preserveAspectRatio="xMidYMid meet" xlink:href="%s"/>
  <text x="480" y="772" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="#52525b">Preview</text>
</svg>`, imageDataURI(model), imageDataURI(garment))

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
