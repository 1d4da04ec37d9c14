package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// UnknownLabel is shown for codes outside a closed enumeration.
const UnknownLabel = "Unknown"

// Category groups catalog products.
type Category int

const (
	CategoryIoTModules Category = iota
	CategoryPowerSolutions
	CategorySmartDevices
	CategoryConnectivity
	CategoryAutomotive
)

var categoryLabels = map[Category]string{
	CategoryIoTModules:     "IoT Modules",
	CategoryPowerSolutions: "Power Solutions",
	CategorySmartDevices:   "Smart Devices",
	CategoryConnectivity:   "Connectivity",
	CategoryAutomotive:     "Automotive",
}

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryIoTModules,
		CategoryPowerSolutions,
		CategorySmartDevices,
		CategoryConnectivity,
		CategoryAutomotive,
	}
}

// Label returns the display name or UnknownLabel.
func (c Category) Label() string { return labelOf(categoryLabels, c) }

// Known reports whether the code belongs to the enumeration.
func (c Category) Known() bool { _, ok := categoryLabels[c]; return ok }

// UnmarshalJSON accepts numeric codes and numeric strings.
func (c *Category) UnmarshalJSON(data []byte) error {
	*c = Category(decodeCode(data))
	return nil
}

// ContactType classifies a contact submission.
type ContactType int

const (
	ContactTypeGeneral ContactType = iota
	ContactTypeTechnical
	ContactTypeSales
	ContactTypePartnership
	ContactTypeMedia
)

var contactTypeLabels = map[ContactType]string{
	ContactTypeGeneral:     "General",
	ContactTypeTechnical:   "Technical",
	ContactTypeSales:       "Sales",
	ContactTypePartnership: "Partnership",
	ContactTypeMedia:       "Media",
}

// ContactTypes lists the known contact types in display order.
func ContactTypes() []ContactType {
	return []ContactType{
		ContactTypeGeneral,
		ContactTypeTechnical,
		ContactTypeSales,
		ContactTypePartnership,
		ContactTypeMedia,
	}
}

// Label returns the display name or UnknownLabel.
func (t ContactType) Label() string { return labelOf(contactTypeLabels, t) }

// Known reports whether the code belongs to the enumeration.
func (t ContactType) Known() bool { _, ok := contactTypeLabels[t]; return ok }

// UnmarshalJSON accepts numeric codes and numeric strings.
func (t *ContactType) UnmarshalJSON(data []byte) error {
	*t = ContactType(decodeCode(data))
	return nil
}

// ContactStatus tracks how far a submission has been handled.
type ContactStatus int

const (
	ContactStatusNew ContactStatus = iota
	ContactStatusInProgress
	ContactStatusResolved
	ContactStatusClosed
)

var contactStatusLabels = map[ContactStatus]string{
	ContactStatusNew:        "New",
	ContactStatusInProgress: "In Progress",
	ContactStatusResolved:   "Resolved",
	ContactStatusClosed:     "Closed",
}

var contactStatusClasses = map[ContactStatus]string{
	ContactStatusNew:        "new",
	ContactStatusInProgress: "active",
	ContactStatusResolved:   "active",
	ContactStatusClosed:     "inactive",
}

// Label returns the display name or UnknownLabel.
func (s ContactStatus) Label() string { return labelOf(contactStatusLabels, s) }

// Class returns the badge modifier class, empty for unknown codes.
func (s ContactStatus) Class() string { return contactStatusClasses[s] }

// UnmarshalJSON accepts numeric codes and numeric strings.
func (s *ContactStatus) UnmarshalJSON(data []byte) error {
	*s = ContactStatus(decodeCode(data))
	return nil
}

// MediaType distinguishes media library entries.
type MediaType int

const (
	MediaTypeVideo MediaType = iota
	MediaTypeImage
	MediaTypeDocument
)

var mediaTypeLabels = map[MediaType]string{
	MediaTypeVideo:    "Video",
	MediaTypeImage:    "Image",
	MediaTypeDocument: "Document",
}

// MediaTypes lists the known media types in display order.
func MediaTypes() []MediaType {
	return []MediaType{MediaTypeVideo, MediaTypeImage, MediaTypeDocument}
}

// Label returns the display name or UnknownLabel.
func (m MediaType) Label() string { return labelOf(mediaTypeLabels, m) }

// UnmarshalJSON accepts numeric codes and numeric strings.
func (m *MediaType) UnmarshalJSON(data []byte) error {
	*m = MediaType(decodeCode(data))
	return nil
}

const unknownCode = -1

func labelOf[K comparable](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return UnknownLabel
}

// decodeCode maps JSON numbers and numeric strings to a code. Anything else,
// null included, becomes unknownCode so rendering falls back to UnknownLabel.
func decodeCode(data []byte) int {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return unknownCode
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return unknownCode
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return unknownCode
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return unknownCode
		}
		return n
	default:
		return unknownCode
	}
}
