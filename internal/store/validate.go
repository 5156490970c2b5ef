package store

import (
	"strings"

	"github.com/erazemk/binventory/internal/model"
)

// forbiddenLocationChars would break the area/container/bin path form used
// in URLs and breadcrumbs.
var forbiddenLocationChars = []string{"/", "\\", "\x00"}

// validateLocation returns a ValidationError listing every forbidden
// character found in value.
func validateLocation(field, value string) error {
	var found []string
	for _, c := range forbiddenLocationChars {
		if strings.Contains(value, c) {
			found = append(found, printable(c))
		}
	}
	if len(found) > 0 {
		return &ValidationError{Field: field, Message: "contains forbidden characters", Chars: found}
	}
	return nil
}

func printable(c string) string {
	if c == "\x00" {
		return `\0`
	}
	return c
}

// normalizeInput trims text fields, applies defaults, and validates.
func normalizeInput(in *model.ItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Area = strings.TrimSpace(in.Area)
	in.Container = strings.TrimSpace(in.Container)
	in.Bin = strings.TrimSpace(in.Bin)
	in.URL = strings.TrimSpace(in.URL)

	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if in.Quantity == nil {
		one := 1
		in.Quantity = &one
	}
	if err := validateLocations(in.Area, in.Container, in.Bin); err != nil {
		return err
	}
	if err := validateHierarchy(in.Area, in.Container, in.Bin); err != nil {
		return err
	}
	in.Tags = normalizeTags(in.Tags)
	return nil
}

// normalizePatch trims the fields present in p and validates them.
func normalizePatch(p *model.ItemPatch) error {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(p.Name)
	trim(p.Area)
	trim(p.Container)
	trim(p.Bin)
	trim(p.URL)

	if p.Name != nil && *p.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if err := validateLocations(deref(p.Area), deref(p.Container), deref(p.Bin)); err != nil {
		return err
	}
	if p.Tags != nil {
		p.Tags = normalizeTags(p.Tags)
	}
	return nil
}

func validateLocations(area, container, bin string) error {
	if err := validateLocation("area", area); err != nil {
		return err
	}
	if err := validateLocation("container", container); err != nil {
		return err
	}
	return validateLocation("bin", bin)
}

// validateHierarchy requires every location level to sit inside its parent:
// a container needs an area and a bin needs a container.
func validateHierarchy(area, container, bin string) error {
	if container != "" && area == "" {
		return &ValidationError{Field: "area", Message: "required when container is set"}
	}
	if bin != "" && container == "" {
		return &ValidationError{Field: "container", Message: "required when bin is set"}
	}
	return nil
}

// normalizeTags trims tags, drops empty ones and removes duplicates while
// keeping the first occurrence order. The result is never nil.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
