package mediaset

import (
	"fmt"
	"strings"
	"time"

	"mediashelf/internal/services"
)

// DateLayout is the ISO calendar date that opens every set name.
const DateLayout = "2006-01-02"

// Name is a parsed media set name of the form "yyyy-MM-dd Title".
type Name struct {
	Date  time.Time
	Title string
}

// ParseName parses "yyyy-MM-dd Title". The first ten characters must be a
// valid date, the eleventh a single space and the remainder a non-empty title.
func ParseName(value string) (Name, error) {
	if len(value) < len(DateLayout)+2 {
		return Name{}, invalidName(value, "too short")
	}
	date, err := time.Parse(DateLayout, value[:len(DateLayout)])
	if err != nil {
		return Name{}, invalidName(value, "invalid date")
	}
	if value[len(DateLayout)] != ' ' {
		return Name{}, invalidName(value, "missing space after date")
	}
	title := value[len(DateLayout)+1:]
	if strings.TrimSpace(title) == "" {
		return Name{}, invalidName(value, "empty title")
	}
	return Name{Date: date, Title: title}, nil
}

func invalidName(value, reason string) error {
	return services.Wrap(services.ErrValidation, "mediaset", "parse name", fmt.Sprintf("%q: %s", value, reason), nil)
}

// String serializes the name back to "yyyy-MM-dd Title".
func (n Name) String() string {
	return n.Date.Format(DateLayout) + " " + n.Title
}

// Year returns the four-digit recording year.
func (n Name) Year() string {
	return n.Date.Format("2006")
}

// IsZero reports whether the name was never set.
func (n Name) IsZero() bool {
	return n.Date.IsZero() && n.Title == ""
}

// StripDatePrefix removes a leading "yyyy-MM-dd " from value when present.
func StripDatePrefix(value string) string {
	if len(value) <= len(DateLayout)+1 || value[len(DateLayout)] != ' ' {
		return value
	}
	if _, err := time.Parse(DateLayout, value[:len(DateLayout)]); err != nil {
		return value
	}
	return value[len(DateLayout)+1:]
}
