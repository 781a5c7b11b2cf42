package value

import (
	"regexp"
	"strconv"
	"strings"

	"dealradar/internal/domain"
	"dealradar/pkg/errcodes"
)

var numberPattern = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// ParsePrice coerces price representations such as "$210" or "$1,299.99"
// into a float. Currency symbols, thousands separators and surrounding
// whitespace are stripped first; anything left must parse as a number.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if cleaned == "" {
		return 0, domain.NewError(errcodes.InvalidPrice, "price string has no numeric content")
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InvalidPrice, "price string is not a number")
	}

	return price, nil
}

// ExtractPrice pulls the first numeric token out of free-form model output,
// e.g. "Price is $42.50" yields 42.5. A reply without any number is an
// explicit failure, never a zero price.
func ExtractPrice(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)

	match := numberPattern.FindString(cleaned)
	if match == "" {
		return 0, domain.NewError(errcodes.InvalidPrice, "reply contains no number")
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InvalidPrice, "reply number is not parseable")
	}

	return price, nil
}
