// Package sscc computes GS1 SSCC codes for carton labels.
package sscc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	extensionDigit = "0"
	// Facility serial-reference prefix used on every carton.
	serialPrefix = "62229"
	baseLength   = 17
)

var ErrInvalidUPC = errors.New("upc code must be exactly 12 digits")

// Label is one generated SSCC code plus its print form.
type Label struct {
	Code    string `json:"sscc_code"`
	Display string `json:"sscc_display"`
}

// Generate builds the SSCC code for one carton. lineIndex is the 1-based
// position of the item within the order, sequenceNumber the 1-based carton
// count. The returned code keeps the historical "0000" prefix ahead of the
// 17-digit base and check digit; downstream barcode rendering depends on that
// exact 22-character literal.
func Generate(upcCode string, lineIndex int, sequenceNumber int) (Label, error) {
	if len(upcCode) != 12 {
		return Label{}, fmt.Errorf("%w: got %d digits", ErrInvalidUPC, len(upcCode))
	}
	gs1Prefix := upcCode[:9]

	serialRef := serialPrefix + zeroPad(lineIndex, 2) + zeroPad(sequenceNumber, 1)

	base := extensionDigit + gs1Prefix + serialRef
	if len(base) > baseLength {
		base = base[len(base)-baseLength:]
	} else if len(base) < baseLength {
		base = strings.Repeat("0", baseLength-len(base)) + base
	}

	check, err := CheckDigit(base)
	if err != nil {
		return Label{}, err
	}

	code := "0000" + base + fmt.Sprintf("%d", check)
	return Label{
		Code:    code,
		Display: fmt.Sprintf("(00) %s&nbsp;%s", code[2:12], code[12:]),
	}, nil
}

// CheckDigit computes the GS1 mod-10 check digit over a 17-digit base,
// weighting digits alternately 3 and 1 starting from index 0.
func CheckDigit(base string) (int, error) {
	if len(base) != baseLength {
		return 0, fmt.Errorf("check digit needs a %d-digit base, got %d", baseLength, len(base))
	}
	sum := 0
	for i, r := range base {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("base contains non-digit %q at position %d", r, i)
		}
		multiplier := 3
		if i%2 == 1 {
			multiplier = 1
		}
		sum += int(r-'0') * multiplier
	}
	return int(math.Ceil(float64(sum)/10))*10 - sum, nil
}

// CartonIndex returns the 1-based carton slot for the Nth label (0-based).
func CartonIndex(labelCount int, totalCartons int) int {
	if totalCartons < 1 {
		totalCartons = 1
	}
	return (labelCount % totalCartons) + 1
}

func zeroPad(value int, width int) string {
	return fmt.Sprintf("%0*d", width, value)
}
