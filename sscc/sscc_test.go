package sscc

import (
	"errors"
	"testing"
)

func TestGenerate_GoldenCode(t *testing.T) {
	label, err := Generate("841234567890", 1, 1)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if label.Code != "0000841234567622290119" {
		t.Fatalf("unexpected code: %s", label.Code)
	}
	if label.Display != "(00) 0084123456&nbsp;7622290119" {
		t.Fatalf("unexpected display: %s", label.Display)
	}
	if len(label.Code) != 22 {
		t.Fatalf("code must stay 22 characters, got %d", len(label.Code))
	}
}

func TestGenerate_CheckDigitRoundTrip(t *testing.T) {
	upcs := []string{"841234567890", "036000291452", "012345678905", "999999999999"}
	for _, upc := range upcs {
		for line := 1; line <= 12; line++ {
			for seq := 1; seq <= 9; seq++ {
				label, err := Generate(upc, line, seq)
				if err != nil {
					t.Fatalf("Generate(%s,%d,%d): %v", upc, line, seq, err)
				}
				base := label.Code[4:21]
				check, err := CheckDigit(base)
				if err != nil {
					t.Fatalf("CheckDigit(%s): %v", base, err)
				}
				embedded := int(label.Code[21] - '0')
				if check != embedded {
					t.Fatalf("check digit mismatch for %s: recomputed %d, embedded %d", label.Code, check, embedded)
				}
			}
		}
	}
}

func TestGenerate_RejectsBadUPCLength(t *testing.T) {
	for _, upc := range []string{"", "84123456789", "8412345678901"} {
		if _, err := Generate(upc, 1, 1); !errors.Is(err, ErrInvalidUPC) {
			t.Fatalf("expected ErrInvalidUPC for %q, got %v", upc, err)
		}
	}
}

func TestGenerate_OverflowTruncatesToLastSeventeen(t *testing.T) {
	// Line 100 overflows its 2-digit slot; the base keeps the last 17 digits.
	label, err := Generate("841234567890", 100, 1)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	base := label.Code[4:21]
	if len(base) != 17 {
		t.Fatalf("base must be 17 digits, got %d", len(base))
	}
	check, err := CheckDigit(base)
	if err != nil {
		t.Fatalf("CheckDigit: %v", err)
	}
	if int(label.Code[21]-'0') != check {
		t.Fatalf("truncated base must still carry a valid check digit: %s", label.Code)
	}
}

func TestCartonIndex_StaysInRange(t *testing.T) {
	for totalCartons := 1; totalCartons <= 7; totalCartons++ {
		for labelCount := 0; labelCount < 20; labelCount++ {
			idx := CartonIndex(labelCount, totalCartons)
			if idx < 1 || idx > totalCartons {
				t.Fatalf("CartonIndex(%d,%d)=%d out of range", labelCount, totalCartons, idx)
			}
		}
	}
	if CartonIndex(0, 3) != 1 || CartonIndex(2, 3) != 3 || CartonIndex(3, 3) != 1 {
		t.Fatal("carton index sequence must wrap 1..totalCartons")
	}
}
