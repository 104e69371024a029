package bankxledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arhyth/bankxledger"
)

func TestParseAmount(t *testing.T) {
	as := assert.New(t)
	for in, want := range map[string]string{
		"1000":        "1000",
		"1,234.50":    "1234.5",
		"$ 99":        "99",
		"500 ₽":       "500",
		" 0.01 ":      "0.01",
		"-20":         "-20",
		"1,000,000.1": "1000000.1",
	} {
		got, err := bankxledger.ParseAmount(in)
		if as.NoError(err, in) {
			as.True(got.Equal(dec(want)), "%q parsed as %s", in, got)
		}
	}

	for _, in := range []string{"", "  ", "abc", "1.2.3", "₽"} {
		_, err := bankxledger.ParseAmount(in)
		as.ErrorAs(err, &bankxledger.ErrBadRequest{}, in)
	}
}

func TestFormatAmount(t *testing.T) {
	as := assert.New(t)
	for in, want := range map[string]string{
		"0":          "0.00",
		"5":          "5.00",
		"999.999":    "1,000.00",
		"1234.5":     "1,234.50",
		"100000":     "100,000.00",
		"1234567.89": "1,234,567.89",
		"-1234.5":    "-1,234.50",
		"0.004":      "0.00",
	} {
		as.Equal(want, bankxledger.FormatAmount(dec(in)), in)
	}
}
