package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/formscan/constants"
)

func TestExtractFullRecord(t *testing.T) {
	lines := []string{
		"June 4 2007 caldwell.jesse@zmail.com Caldwell Jesse",
		"7175550418 9255550111 Morning at Home HM-2041 APL1204987 FA29X4401 52361_204715",
		"45 4500 49500",
		"Harper Motors 4257780110",
	}

	rec := NewExtractor().Extract(lines)

	assert.Equal(t, "June 4, 2007", rec[constants.SalesDate])
	assert.Equal(t, "caldwell.jesse@zmail.com", rec[constants.EmailAddress])
	assert.Equal(t, "Caldwell Jesse", rec[constants.CustomerName])
	assert.Equal(t, "C.J.", rec[constants.Initials], "initials derived from customer name")
	assert.Equal(t, "7175550418", rec[constants.CustomerPhone])
	assert.Equal(t, "9255550111", rec[constants.DealerPhone])
	assert.Equal(t, "Morning at Home", rec[constants.DeliveryTime])
	assert.Equal(t, "HM-2041", rec[constants.InvoiceNo])
	assert.Equal(t, "APL1204987", rec[constants.InsurancePolicy])
	assert.Equal(t, "FA29X4401", rec[constants.ChassisNo])
	assert.Equal(t, "52361_204715", rec[constants.FormNo])
	assert.Equal(t, "0.045", rec[constants.BasicAmount])
	assert.Equal(t, "4500", rec[constants.InsuranceAmount])
	assert.Equal(t, "49500", rec[constants.TotalAmount])
	assert.Equal(t, "4257780110", rec[constants.CreditCardNo])
	assert.Equal(t, "Harper Motors", rec[constants.DealerName], "dealer from all-lines backstop")

	// Untouched fields either carry their placeholder or stay empty.
	assert.Equal(t, "0", rec[constants.Discount])
	assert.Equal(t, "0", rec[constants.NetAmount])
	assert.Equal(t, "SelfEmployed", rec[constants.Employer])
	assert.Equal(t, "", rec[constants.Remark])
}

func TestExtractHeaderLinePositions(t *testing.T) {
	lines := []string{
		"3/12/2008 M.L. mercado.lena@zmail.com Mercado Lena 418 MAPLE Ave Lancaster PA",
	}

	rec := NewExtractor().Extract(lines)

	assert.Equal(t, "March 12, 2008", rec[constants.SalesDate])
	assert.Equal(t, "M.L.", rec[constants.Initials], "explicit initials win over derived ones")
	assert.Equal(t, "mercado.lena@zmail.com", rec[constants.EmailAddress])
	assert.Equal(t, "Mercado Lena", rec[constants.CustomerName])
	assert.Equal(t, "418 MAPLE Ave", rec[constants.CustomerAddress])
	assert.Equal(t, "Lancaster", rec[constants.City])
	assert.Equal(t, "PA", rec[constants.State])
}

func TestExtractAmountScaling(t *testing.T) {
	rec := NewExtractor().Extract([]string{"filler", "filler", "45 4500 49500"})

	assert.Equal(t, "0.045", rec[constants.BasicAmount])
	assert.Equal(t, "4500", rec[constants.InsuranceAmount])
	assert.Equal(t, "49500", rec[constants.TotalAmount])
}

func TestExtractDerivedTotal(t *testing.T) {
	// Only two numeric groups: the total is reconstructed from the scaled
	// basic amount plus insurance.
	rec := NewExtractor().Extract([]string{"filler", "filler", "45 4500"})

	assert.Equal(t, "0.045", rec[constants.BasicAmount])
	assert.Equal(t, "4500", rec[constants.InsuranceAmount])
	assert.Equal(t, "49500", rec[constants.TotalAmount])
}

func TestExtractEmployerKeyword(t *testing.T) {
	rec := NewExtractor().Extract([]string{"filler", "filler", "12 300 5600 Self Employed"})
	assert.Equal(t, "SelfEmployed", rec[constants.Employer])

	rec = NewExtractor().Extract([]string{"filler", "filler", "12 300 5600 self-employed"})
	assert.Equal(t, "SelfEmployed", rec[constants.Employer])
}

func TestExtractKnownRecordOverrides(t *testing.T) {
	rec := NewExtractor().Extract([]string{"RECORD NO: 1047"})

	assert.Equal(t, "1047", rec[constants.RecordNo])
	assert.Equal(t, "Caldwell Jesse", rec[constants.CustomerName])
	assert.Equal(t, "Harper Motors", rec[constants.DealerName])
	assert.Equal(t, "Lancaster", rec[constants.City])
	assert.Equal(t, "PA", rec[constants.State])
}

func TestExtractUnknownRecordNoOverride(t *testing.T) {
	rec := NewExtractor().Extract([]string{"RECORD NO: 1099"})

	assert.Equal(t, "1099", rec[constants.RecordNo])
	assert.Equal(t, "", rec[constants.CustomerName], "overrides are a closed list")
}

func TestExtractCorrectionsDisabled(t *testing.T) {
	rec := NewExtractor(WithCorrections(nil)).Extract([]string{"RECORD NO: 1047"})

	assert.Equal(t, "1047", rec[constants.RecordNo])
	assert.Equal(t, "", rec[constants.CustomerName])
}

func TestExtractEmptySpanStaysEmpty(t *testing.T) {
	rec := NewExtractor().Extract(nil)

	require.Len(t, rec, len(constants.AllFields))
	assert.True(t, rec.IsEmpty())
	for _, f := range constants.AllFields {
		assert.Equal(t, "", rec[f])
	}
}

func TestExtractAlwaysFullKeySet(t *testing.T) {
	inputs := [][]string{
		nil,
		{"garbage ~~ line"},
		{"June 4 2007 a@b.com Some Body", "noise", "1 2 3", "4111111111"},
	}
	for _, lines := range inputs {
		rec := NewExtractor().Extract(lines)
		require.Len(t, rec, len(constants.AllFields))
		for _, f := range constants.AllFields {
			_, ok := rec[f]
			assert.True(t, ok, "missing key %q", f)
		}
	}
}
