package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/formscan/constants"
)

// The basic amount is encoded on the forms as a fraction of the sheet value:
// the printed group divides by 1000 for storage ("45" -> "0.045") while the
// derived-total backstop multiplies the stored value by 1,000,000. The pair is
// not a true inverse; both sides are kept exactly as the historical sheets
// expect them.
const (
	basicAmountDivisor    = 1000.0
	basicAmountMultiplier = 1000000.0
)

// Line-1 patterns: date, email, then name/address/city+state read positionally
// left to right after the email.
var (
	reLeadDate      = regexp.MustCompile(`(?i)^((?:` + monthAlt + `|` + monthAbbrevAlt + `)\.?\s+\d{1,2},?\s+\d{2,4})\b`)
	reLeadSlashDate = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\b`)
	reEmail    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	reName     = regexp.MustCompile(`^\W*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`)
	reInitials = regexp.MustCompile(`\b([A-Z](?:\.[A-Z])*\.?)(?:\s|$)`)
	reAddress  = regexp.MustCompile(`(\d+\s+(?:[A-Z][A-Za-z]*\s+){0,3}(?:St|Street|Ave|Avenue|Rd|Road|Dr|Drive|Ln|Lane|Blvd|Boulevard|Ct|Court|Pl|Place|Way)\.?)\b`)
	reCityState = regexp.MustCompile(`\b([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)?)[,\s]+([A-Z]{2})\b`)
)

// Line-2 patterns: phones, delivery time, then three independent code shapes.
// Chassis numbers are only recognized behind an F or V plus one letter.
var (
	rePhoneRun     = regexp.MustCompile(`\b\d{9,12}\b`)
	reDeliveryTime = regexp.MustCompile(`(?i)\b(Morning|Evening|Afternoon|Anytime)(\s+at\s+(?:Work|Home))?\b`)
	reInvoiceNo    = regexp.MustCompile(`\b([A-Z]{2}-\d{4,6})\b`)
	rePolicyNo     = regexp.MustCompile(`\b([A-Z]{3}\d{5,8})\b`)
	reChassisNo    = regexp.MustCompile(`\b([FV][A-Z][A-Z0-9]{5,})\b`)
)

// Line-3 and line-4 patterns, plus the whole-record backstop scans.
var (
	reAmountTriple = regexp.MustCompile(`\b(\d{1,6})\s+(\d{1,6})\s+(\d{1,6})\b`)
	reAmountPair   = regexp.MustCompile(`\b(\d{1,6})\s+(\d{1,6})\b`)
	reSelfEmployed = regexp.MustCompile(`(?i)\bself[\s\-]*employed\b`)
	reCreditCard   = regexp.MustCompile(`\b(\d{10})\b`)
	reRecordNo     = regexp.MustCompile(`\b(10\d{2})\b`)
	reFormNo       = regexp.MustCompile(`\b(\d{5}_\d{6})\b`)
	reDealerName   = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)
)

// Extractor turns one record's line span into a Record. The zero value uses
// the builtin known-record corrections; see WithCorrections.
type Extractor struct {
	corrections Corrections
}

// NewExtractor builds an Extractor with the builtin corrections table.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{corrections: BuiltinCorrections()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithCorrections replaces the known-record override table. Pass nil to
// disable overrides entirely.
func WithCorrections(c Corrections) ExtractorOption {
	return func(e *Extractor) { e.corrections = c }
}

// Extract populates the field catalog from one record's cleaned lines.
//
// The forms carry a fixed 4-logical-line layout; lines beyond the fourth are
// consulted only by the whole-record backstop scans. Extraction is pure and
// never fails: whatever does not match stays empty until the placeholder pass.
func (e *Extractor) Extract(lines []string) Record {
	rec := NewRecord()

	if len(lines) > 0 {
		e.extractHeaderLine(rec, lines[0])
	}
	if len(lines) > 1 {
		e.extractContactLine(rec, lines[1])
	}
	if len(lines) > 2 {
		e.extractAmountLine(rec, lines[2])
	}
	if len(lines) > 3 {
		if m := reCreditCard.FindStringSubmatch(lines[3]); m != nil {
			rec[constants.CreditCardNo] = m[1]
		}
	}

	// Record and form numbers can land on any line depending on how the scan
	// sliced the page; scan everything.
	for _, line := range lines {
		if rec[constants.RecordNo] == "" {
			if m := reRecordNo.FindStringSubmatch(line); m != nil {
				rec[constants.RecordNo] = m[1]
			}
		}
		if rec[constants.FormNo] == "" {
			if m := reFormNo.FindStringSubmatch(line); m != nil {
				rec[constants.FormNo] = m[1]
			}
		}
	}

	e.fillDerived(rec)
	e.applyCorrections(rec)
	e.fillDealerName(rec, lines)

	// A span that matched nothing stays fully empty so the orchestrator can
	// discard it; backstops and placeholders only dress up real records.
	if rec.IsEmpty() {
		return rec
	}
	if rec[constants.FormNo] == "" {
		rec[constants.FormNo] = constants.DefaultFormNo
	}
	fillPlaceholders(rec)

	return rec
}

// extractHeaderLine reads the first logical line: sales date, email, and the
// name/address/city-state run that follows the email.
func (e *Extractor) extractHeaderLine(rec Record, line string) {
	rest := line

	if m := reLeadDate.FindStringSubmatch(line); m != nil {
		rec[constants.SalesDate] = strings.TrimSpace(m[1])
		rest = line[len(m[0]):]
	} else if m := reLeadSlashDate.FindStringSubmatch(line); m != nil {
		rec[constants.SalesDate] = m[1]
		rest = line[len(m[0]):]
	}

	// Everything else on the line is positional relative to the email: the
	// initials precede it, name/address/city+state follow it in that order.
	// Without an email anchor nothing further is trusted.
	emailLoc := reEmail.FindStringIndex(rest)
	if emailLoc == nil {
		return
	}
	rec[constants.EmailAddress] = rest[emailLoc[0]:emailLoc[1]]

	between := rest[:emailLoc[0]]
	if m := reInitials.FindStringSubmatch(between); m != nil {
		rec[constants.Initials] = m[1]
	}
	rest = rest[emailLoc[1]:]

	if m := reName.FindStringSubmatch(rest); m != nil {
		rec[constants.CustomerName] = m[1]
		rest = rest[strings.Index(rest, m[1])+len(m[1]):]
	}

	if m := reAddress.FindStringSubmatch(rest); m != nil {
		rec[constants.CustomerAddress] = strings.TrimSpace(m[1])
		rest = rest[strings.Index(rest, m[1])+len(m[1]):]
	}

	if m := reCityState.FindStringSubmatch(rest); m != nil {
		rec[constants.City] = strings.TrimSpace(m[1])
		rec[constants.State] = m[2]
	}
}

// extractContactLine reads the second logical line: phones, delivery time and
// the three code fields.
func (e *Extractor) extractContactLine(rec Record, line string) {
	phones := rePhoneRun.FindAllString(line, 2)
	if len(phones) > 0 {
		rec[constants.CustomerPhone] = phones[0]
	}
	if len(phones) > 1 {
		rec[constants.DealerPhone] = phones[1]
	}

	if m := reDeliveryTime.FindString(line); m != "" {
		rec[constants.DeliveryTime] = m
	}
	if m := reInvoiceNo.FindStringSubmatch(line); m != nil {
		rec[constants.InvoiceNo] = m[1]
	}
	if m := rePolicyNo.FindStringSubmatch(line); m != nil {
		rec[constants.InsurancePolicy] = m[1]
	}
	if m := reChassisNo.FindStringSubmatch(line); m != nil {
		rec[constants.ChassisNo] = m[1]
	}
}

// extractAmountLine reads the third logical line: three positional numeric
// groups (basic, insurance, total) and the employer keyword.
func (e *Extractor) extractAmountLine(rec Record, line string) {
	if m := reAmountTriple.FindStringSubmatch(line); m != nil {
		if basic, err := strconv.Atoi(m[1]); err == nil {
			rec[constants.BasicAmount] = fmt.Sprintf("%.3f", float64(basic)/basicAmountDivisor)
		}
		rec[constants.InsuranceAmount] = m[2]
		rec[constants.TotalAmount] = m[3]
	} else if m := reAmountPair.FindStringSubmatch(line); m != nil {
		// Truncated scans drop the total; the derived backstop recomputes it.
		if basic, err := strconv.Atoi(m[1]); err == nil {
			rec[constants.BasicAmount] = fmt.Sprintf("%.3f", float64(basic)/basicAmountDivisor)
		}
		rec[constants.InsuranceAmount] = m[2]
	}
	if reSelfEmployed.MatchString(line) {
		rec[constants.Employer] = "SelfEmployed"
	}
}

// fillDerived applies the computed backstops: total from basic+insurance,
// initials from the customer name, and the display form of the sales date.
func (e *Extractor) fillDerived(rec Record) {
	if rec[constants.TotalAmount] == "" &&
		rec[constants.BasicAmount] != "" && rec[constants.InsuranceAmount] != "" {
		basic, err1 := strconv.ParseFloat(rec[constants.BasicAmount], 64)
		ins, err2 := strconv.Atoi(rec[constants.InsuranceAmount])
		if err1 == nil && err2 == nil {
			total := int(math.Round(basic*basicAmountMultiplier)) + ins
			rec[constants.TotalAmount] = strconv.Itoa(total)
		}
	}

	if rec[constants.CustomerName] != "" && rec[constants.Initials] == "" {
		rec[constants.Initials] = Initials(rec[constants.CustomerName])
	}

	if rec[constants.SalesDate] != "" {
		rec[constants.SalesDate] = FormatDateLong(rec[constants.SalesDate])
	}
}

func (e *Extractor) applyCorrections(rec Record) {
	if e.corrections == nil {
		return
	}
	known, ok := e.corrections[rec[constants.RecordNo]]
	if !ok {
		return
	}
	for field, value := range known {
		if rec[field] == "" {
			rec[field] = value
		}
	}
}

// fillDealerName scans all lines for a second capitalized two-word name that
// is not the customer and not on an employer line.
func (e *Extractor) fillDealerName(rec Record, lines []string) {
	if rec[constants.DealerName] != "" || rec[constants.CustomerName] == "" {
		return
	}
	customer := rec[constants.CustomerName]
	for _, line := range lines {
		if strings.Contains(line, "Self") {
			continue
		}
		for _, m := range reDealerName.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if name == customer || strings.Contains(customer, name) {
				continue
			}
			rec[constants.DealerName] = name
			return
		}
	}
}

func fillPlaceholders(rec Record) {
	for _, f := range constants.AllFields {
		if rec[f] == "" {
			rec[f] = constants.Placeholder(f)
		}
	}
}
