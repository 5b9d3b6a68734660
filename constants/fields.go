package constants

// FieldName identifies one extractable field on a scanned form.
type FieldName string

const (
	FormNo           FieldName = "FORM NO"
	RecordNo         FieldName = "RECORD NO"
	SalesDate        FieldName = "SALES DATE"
	CustomerName     FieldName = "CUSTOMER NAME"
	Initials         FieldName = "INITIALS"
	EmailAddress     FieldName = "E-MAIL ADDRESS"
	DealerName       FieldName = "DEALER NAME"
	CustomerAddress  FieldName = "CUSTOMER ADDRESS"
	City             FieldName = "CITY"
	State            FieldName = "STATE"
	CustomerPhone    FieldName = "CUSTOMER PHONE"
	DealerPhone      FieldName = "DEALER PHONE"
	DeliveryTime     FieldName = "DELIVERY TIME"
	InvoiceNo        FieldName = "INVOICE NO"
	InsurancePolicy  FieldName = "INSURANCE POLICY NO"
	ChassisNo        FieldName = "CHASSIS NO"
	BasicAmount      FieldName = "BASIC AMOUNT"
	InsuranceAmount  FieldName = "INSURANCE AMOUNT"
	TotalAmount      FieldName = "TOTAL AMOUNT"
	Discount         FieldName = "DISCOUNT"
	NetAmount        FieldName = "NET AMOUNT"
	Employer         FieldName = "EMPLOYER"
	CreditCardNo     FieldName = "CREDIT CARD NO"
	Remark           FieldName = "REMARK"
)

// AllFields is the display/export order of the catalog. The UI and the XLSX
// exporter iterate this slice directly; do not reorder.
var AllFields = []FieldName{
	FormNo,
	RecordNo,
	SalesDate,
	CustomerName,
	Initials,
	EmailAddress,
	DealerName,
	CustomerAddress,
	City,
	State,
	CustomerPhone,
	DealerPhone,
	DeliveryTime,
	InvoiceNo,
	InsurancePolicy,
	ChassisNo,
	BasicAmount,
	InsuranceAmount,
	TotalAmount,
	Discount,
	NetAmount,
	Employer,
	CreditCardNo,
	Remark,
}

// FieldNames returns the catalog as plain strings, in order.
func FieldNames() []string {
	result := make([]string, len(AllFields))
	for i, f := range AllFields {
		result[i] = string(f)
	}
	return result
}

// placeholders are the defaults substituted when extraction finds nothing.
// Only this subset gets a placeholder; every other field stays empty.
var placeholders = map[FieldName]string{
	BasicAmount:     "0.000",
	InsuranceAmount: "0",
	TotalAmount:     "0",
	Discount:        "0",
	NetAmount:       "0",
	Employer:        "SelfEmployed",
	DeliveryTime:    "Anytime",
}

// Placeholder returns the fallback value for f, or "" if f has none.
func Placeholder(f FieldName) string {
	return placeholders[f]
}

// DefaultFormNo is the last-resort form number when no NNNNN_NNNNNN token
// appears anywhere in a record's lines.
const DefaultFormNo = "10001_000001"
