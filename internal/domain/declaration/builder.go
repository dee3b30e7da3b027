package declaration

import (
	"encoding/xml"
	"errors"
	"math"
	"strconv"
	"strings"

	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
	"github.com/hirosato/pcc3-assistant/backend/pkg/validator"
)

// Builder turns taxpayer records into PCC-3 documents. It has no hidden
// state, so equal records always produce byte-identical XML.
type Builder struct {
	validator validator.Validator
}

// NewBuilder creates a new document builder
func NewBuilder() *Builder {
	return &Builder{
		validator: validator.New(),
	}
}

// Build validates the record, computes the tax due and assembles the document
func (b *Builder) Build(record TaxpayerRecord) (*Result, error) {
	if err := b.validateRequired(record); err != nil {
		return nil, err
	}

	taxBase, taxRate, err := parseAmounts(string(record.TaxBase), string(record.TaxRate))
	if err != nil {
		return nil, err
	}
	taxDue, ok := ComputeTaxDue(taxBase, taxRate)
	if !ok {
		return nil, commonErrors.NewNumericFormatError([]string{"tax_base", "tax_rate"}).
			WithDetail("reason", "tax due is out of range")
	}

	givenName, surname, err := SplitName(record.Name)
	if err != nil {
		return nil, err
	}

	doc := Document{
		Xmlns: Namespace,
		Header: Header{
			FormCode:    FormCode,
			FormVariant: FormVariant,
			Purpose:     Positioned{Position: "P_6", Value: PurposeFiling},
			Date:        Positioned{Position: "P_4", Value: record.TransactionDate},
		},
		Taxpayer: Taxpayer{
			Role: RoleTaxpayer,
			Person: Person{
				PESEL:       record.PESEL,
				GivenName:   givenName,
				Surname:     surname,
				DateOfBirth: record.DateOfBirth,
			},
			Address: Address{
				Kind: AddressKindHome,
				Domestic: DomesticAddress{
					CountryCode: CountryCodePoland,
					Region:      record.Region,
					City:        record.City,
					Street:      record.Street,
					HouseNumber: record.HouseNumber,
					PostalCode:  record.PostalCode,
				},
			},
		},
		Details: Details{
			Subject:     SubjectContract,
			Location:    LocationPoland,
			Description: record.Description,
			TaxBase:     FormatAmount(taxBase),
			TaxRate:     FormatAmount(taxRate),
			TaxDue:      strconv.FormatInt(taxDue, 10),
		},
		Notice: NoticeAccepted,
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to serialize PCC-3 document", err)
	}

	return &Result{
		Document:  doc,
		XML:       string(out),
		TaxDue:    taxDue,
		GivenName: givenName,
		Surname:   surname,
	}, nil
}

func (b *Builder) validateRequired(record TaxpayerRecord) error {
	err := b.validator.Validate(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.FieldErrors
	if errors.As(err, &fieldErrs) {
		return commonErrors.NewMissingFieldsError(fieldErrs.Fields())
	}
	return commonErrors.NewInternalError("failed to validate taxpayer record", err)
}

// ComputeTaxDue returns round(base * (rate / 100)) with ties going to the
// even neighbour, evaluated in float64 in exactly that order. It reports
// false when the result does not fit in an int64.
func ComputeTaxDue(taxBase, taxRate float64) (int64, bool) {
	due := math.RoundToEven(taxBase * (taxRate / 100))
	if math.IsNaN(due) || due >= maxTaxDue || due < -maxTaxDue {
		return 0, false
	}
	return int64(due), true
}

// 2^63, the first float64 past the int64 range
const maxTaxDue = float64(1 << 63)

// SplitName splits a full name on whitespace. The first token is the given
// name, the remaining tokens joined by single spaces form the surname.
func SplitName(name string) (string, string, error) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", "", commonErrors.NewNameFormatError("name must contain a first name and a surname")
	}
	return parts[0], strings.Join(parts[1:], " "), nil
}

// FormatAmount renders a value with exactly two fraction digits
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseAmounts(taxBase, taxRate string) (float64, float64, error) {
	var invalid []string
	base, ok := parseNumber(taxBase)
	if !ok {
		invalid = append(invalid, "tax_base")
	}
	rate, ok := parseNumber(taxRate)
	if !ok {
		invalid = append(invalid, "tax_rate")
	}
	if len(invalid) > 0 {
		return 0, 0, commonErrors.NewNumericFormatError(invalid)
	}
	return base, rate, nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
