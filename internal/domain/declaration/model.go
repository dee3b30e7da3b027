package declaration

import (
	"bytes"
	"encoding/json"
	"net/url"
	"time"
)

// Amount is a decimal value as submitted. JSON clients may send it as a
// string or a number; anything else is kept as raw text so that it fails
// numeric parsing with a field error instead of rejecting the whole body.
type Amount string

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(data)
	}
	return nil
}

// TaxpayerRecord is the flat field set submitted on the PCC-3 form.
// The json names are the form keys; field order is the order in
// which missing fields are reported.
type TaxpayerRecord struct {
	PESEL           string `json:"pesel" validate:"required"`
	Name            string `json:"name" validate:"required"`
	DateOfBirth     string `json:"dob" validate:"required"`
	Region          string `json:"region" validate:"required"`
	City            string `json:"city" validate:"required"`
	Street          string `json:"street" validate:"required"`
	HouseNumber     string `json:"house_number" validate:"required"`
	PostalCode      string `json:"postal_code" validate:"required"`
	TransactionDate string `json:"date_of_transaction" validate:"required"`
	Description     string `json:"description" validate:"required"`
	TaxBase         Amount `json:"tax_base" validate:"required"`
	TaxRate         Amount `json:"tax_rate" validate:"required"` // percent
}

// RecordFromForm maps url-encoded form values onto a TaxpayerRecord
func RecordFromForm(values url.Values) TaxpayerRecord {
	return TaxpayerRecord{
		PESEL:           values.Get("pesel"),
		Name:            values.Get("name"),
		DateOfBirth:     values.Get("dob"),
		Region:          values.Get("region"),
		City:            values.Get("city"),
		Street:          values.Get("street"),
		HouseNumber:     values.Get("house_number"),
		PostalCode:      values.Get("postal_code"),
		TransactionDate: values.Get("date_of_transaction"),
		Description:     values.Get("description"),
		TaxBase:         Amount(values.Get("tax_base")),
		TaxRate:         Amount(values.Get("tax_rate")),
	}
}

// Result is what the builder derives from a valid record
type Result struct {
	Document  Document
	XML       string
	TaxDue    int64
	GivenName string
	Surname   string
}

// Declaration is a generated document as persisted. Immutable once created.
type Declaration struct {
	ID         string    `json:"id"`
	XMLContent string    `json:"xmlContent"`
	TaxDue     int64     `json:"taxDue"`
	CreatedAt  time.Time `json:"createdAt"`
}

// File is a stored document prepared for download
type File struct {
	Name        string
	ContentType string
	Content     []byte
}
