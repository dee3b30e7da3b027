package declaration

import "encoding/xml"

// Namespace of the PCC-3 (variant 6) schema
const Namespace = "http://crd.gov.pl/wzor/2023/12/13/13064/"

// Fixed values of the form
const (
	FormCode          = "PCC-3"
	FormVariant       = "6"
	PurposeFiling     = "1"
	RoleTaxpayer      = "Podatnik"
	AddressKindHome   = "RAD"
	CountryCodePoland = "PL"
	SubjectContract   = "1"
	LocationPoland    = "1"
	NoticeAccepted    = "1"
)

// Document is the Deklaracja element. Only the root declares a namespace.
type Document struct {
	XMLName  xml.Name `xml:"Deklaracja"`
	Xmlns    string   `xml:"xmlns,attr"`
	Header   Header   `xml:"Naglowek"`
	Taxpayer Taxpayer `xml:"Podmiot1"`
	Details  Details  `xml:"PozycjeSzczegolowe"`
	Notice   string   `xml:"Pouczenia"`
}

// Header is the Naglowek section
type Header struct {
	FormCode    string     `xml:"KodFormularza"`
	FormVariant string     `xml:"WariantFormularza"`
	Purpose     Positioned `xml:"CelZlozenia"`
	Date        Positioned `xml:"Data"`
}

// Positioned is a value tied to a numbered form box (poz attribute)
type Positioned struct {
	Position string `xml:"poz,attr"`
	Value    string `xml:",chardata"`
}

// Taxpayer is the Podmiot1 section
type Taxpayer struct {
	Role    string  `xml:"rola,attr"`
	Person  Person  `xml:"OsobaFizyczna"`
	Address Address `xml:"AdresZamieszkaniaSiedziby"`
}

// Person is the OsobaFizyczna element
type Person struct {
	PESEL       string `xml:"PESEL"`
	GivenName   string `xml:"ImiePierwsze"`
	Surname     string `xml:"Nazwisko"`
	DateOfBirth string `xml:"DataUrodzenia"`
}

// Address is the AdresZamieszkaniaSiedziby element
type Address struct {
	Kind     string          `xml:"rodzajAdresu,attr"`
	Domestic DomesticAddress `xml:"AdresPol"`
}

// DomesticAddress is the AdresPol element
type DomesticAddress struct {
	CountryCode string `xml:"KodKraju"`
	Region      string `xml:"Wojewodztwo"`
	City        string `xml:"Miejscowosc"`
	Street      string `xml:"Ulica"`
	HouseNumber string `xml:"NrDomu"`
	PostalCode  string `xml:"KodPocztowy"`
}

// Details is the PozycjeSzczegolowe section
type Details struct {
	Subject     string `xml:"P_20"`
	Location    string `xml:"P_21"`
	Description string `xml:"P_23"`
	TaxBase     string `xml:"P_26"`
	TaxRate     string `xml:"P_27"`
	TaxDue      string `xml:"P_46"`
}
