package models

import "strings"

// Country drives address layout. SwapPostalCode puts the postal code
// before the city.
type Country struct {
	Name           string `json:"name"`
	ISO3166_2      string `json:"iso_3166_2"`
	SwapPostalCode Flag   `json:"swap_postal_code"`
}

// Currency controls how amounts are displayed. A nil Precision means two
// decimal places.
type Currency struct {
	Code               string `json:"code"`
	Symbol             string `json:"symbol"`
	Precision          *int   `json:"precision,omitempty"`
	ThousandSeparator  string `json:"thousand_separator"`
	DecimalSeparator   string `json:"decimal_separator"`
	SwapCurrencySymbol Flag   `json:"swap_currency_symbol"`
}

// Account is the issuing business.
type Account struct {
	Name       string `json:"name"`
	IDNumber   string `json:"id_number,omitempty"`
	VATNumber  string `json:"vat_number,omitempty"`
	Website    string `json:"website,omitempty"`
	WorkEmail  string `json:"work_email,omitempty"`
	WorkPhone  string `json:"work_phone,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`

	Country  *Country  `json:"country,omitempty"`
	Currency *Currency `json:"currency,omitempty"`
	Locale   string    `json:"locale,omitempty"`

	CustomLabel1            string `json:"custom_label1,omitempty"`
	CustomValue1            string `json:"custom_value1,omitempty"`
	CustomLabel2            string `json:"custom_label2,omitempty"`
	CustomValue2            string `json:"custom_value2,omitempty"`
	CustomClientLabel1      string `json:"custom_client_label1,omitempty"`
	CustomClientLabel2      string `json:"custom_client_label2,omitempty"`
	CustomInvoiceLabel1     string `json:"custom_invoice_label1,omitempty"`
	CustomInvoiceLabel2     string `json:"custom_invoice_label2,omitempty"`
	CustomInvoiceTextLabel1 string `json:"custom_invoice_text_label1,omitempty"`
	CustomInvoiceTextLabel2 string `json:"custom_invoice_text_label2,omitempty"`
	CustomInvoiceItemLabel1 string `json:"custom_invoice_item_label1,omitempty"`
	CustomInvoiceItemLabel2 string `json:"custom_invoice_item_label2,omitempty"`
	InvoiceNumberPattern    string `json:"invoice_number_pattern,omitempty"`
	QuoteNumberPattern      string `json:"quote_number_pattern,omitempty"`

	HideQuantity   Flag `json:"hide_quantity"`
	ShowItemTaxes  Flag `json:"show_item_taxes"`
	HidePaidToDate Flag `json:"hide_paid_to_date"`
	AllPagesHeader Flag `json:"all_pages_header"`
	AllPagesFooter Flag `json:"all_pages_footer"`
}

// Contact is a person at a client.
type Contact struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsPrimary Flag   `json:"is_primary"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Client is the billed party.
type Client struct {
	Name         string    `json:"name,omitempty"`
	IDNumber     string    `json:"id_number,omitempty"`
	VATNumber    string    `json:"vat_number,omitempty"`
	Address1     string    `json:"address1,omitempty"`
	Address2     string    `json:"address2,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      *Country  `json:"country,omitempty"`
	Currency     *Currency `json:"currency,omitempty"`
	CustomValue1 string    `json:"custom_value1,omitempty"`
	CustomValue2 string    `json:"custom_value2,omitempty"`
	Contacts     []Contact `json:"contacts,omitempty"`
}

// PrimaryContact returns the contact flagged primary, else the first one.
func (c *Client) PrimaryContact() (Contact, bool) {
	if c == nil || len(c.Contacts) == 0 {
		return Contact{}, false
	}
	for _, contact := range c.Contacts {
		if contact.IsPrimary {
			return contact, true
		}
	}
	return c.Contacts[0], true
}

// DisplayName resolves contact name, then contact email, then company name.
func (c *Client) DisplayName() string {
	if c == nil {
		return ""
	}
	if contact, ok := c.PrimaryContact(); ok {
		if name := contact.FullName(); name != "" {
			return name
		}
		if contact.Email != "" {
			return contact.Email
		}
	}
	return c.Name
}
