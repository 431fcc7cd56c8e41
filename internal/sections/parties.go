package sections

import (
	"strings"

	"github.com/ttacon/libphonenumber"

	"billing/internal/document"
	"billing/pkg/models"
)

// AccountDetails lists the issuing business: name, tax ids, website, email
// and phone.
func (b *Builder) AccountDetails() document.Array {
	acc := b.account()
	items := []*document.Object{
		text(acc.Name, "accountName"),
		text(acc.IDNumber),
		text(acc.VATNumber),
		text(acc.Website),
		text(acc.WorkEmail),
		text(formatPhone(acc.WorkPhone, acc.Country)),
	}
	return prepareList(items, "accountDetails")
}

// AccountAddress lists the account's postal address. Pro accounts also get
// their custom label/value lines.
func (b *Builder) AccountAddress() document.Array {
	acc := b.account()
	items := []*document.Object{
		text(acc.Address1),
		text(acc.Address2),
		text(cityStatePostal(acc.City, acc.State, acc.PostalCode, swapsPostalCode(acc.Country))),
		text(countryName(acc.Country)),
	}
	if b.isPro() {
		items = append(items,
			text(customLine(acc.CustomLabel1, acc.CustomValue1)),
			text(customLine(acc.CustomLabel2, acc.CustomValue2)),
		)
	}
	return prepareList(items, "accountAddress")
}

// ClientDetails lists the billed party. It is empty for an invoice without a
// client.
func (b *Builder) ClientDetails() document.Array {
	client := b.inv.Client
	if client == nil {
		return document.Array{}
	}
	acc := b.account()

	name := client.DisplayName()
	email := ""
	if contact, ok := client.PrimaryContact(); ok && contact.Email != name {
		email = contact.Email
	}

	// custom fields already printed as part of the number are not repeated
	pattern := acc.InvoiceNumberPattern
	if b.inv.IsQuote {
		pattern = acc.QuoteNumberPattern
	}
	custom1 := ""
	if !strings.Contains(pattern, "{$custom1}") {
		custom1 = customLine(acc.CustomClientLabel1, client.CustomValue1)
	}
	custom2 := ""
	if !strings.Contains(pattern, "{$custom2}") {
		custom2 = customLine(acc.CustomClientLabel2, client.CustomValue2)
	}

	items := []*document.Object{
		text(orBlank(name), "clientName"),
		text(client.IDNumber),
		text(client.VATNumber),
		text(client.Address1),
		text(client.Address2),
		text(cityStatePostal(client.City, client.State, client.PostalCode, swapsPostalCode(client.Country))),
		text(countryName(client.Country)),
		text(email),
		text(custom1),
		text(custom2),
	}
	return prepareList(items, "clientDetails")
}

func customLine(label, value string) string {
	if value == "" {
		return ""
	}
	return label + " " + value
}

func countryName(c *models.Country) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func swapsPostalCode(c *models.Country) bool {
	return c != nil && bool(c.SwapPostalCode)
}

// formatPhone prints a phone number in international format when it parses
// for the account's country, and unchanged otherwise.
func formatPhone(phone string, c *models.Country) string {
	if phone == "" || c == nil || c.ISO3166_2 == "" {
		return phone
	}
	num, err := libphonenumber.Parse(phone, strings.ToUpper(c.ISO3166_2))
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return phone
	}
	return libphonenumber.Format(num, libphonenumber.INTERNATIONAL)
}
