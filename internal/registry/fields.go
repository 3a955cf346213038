package registry

// Field describes one search-criteria input.
type Field struct {
	Key         string // wire name sent to the registry
	Label       string
	Placeholder string
}

// FieldSet is the ordered set of criteria fields for one duplicate-check
// screen. Field order is fixed: signatures and wire payloads both depend
// on it.
type FieldSet struct {
	Kind   Kind
	Fields []Field
}

// PersonFields returns the criteria fields for the individual duplicate check.
func PersonFields() FieldSet {
	return FieldSet{
		Kind: KindPerson,
		Fields: []Field{
			{Key: "initials", Label: "Initials", Placeholder: "J.A."},
			{Key: "surname", Label: "Surname", Placeholder: "Jansen"},
			{Key: "birth_date", Label: "Birth date", Placeholder: "1980-04-12"},
			{Key: "email", Label: "Email", Placeholder: "j.jansen@example.nl"},
			{Key: "phone", Label: "Phone", Placeholder: "0612345678"},
			{Key: "postcode", Label: "Postcode", Placeholder: "1234 AB"},
			{Key: "house_number", Label: "House number", Placeholder: "12"},
		},
	}
}

// BusinessFields returns the criteria fields for the business duplicate check.
// This field set is the only difference between the two screens; the session
// engine itself is shared.
func BusinessFields() FieldSet {
	return FieldSet{
		Kind: KindBusiness,
		Fields: []Field{
			{Key: "company_name", Label: "Company name", Placeholder: "Bouwbedrijf De Vries BV"},
			{Key: "kvk_number", Label: "KvK number", Placeholder: "12345678"},
			{Key: "email", Label: "Email", Placeholder: "info@devries.nl"},
			{Key: "phone", Label: "Phone", Placeholder: "0201234567"},
			{Key: "postcode", Label: "Postcode", Placeholder: "1234 AB"},
			{Key: "house_number", Label: "House number", Placeholder: "12"},
		},
	}
}

// Keys returns the wire names of all fields, in order.
func (fs FieldSet) Keys() []string {
	keys := make([]string, len(fs.Fields))
	for i, f := range fs.Fields {
		keys[i] = f.Key
	}
	return keys
}
