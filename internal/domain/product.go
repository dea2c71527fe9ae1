package domain

// Product is the purchasable record a button is configured with.
type Product struct {
	Key      string
	Title    string
	Image    string
	Variants []Variant
}

type Variant struct {
	ID              string
	Title           string
	Price           Money
	SelectedOptions []SelectedOption
}
