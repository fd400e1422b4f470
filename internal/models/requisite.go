package models

// PaymentDetails is the routing information printed for one debt category.
type PaymentDetails struct {
	Recipient string `json:"recipient"`
	EDRPOU    string `json:"edrpou"`
	Account   string `json:"account"`
	Purpose   string `json:"purpose"`
}

// Requisite is the organization's payment settings row. Only the most recent
// row by date is ever used.
type Requisite struct {
	Date           Date           `json:"date"`
	NonResidential PaymentDetails `json:"non_residential"`
	Residential    PaymentDetails `json:"residential"`
	Land           PaymentDetails `json:"land"`
	Orenda         PaymentDetails `json:"orenda"`
	MPZ            PaymentDetails `json:"mpz"`
	ID             int64          `json:"id"`
}
