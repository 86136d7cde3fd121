package model

// Входящие чеки

// Receipt is a submitted purchase receipt. Monetary amounts keep their
// textual form so that they can be parsed as exact decimals.
type Receipt struct {
	Retailer     string
	PurchaseDate string
	PurchaseTime string
	Items        []Item
	Total        string
}

type Item struct {
	ShortDescription string
	Price            string
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Начисленные баллы

type ScoredReceipt struct {
	ID     string
	Points int
}
