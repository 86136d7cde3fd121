// Package points calculates the loyalty points awarded for a receipt.
package points

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/iurnickita/receiptprocessor/internal/model"
)

var (
	ErrInvalidReceipt = errors.New("invalid receipt")
	ErrInvalidAmount  = fmt.Errorf("%w: invalid amount", ErrInvalidReceipt)
	ErrInvalidDate    = fmt.Errorf("%w: invalid purchase date", ErrInvalidReceipt)
	ErrInvalidTime    = fmt.Errorf("%w: invalid purchase time", ErrInvalidReceipt)
)

const (
	roundDollarPoints   = 50
	quarterPoints       = 25
	itemPairPoints      = 5
	highTotalPoints     = 5
	oddDayPoints        = 6
	afternoonPoints     = 10
	descriptionMultiple = 3
)

var (
	amountRegexp = regexp.MustCompile(`^\d+\.\d{2}$`)

	one             = decimal.NewFromInt(1)
	quarter         = decimal.RequireFromString("0.25")
	descriptionRate = decimal.RequireFromString("0.2")
	highTotal       = decimal.RequireFromString("10.00")

	// верхняя граница бонуса за описания, дальше int уже не надежен
	maxDescriptionPoints = decimal.NewFromInt(math.MaxInt32)

	afternoonStart = 14 * time.Hour
	afternoonEnd   = 16 * time.Hour
)

// Breakdown holds the contribution of every rule to the receipt score.
type Breakdown struct {
	Retailer    int
	RoundDollar int
	Quarter     int
	ItemPairs   int
	Description int
	HighTotal   int
	OddDay      int
	Afternoon   int
}

// Total sums all rule contributions.
func (b Breakdown) Total() int {
	return b.Retailer + b.RoundDollar + b.Quarter + b.ItemPairs +
		b.Description + b.HighTotal + b.OddDay + b.Afternoon
}

// Calculate returns the points for the receipt. The receipt is expected to
// be validated already; content that still fails to parse is reported as an
// error wrapping ErrInvalidReceipt rather than scored as zero.
func Calculate(receipt model.Receipt) (int, error) {
	b, err := Explain(receipt)
	if err != nil {
		return 0, err
	}
	return b.Total(), nil
}

// Explain applies every rule to the receipt and returns the per-rule points.
func Explain(receipt model.Receipt) (Breakdown, error) {
	var b Breakdown

	total, err := ParseAmount(receipt.Total)
	if err != nil {
		return Breakdown{}, fmt.Errorf("total: %w", err)
	}
	purchaseDate, err := time.Parse(model.DateLayout, receipt.PurchaseDate)
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrInvalidDate, receipt.PurchaseDate)
	}
	purchaseTime, err := ParseTime(receipt.PurchaseTime)
	if err != nil {
		return Breakdown{}, err
	}

	b.Retailer = alphanumeric(receipt.Retailer)

	if total.Mod(one).IsZero() {
		b.RoundDollar = roundDollarPoints
	}
	if total.Mod(quarter).IsZero() {
		b.Quarter = quarterPoints
	}

	b.ItemPairs = len(receipt.Items) / 2 * itemPairPoints

	description := decimal.Zero
	for i, item := range receipt.Items {
		bonus, err := descriptionBonus(item)
		if err != nil {
			return Breakdown{}, fmt.Errorf("items[%d].price: %w", i, err)
		}
		description = description.Add(bonus)
		if description.GreaterThan(maxDescriptionPoints) {
			return Breakdown{}, fmt.Errorf("items: %w: description points exceed %s", ErrInvalidAmount, maxDescriptionPoints)
		}
	}
	b.Description = int(description.IntPart())

	if total.GreaterThan(highTotal) {
		b.HighTotal = highTotalPoints
	}

	if purchaseDate.Day()%2 == 1 {
		b.OddDay = oddDayPoints
	}

	if purchaseTime > afternoonStart && purchaseTime < afternoonEnd {
		b.Afternoon = afternoonPoints
	}

	return b, nil
}

// ParseAmount parses a non-negative amount with exactly two fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountRegexp.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseTime parses a 24-hour HH:MM time and returns it as the offset from
// midnight.
func ParseTime(s string) (time.Duration, error) {
	t, err := time.Parse(model.TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func alphanumeric(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func descriptionBonus(item model.Item) (decimal.Decimal, error) {
	price, err := ParseAmount(item.Price)
	if err != nil {
		return decimal.Zero, err
	}

	length := utf8.RuneCountInString(strings.TrimSpace(item.ShortDescription))
	if length == 0 || length%descriptionMultiple != 0 {
		return decimal.Zero, nil
	}
	bonus := price.Mul(descriptionRate).Ceil()
	if bonus.GreaterThan(maxDescriptionPoints) {
		return decimal.Zero, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, item.Price)
	}
	return bonus, nil
}
