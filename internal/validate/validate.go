// Package validate checks submitted receipts before they are scored. The
// shape of every field is described by the receipt JSON schema; the checks
// a schema cannot express (calendar dates, blank descriptions) follow it.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/iurnickita/receiptprocessor/internal/model"
)

const rootField = "receipt"

//go:embed receipt.schema.json
var receiptSchemaJSON []byte

var receiptSchema = mustCompileSchema("receipt.schema.json", receiptSchemaJSON)

func mustCompileSchema(url string, data []byte) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", url, err))
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", url, err))
	}
	return schema
}

// Violation describes a single field that failed validation.
type Violation struct {
	Field   string
	Value   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %q: %s", v.Field, v.Value, v.Message)
}

// Result is the outcome of validating a receipt.
type Result struct {
	Violations []Violation
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid result and an error listing every violation
// otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	messages := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		messages = append(messages, v.String())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

func (r *Result) add(field, value, message string) {
	r.Violations = append(r.Violations, Violation{Field: field, Value: value, Message: message})
}

func (r Result) has(field string) bool {
	for _, v := range r.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// JSON checks a raw receipt document against the receipt schema.
func JSON(data []byte) Result {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		var res Result
		res.add(rootField, "", "must be a JSON document")
		return res
	}
	return schemaResult(doc)
}

// Receipt validates all receipt fields and collects every violation.
func Receipt(receipt model.Receipt) Result {
	res := schemaResult(document(receipt))

	// схема проверяет только формат, календарь проверяем отдельно
	if !res.has("purchaseDate") {
		if _, err := time.Parse(model.DateLayout, receipt.PurchaseDate); err != nil {
			res.add("purchaseDate", receipt.PurchaseDate, "must be a calendar date in YYYY-MM-DD form")
		}
	}
	if !res.has("purchaseTime") {
		if _, err := time.Parse(model.TimeLayout, receipt.PurchaseTime); err != nil {
			res.add("purchaseTime", receipt.PurchaseTime, "must be a 24-hour time in HH:MM form")
		}
	}
	for i, item := range receipt.Items {
		field := fmt.Sprintf("items[%d].shortDescription", i)
		if !res.has(field) && strings.TrimSpace(item.ShortDescription) == "" {
			res.add(field, item.ShortDescription, "must not be blank")
		}
	}

	return res
}

func document(receipt model.Receipt) map[string]any {
	items := make([]any, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		items = append(items, map[string]any{
			"shortDescription": item.ShortDescription,
			"price":            item.Price,
		})
	}
	return map[string]any{
		"retailer":     receipt.Retailer,
		"purchaseDate": receipt.PurchaseDate,
		"purchaseTime": receipt.PurchaseTime,
		"items":        items,
		"total":        receipt.Total,
	}
}

func schemaResult(doc any) Result {
	var res Result

	err := receiptSchema.Validate(doc)
	if err == nil {
		return res
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		res.add(rootField, "", err.Error())
		return res
	}
	for _, leaf := range leaves(verr) {
		res.add(fieldName(leaf.InstanceLocation), valueAt(doc, leaf.InstanceLocation), leaf.Message)
	}
	return res
}

func leaves(verr *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(verr.Causes) == 0 {
		return []*jsonschema.ValidationError{verr}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range verr.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func pointerTokens(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	tokens := strings.Split(pointer, "/")
	for i, t := range tokens {
		tokens[i] = pointerUnescaper.Replace(t)
	}
	return tokens
}

// fieldName turns a JSON pointer such as /items/1/price into items[1].price.
func fieldName(pointer string) string {
	tokens := pointerTokens(pointer)
	if len(tokens) == 0 {
		return rootField
	}
	var sb strings.Builder
	for _, t := range tokens {
		if _, err := strconv.Atoi(t); err == nil {
			sb.WriteString("[" + t + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(t)
	}
	return sb.String()
}

func valueAt(doc any, pointer string) string {
	v := doc
	for _, t := range pointerTokens(pointer) {
		switch node := v.(type) {
		case map[string]any:
			v = node[t]
		case []any:
			i, err := strconv.Atoi(t)
			if err != nil || i < 0 || i >= len(node) {
				return ""
			}
			v = node[i]
		default:
			return ""
		}
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
