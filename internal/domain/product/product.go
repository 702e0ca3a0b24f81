// Package product holds the change-event model of a product and its mapping
// to a flat index document.
package product

import (
	"strconv"
	"strings"
	"time"
)

// Document field names, shared by the index schema, the writer and the query projection.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldCreated     = "created"
	FieldDescription = "description"
	FieldBrand       = "brand"
	FieldTags        = "tags"
	FieldCategories  = "categories"
)

// ListSeparator joins multi-valued attributes into a single TAG field value.
// Values are not escaped: a separator inside a value cannot be told apart from two values.
const ListSeparator = ","

// ChangeEvent is one product mutation read from the stream.
type ChangeEvent struct {
	ProductID         int64
	ProductName       string
	CreatedAt         time.Time
	ProductDetailsRaw string
}

// Attributes are the nested product details carried as an encoded string in the event.
type Attributes struct {
	Description string
	Brand       string
	Tags        []string
	Categories  []string
}

// Document is the hash written to the index store. Fields holds exactly the
// fields a write sets; fields absent from the map are not touched in the store.
type Document struct {
	Key    string
	Fields map[string]string
}

// ID returns the document's id field.
func (d Document) ID() string { return d.Fields[FieldID] }

// Key builds the store key for a product: prefix followed by the decimal product id.
func Key(prefix string, productID int64) string {
	return prefix + strconv.FormatInt(productID, 10)
}

// JoinList flattens a list the way it is stored. An empty or nil list yields "".
func JoinList(values []string) string {
	return strings.Join(values, ListSeparator)
}

// SplitList reads back a flattened list. It is not the inverse of JoinList
// when a value contained the separator.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ListSeparator)
}
