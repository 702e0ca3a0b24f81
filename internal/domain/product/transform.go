package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/productsearch/internal/domain"
)

// Decode stages reported by MalformedEventError.
const (
	StageEnvelope   = "envelope"
	StageAttributes = "attributes"
)

// MalformedEventError reports a change event that does not decode into the expected shape.
// It matches domain.ErrMalformedEvent with errors.Is.
type MalformedEventError struct {
	Stage string
	Err   error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("%s: %s: %v", domain.ErrMalformedEvent, e.Stage, e.Err)
}

func (e *MalformedEventError) Unwrap() error { return e.Err }

// Is reports domain.ErrMalformedEvent as the error's kind.
func (e *MalformedEventError) Is(target error) bool { return target == domain.ErrMalformedEvent }

// envelopeWire is the stream message layout. Pointers distinguish absent or null keys.
type envelopeWire struct {
	ProductID      *int64     `json:"product_id"`
	ProductName    *string    `json:"product_name"`
	CreatedAt      *Timestamp `json:"created_at"`
	ProductDetails *string    `json:"product_details"`
}

type attributesWire struct {
	Description *string   `json:"description"`
	Brand       *string   `json:"brand"`
	Tags        *[]string `json:"tags"`
	Categories  *[]string `json:"categories"`
}

// ParseEnvelope decodes a raw stream message. Every key must be present and non-null;
// product_id must be an integer. Unknown keys are ignored.
func ParseEnvelope(data []byte) (ChangeEvent, error) {
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return ChangeEvent{}, &MalformedEventError{Stage: StageEnvelope, Err: err}
	}

	var missing []string
	if w.ProductID == nil {
		missing = append(missing, "product_id")
	}
	if w.ProductName == nil {
		missing = append(missing, "product_name")
	}
	if w.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	if w.ProductDetails == nil {
		missing = append(missing, "product_details")
	}
	if len(missing) > 0 {
		return ChangeEvent{}, &MalformedEventError{Stage: StageEnvelope, Err: missingErr(missing)}
	}

	return ChangeEvent{
		ProductID:         *w.ProductID,
		ProductName:       *w.ProductName,
		CreatedAt:         w.CreatedAt.Time,
		ProductDetailsRaw: *w.ProductDetails,
	}, nil
}

// ParseAttributes decodes the nested product_details payload.
// tags and categories must be arrays of strings; empty arrays are valid.
func ParseAttributes(raw string) (Attributes, error) {
	var w attributesWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Attributes{}, &MalformedEventError{Stage: StageAttributes, Err: err}
	}

	var missing []string
	if w.Description == nil {
		missing = append(missing, "description")
	}
	if w.Brand == nil {
		missing = append(missing, "brand")
	}
	if w.Tags == nil {
		missing = append(missing, "tags")
	}
	if w.Categories == nil {
		missing = append(missing, "categories")
	}
	if len(missing) > 0 {
		return Attributes{}, &MalformedEventError{Stage: StageAttributes, Err: missingErr(missing)}
	}

	return Attributes{
		Description: *w.Description,
		Brand:       *w.Brand,
		Tags:        *w.Tags,
		Categories:  *w.Categories,
	}, nil
}

// ToDocument maps a decoded event and its attributes to the document stored under
// prefix+productId. Contents are not validated.
func ToDocument(prefix string, ev ChangeEvent, attrs Attributes) Document {
	return Document{
		Key: Key(prefix, ev.ProductID),
		Fields: map[string]string{
			FieldID:          strconv.FormatInt(ev.ProductID, 10),
			FieldName:        ev.ProductName,
			FieldCreated:     strconv.FormatInt(ev.CreatedAt.UnixMilli(), 10),
			FieldDescription: attrs.Description,
			FieldBrand:       attrs.Brand,
			FieldTags:        JoinList(attrs.Tags),
			FieldCategories:  JoinList(attrs.Categories),
		},
	}
}

// Decode runs both decode stages and the mapping for one raw message.
func Decode(prefix string, data []byte) (Document, error) {
	ev, err := ParseEnvelope(data)
	if err != nil {
		return Document{}, err
	}
	attrs, err := ParseAttributes(ev.ProductDetailsRaw)
	if err != nil {
		return Document{}, err
	}
	return ToDocument(prefix, ev, attrs), nil
}

func missingErr(keys []string) error {
	return errors.New("missing or null: " + strings.Join(keys, ", "))
}
