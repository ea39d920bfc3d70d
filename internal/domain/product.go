package domain

import (
	"encoding/json"
	"fmt"
)

// Product is an entry of GET /products.
type Product struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	CategoryID int      `json:"category_id"`
	ImageURL   *string  `json:"image_url"`
	Sweeteners []string `json:"sweeteners"`
}

// HasSweetener reports whether the product lists the sweetener by exact name.
func (p Product) HasSweetener(name string) bool {
	for _, s := range p.Sweeteners {
		if s == name {
			return true
		}
	}
	return false
}

// ProductDetail is the payload of GET /products/{id}/full.
type ProductDetail struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Brand      *string        `json:"brand,omitempty"`
	Volume     *string        `json:"volume,omitempty"`
	ImageURL   *string        `json:"image_url"`
	Category   *Category      `json:"category,omitempty"`
	Sweeteners []SweetenerRef `json:"sweeteners"`
	Nutrition  *Nutrition     `json:"nutrition"`
}

// SweetenerNames flattens the detail sweeteners into their names.
func (d ProductDetail) SweetenerNames() []string {
	names := make([]string, 0, len(d.Sweeteners))
	for _, s := range d.Sweeteners {
		names = append(names, s.Name)
	}
	return names
}

// SweetenerRef accepts both a bare name and an {id, name} object.
type SweetenerRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

func (s *SweetenerRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = SweetenerRef{Name: name}
		return nil
	}

	type plain SweetenerRef
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("sweetener must be a string or an object: %w", err)
	}
	*s = SweetenerRef(obj)
	return nil
}
