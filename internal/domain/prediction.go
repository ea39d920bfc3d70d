package domain

// Prediction is one ranked candidate returned by POST /predict.
type Prediction struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	ProductID *int   `json:"product_id"`
}

// Known reports whether the candidate matches a catalog product.
func (p Prediction) Known() bool {
	return p.ProductID != nil
}

type PredictResponse struct {
	Results []Prediction `json:"results"`
}
