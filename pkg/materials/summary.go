package materials

import (
	"context"
	"fmt"
	"net/http"
)

const summaryPath = "/materials/summary/"

// SummaryService provides material summary lookups.
type SummaryService struct {
	client *Client
}

type summaryDoc struct {
	MaterialID    string `json:"material_id"`
	FormulaPretty string `json:"formula_pretty"`
}

// Formula returns the reduced chemical formula of a material, e.g. "Si"
// for mp-149.
func (s *SummaryService) Formula(ctx context.Context, id string) (string, error) {
	doc, err := lookup[summaryDoc](ctx, s.client.http, summaryPath, id, "material_id", "formula_pretty")
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", &Error{HTTPStatus: http.StatusNotFound, Detail: "no summary document", MaterialID: id}
	}
	if doc.FormulaPretty == "" {
		return "", fmt.Errorf("materials: %s: empty formula", id)
	}
	return doc.FormulaPretty, nil
}
