package ledger

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AssetInput is the add-asset request.
type AssetInput struct {
	Location     string `json:"location" validate:"required"`
	Details      string `json:"details" validate:"required"`
	OldAssetCode string `json:"oldAssetCode"`
	SerialNumber string `json:"serialNumber"`
}

// TransferInput is the add-transfer request. WhenDate is YYYY-MM-DD.
type TransferInput struct {
	OldAssetCode string `json:"oldAssetCode" validate:"required"`
	To           string `json:"to" validate:"required"`
	By           string `json:"by"`
	Reason       string `json:"reason"`
	WhenDate     string `json:"whenDate"`
}

// DisposalInput is the add-disposal request. ReasonCategory is one of
// Scrapped, "Sold to Third Party" or "Trade in".
type DisposalInput struct {
	Location       string `json:"location" validate:"required"`
	OldAssetCode   string `json:"oldAssetCode" validate:"required"`
	ReasonCategory string `json:"reasonCategory" validate:"required"`
	Vendor         string `json:"vendor"`
	SerialNumber   string `json:"serialNumber"`
	Details        string `json:"details"`
	WhenDate       string `json:"whenDate"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput turns validator failures into a *ValidationError naming
// the first missing field (in declaration order) and listing all of them.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	first := missingField(verrs[0].Field())
	if verrs[0].Tag() != "required" {
		first = invalidField(verrs[0].Field(), verrs[0].Tag())
	}
	first.Fields = fields
	return first
}

// ParseLocations splits a comma-separated location filter. Empty input and
// ALL (any case) mean no filter and yield nil.
func ParseLocations(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "ALL") {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
