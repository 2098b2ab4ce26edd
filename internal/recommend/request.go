// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/promptrec/pkg/types"
)

// ErrInvalidRequest is returned (wrapped) when a request is rejected before
// entering the pipeline.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// Request describes a recommendation request.
type Request struct {
	// Category scopes the request to a combo type. Empty or "all" means no
	// category filter.
	Category types.ComboType `json:"category,omitempty" validate:"omitempty,oneof=enterprise web app custom all"`

	// Tags are caller-supplied interest tags.
	Tags []string `json:"tags,omitempty" validate:"max=32,dive,max=64"`

	// Purpose is free text; its words longer than three characters become
	// implicit tags.
	Purpose string `json:"purpose,omitempty" validate:"max=1000"`

	// Limit caps the number of returned candidates. Zero means the engine
	// default.
	Limit int `json:"limit,omitempty" validate:"gte=0"`
}

var requestValidator = validator.New()

// Validate rejects malformed requests. The returned error wraps
// ErrInvalidRequest.
func (c Request) Validate() error {
	err := requestValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s fails %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, ", "))
}

// requestedCategory returns the category filter, mapping the wildcard to
// "no category".
func (c Request) requestedCategory() types.ComboType {
	if c.Category == types.ComboAll {
		return ""
	}
	return c.Category
}

// EffectiveTags returns the sorted union of the normalized caller tags and the
// purpose words.
func EffectiveTags(tags []string, purpose string) []string {
	set := make(map[string]struct{})
	for _, t := range types.NormalizeTags(tags, 0) {
		set[t] = struct{}{}
	}
	for _, w := range purposeWords(purpose) {
		set[w] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// purposeWords lowercases purpose, splits it on anything that is not an
// ASCII letter or digit, and keeps words longer than three characters.
func purposeWords(purpose string) []string {
	fields := strings.FieldsFunc(strings.ToLower(purpose), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	var words []string
	for _, f := range fields {
		if len(f) > 3 {
			words = append(words, f)
		}
	}
	return words
}

// CacheKey identifies a ranked list: user, category (or "all"), the sorted
// effective tags, and the raw purpose.
func CacheKey(userID string, category types.ComboType, effectiveTags []string, purpose string) string {
	cat := string(category)
	if cat == "" {
		cat = string(types.ComboAll)
	}
	tags := append([]string(nil), effectiveTags...)
	sort.Strings(tags)
	return strings.Join([]string{userID, cat, strings.Join(tags, ","), purpose}, ":")
}
